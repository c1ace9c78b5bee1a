package reconcile

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/MaxwellDPS/seedr-adapter/internal/localdisk"
	"github.com/MaxwellDPS/seedr-adapter/internal/mapping"
	"github.com/MaxwellDPS/seedr-adapter/internal/ownership"
)

// RemoveItem deletes a release's cloud state (subject to ownership
// coordination) and, if requested, its local payload, then drops the
// mapping.
func (e *Engine) RemoveItem(ctx context.Context, downloadID string, deleteLocalData bool) error {
	m, ok := e.store.Get(downloadID)
	if !ok {
		return nil
	}

	shouldDeleteCloud := true

	if e.sharedAccount {
		switch e.registry.ReleaseOwnership(ctx, downloadID) {
		case ownership.True:
			shouldDeleteCloud = true
		case ownership.False:
			shouldDeleteCloud = false
		case ownership.Unknown:
			shouldDeleteCloud = false
			e.logger.Warn("ownership registry unavailable during release, skipping cloud delete", slog.String("info_hash", downloadID))
		}
	}

	if shouldDeleteCloud {
		e.deleteFromCloudState(ctx, m)
	}

	if deleteLocalData {
		localName, err := localdisk.SanitizeName(m.Name)
		if err == nil {
			if err := e.disk.RemoveAll(filepath.Join(e.downloadDir, localName)); err != nil {
				e.logger.Warn("removing local data", slog.String("info_hash", downloadID), slog.String("error", err.Error()))
			}
		}
	}

	e.store.Remove(downloadID)

	return nil
}

// MarkItemAsImported applies the same cloud-deletion logic as RemoveItem,
// gated by deleteFromCloud, but never touches local data.
func (e *Engine) MarkItemAsImported(ctx context.Context, downloadID string) error {
	m, ok := e.store.Get(downloadID)
	if !ok {
		return nil
	}

	if e.deleteFromCloud {
		shouldDeleteCloud := true

		if e.sharedAccount {
			shouldDeleteCloud = e.registry.ReleaseOwnership(ctx, downloadID) == ownership.True
		}

		if shouldDeleteCloud {
			e.deleteFromCloudState(ctx, m)
		}
	}

	e.store.Remove(downloadID)

	return nil
}

// deleteFromCloudState tries, in order, DeleteFolder / DeleteFile /
// DeleteTransfer against whichever cloud identifiers the mapping holds.
// Errors are logged, never propagated — cloud deletion is best-effort.
func (e *Engine) deleteFromCloudState(ctx context.Context, m mapping.DownloadMapping) {
	switch {
	case m.FolderID != "":
		if err := e.client.DeleteFolder(ctx, m.FolderID); err != nil {
			e.logger.Warn("deleting cloud folder", slog.String("folder_id", m.FolderID), slog.String("error", err.Error()))
		}
	case m.FileID != "":
		if err := e.client.DeleteFile(ctx, m.FileID); err != nil {
			e.logger.Warn("deleting cloud file", slog.String("file_id", m.FileID), slog.String("error", err.Error()))
		}
	case m.TransferID != "":
		if err := e.client.DeleteTransfer(ctx, m.TransferID); err != nil {
			e.logger.Warn("deleting cloud transfer", slog.String("transfer_id", m.TransferID), slog.String("error", err.Error()))
		}
	}
}
