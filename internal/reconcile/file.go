package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/MaxwellDPS/seedr-adapter/internal/localdisk"
	"github.com/MaxwellDPS/seedr-adapter/internal/mapping"
	"github.com/MaxwellDPS/seedr-adapter/internal/seedrapi"
)

// processFile turns one assembled cloud file (a single-file torrent) into
// an item, symmetric to processFolder but without recursion or a
// readiness check — a root-listed file is already materialized.
func (e *Engine) processFile(ctx context.Context, file seedrapi.FileInfo, values []mapping.DownloadMapping) *DownloadClientItem {
	m, found := findByFileID(values, file.ID)
	if !found {
		m, found = findByName(values, file.Name)
	}

	if !found {
		if e.sharedAccount {
			return nil
		}

		e.logger.Warn("no mapping for cloud file, skipping", slog.String("file_id", file.ID), slog.String("name", file.Name))
		return nil
	}

	m.FileID = file.ID

	localName, err := localdisk.SanitizeName(file.Name)
	if err != nil {
		e.logger.Error("sanitizing file name", slog.String("file_id", file.ID), slog.String("error", err.Error()))
		return nil
	}

	localPath := filepath.Join(e.downloadDir, localName)

	complete := m.LocalDownloadComplete

	if !complete && !m.LocalDownloadInProgress && !m.LocalDownloadFailed {
		onDisk, err := e.disk.FileDownloadComplete(localPath, file.Size)
		if err != nil {
			e.logger.Error("checking file completion", slog.String("path", localPath), slog.String("error", err.Error()))
		} else {
			complete = onDisk
		}
	}

	if complete {
		m.LocalDownloadComplete = true
		m.LocalDownloadFailed = false
		e.store.Set(m.InfoHash, m)

		return &DownloadClientItem{
			DownloadID:   m.InfoHash,
			Name:         file.Name,
			TotalSize:    file.Size,
			Status:       StatusCompleted,
			OutputPath:   localPath,
			CanMoveFiles: true,
			CanBeRemoved: true,
		}
	}

	if m.LocalDownloadFailed && time.Now().Before(m.NextRetryAfter) {
		e.store.Set(m.InfoHash, m)

		return &DownloadClientItem{
			DownloadID: m.InfoHash,
			Name:       file.Name,
			TotalSize:  file.Size,
			Status:     StatusWarning,
			Message:    fmt.Sprintf("Retry scheduled (attempt %d)", m.DownloadAttempts),
		}
	}

	if m.LocalDownloadFailed {
		m.DownloadAttempts++
		m.LocalDownloadFailed = false
	}

	e.store.Set(m.InfoHash, m)
	e.fetcher.StartFileCopy(file, m.InfoHash)

	bytesOnDisk, err := e.disk.BytesOnDisk(localPath)
	if err != nil {
		bytesOnDisk = 0
	}

	remaining := file.Size - bytesOnDisk
	if remaining < 0 {
		remaining = 0
	}

	return &DownloadClientItem{
		DownloadID:    m.InfoHash,
		Name:          file.Name,
		TotalSize:     file.Size,
		RemainingSize: remaining,
		Status:        StatusDownloading,
		ETA:           etaFromElapsed(m.LocalDownloadStartTime, bytesOnDisk, file.Size),
	}
}
