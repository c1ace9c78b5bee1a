package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MaxwellDPS/seedr-adapter/internal/mapping"
)

// RecoverFromHistory rebuilds mappings from the surrounding system's grab
// history for any historical grab not already present in the mapping store
// and not yet imported. It is intended to run at most once per process (see
// ensureRecovered), reconstructing state a prior process restart lost.
func (e *Engine) RecoverFromHistory(ctx context.Context) error {
	if e.history == nil {
		return nil
	}

	records, err := e.history.ListGrabs(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: listing grab history: %w", err)
	}

	for _, r := range records {
		if r.Imported {
			continue
		}

		infoHash := strings.ToUpper(r.DownloadID)

		if _, ok := e.store.Get(infoHash); ok {
			continue
		}

		m := mapping.DownloadMapping{
			InfoHash:         infoHash,
			TransferID:       r.SeedrTransferID,
			Name:             r.SeedrName,
			SkipVerifiedSize: true,
		}
		e.store.Set(infoHash, m)

		if e.sharedAccount {
			if err := e.registry.ClaimOwnership(ctx, infoHash); err != nil {
				e.logger.Warn("claiming ownership during recovery", slog.String("info_hash", infoHash), slog.String("error", err.Error()))
			}
		}
	}

	return nil
}

// GrabMetadata returns the historical-grab metadata the surrounding history
// pipeline needs to recognize a mapping it recorded, or nil if downloadID
// is unknown.
func (e *Engine) GrabMetadata(downloadID string) map[string]string {
	m, ok := e.store.Get(downloadID)
	if !ok {
		return nil
	}

	return map[string]string{
		"SeedrName":       m.Name,
		"SeedrTransferId": m.TransferID,
	}
}
