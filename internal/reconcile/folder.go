package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/MaxwellDPS/seedr-adapter/internal/localdisk"
	"github.com/MaxwellDPS/seedr-adapter/internal/mapping"
	"github.com/MaxwellDPS/seedr-adapter/internal/seedrapi"
)

// processFolder turns one assembled cloud folder into an item, advancing
// its mapping through the not-ready / retry-backoff / copying / complete
// states described in spec.md §4.5 step 5.
func (e *Engine) processFolder(ctx context.Context, f seedrapi.FolderInfo, values []mapping.DownloadMapping) *DownloadClientItem {
	m, found := findByFolderID(values, f.ID)
	if !found {
		m, found = findByName(values, f.Name)
	}

	if !found {
		if e.sharedAccount {
			return nil
		}

		rescued, ok := e.rescueFromHistory(ctx, f)
		if !ok {
			e.logger.Warn("no mapping for cloud folder, skipping", slog.String("folder_id", f.ID), slog.String("name", f.Name))
			return nil
		}

		m = rescued
		found = true
	}

	m.FolderID = f.ID

	localName, err := localdisk.SanitizeName(f.Name)
	if err != nil {
		e.logger.Error("sanitizing folder name", slog.String("folder_id", f.ID), slog.String("error", err.Error()))
		return nil
	}

	localPath := filepath.Join(e.downloadDir, localName)

	complete := m.LocalDownloadComplete

	if !complete && !m.LocalDownloadInProgress && !m.LocalDownloadFailed {
		onDisk, err := e.disk.FolderDownloadComplete(localPath, f.Size)
		if err != nil {
			e.logger.Error("checking folder completion", slog.String("path", localPath), slog.String("error", err.Error()))
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
			Name:         f.Name,
			TotalSize:    f.Size,
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
			Name:       f.Name,
			TotalSize:  f.Size,
			Status:     StatusWarning,
			Message:    fmt.Sprintf("Retry scheduled (attempt %d)", m.DownloadAttempts),
		}
	}

	if m.LocalDownloadFailed {
		m.DownloadAttempts++
		m.LocalDownloadFailed = false
	}

	ready, err := e.fetcher.IsFolderReady(ctx, f.ID, f.Size)
	if err != nil {
		e.logger.Error("checking folder readiness", slog.String("folder_id", f.ID), slog.String("error", err.Error()))
		e.store.Set(m.InfoHash, m)

		return &DownloadClientItem{
			DownloadID: m.InfoHash,
			Name:       f.Name,
			TotalSize:  f.Size,
			Status:     StatusDownloading,
			Message:    "Waiting for Seedr to finish processing",
		}
	}

	if !ready {
		m.FolderReadyAttempts++

		if m.FolderReadyAttempts > folderReadyAttemptLimit {
			m.LocalDownloadFailed = true
			m.DownloadAttempts++
			m.NextRetryAfter = time.Now().Add(backoffMinutes(m.DownloadAttempts))
			m.FolderReadyAttempts = 0
		}

		e.store.Set(m.InfoHash, m)

		return &DownloadClientItem{
			DownloadID: m.InfoHash,
			Name:       f.Name,
			TotalSize:  f.Size,
			Status:     StatusDownloading,
			Message:    "Waiting for Seedr to finish processing",
		}
	}

	m.FolderReadyAttempts = 0
	e.store.Set(m.InfoHash, m)

	e.fetcher.StartFolderCopy(f, m.InfoHash)

	bytesOnDisk, err := e.disk.BytesOnDisk(localPath)
	if err != nil {
		bytesOnDisk = 0
	}

	remaining := f.Size - bytesOnDisk
	if remaining < 0 {
		remaining = 0
	}

	return &DownloadClientItem{
		DownloadID:    m.InfoHash,
		Name:          f.Name,
		TotalSize:     f.Size,
		RemainingSize: remaining,
		Status:        StatusDownloading,
		ETA:           etaFromElapsed(m.LocalDownloadStartTime, bytesOnDisk, f.Size),
	}
}

// rescueFromHistory looks for a historical grab whose recorded name
// case-insensitively overlaps f.Name, to recover a mapping a prior process
// restart lost from the in-memory store.
func (e *Engine) rescueFromHistory(ctx context.Context, f seedrapi.FolderInfo) (mapping.DownloadMapping, bool) {
	if e.history == nil {
		return mapping.DownloadMapping{}, false
	}

	records, err := e.history.ListGrabs(ctx)
	if err != nil {
		e.logger.Warn("listing grab history for rescue", slog.String("error", err.Error()))
		return mapping.DownloadMapping{}, false
	}

	for _, r := range records {
		if r.Imported {
			continue
		}

		if _, ok := e.store.Get(strings.ToUpper(r.DownloadID)); ok {
			continue
		}

		if substringMatch(r.SeedrName, f.Name) {
			m := mapping.DownloadMapping{
				InfoHash:         strings.ToUpper(r.DownloadID),
				TransferID:       r.SeedrTransferID,
				Name:             r.SeedrName,
				SkipVerifiedSize: true,
			}
			e.store.Set(m.InfoHash, m)

			return m, true
		}
	}

	return mapping.DownloadMapping{}, false
}

// backoffMinutes computes min(30, 2^attempts) minutes, mirroring the
// fetcher's own backoff schedule for folder-readiness timeouts.
func backoffMinutes(attempts int) time.Duration {
	minutes := 1 << attempts
	if minutes > maxBackoffMinutes {
		minutes = maxBackoffMinutes
	}

	return time.Duration(minutes) * time.Minute
}

// etaFromElapsed estimates remaining time from the wall-clock elapsed since
// a copy started and the bytes landed so far.
func etaFromElapsed(start time.Time, bytesDone, totalSize int64) time.Duration {
	if start.IsZero() || bytesDone <= 0 || totalSize <= 0 {
		return 0
	}

	elapsed := time.Since(start)
	if elapsed <= 0 {
		return 0
	}

	rate := float64(bytesDone) / elapsed.Seconds()
	if rate <= 0 {
		return 0
	}

	remaining := totalSize - bytesDone
	if remaining <= 0 {
		return 0
	}

	return time.Duration(float64(remaining) / rate * float64(time.Second))
}

const maxBackoffMinutes = 30
