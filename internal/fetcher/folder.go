package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/MaxwellDPS/seedr-adapter/internal/localdisk"
	"github.com/MaxwellDPS/seedr-adapter/internal/mapping"
	"github.com/MaxwellDPS/seedr-adapter/internal/seedrapi"
)

// StartFolderCopy begins (or no-ops against) the background copy of a cloud
// folder to disk. It returns immediately; the copy itself runs detached.
func (f *Fetcher) StartFolderCopy(folder seedrapi.FolderInfo, infoHash string) {
	m, ok := f.store.Get(infoHash)
	if !ok || m.LocalDownloadInProgress {
		return
	}

	now := time.Now()
	f.mutate(infoHash, func(m *mapping.DownloadMapping) {
		m.LocalDownloadInProgress = true
		m.LocalDownloadStartTime = now
		m.LocalTotalBytes = folder.Size
	})

	go f.runFolderCopy(folder, infoHash)
}

func (f *Fetcher) runFolderCopy(folder seedrapi.FolderInfo, infoHash string) {
	ctx, cancel := context.WithTimeout(context.Background(), streamTimeout)
	defer cancel()

	localName, err := localdisk.SanitizeName(folder.Name)
	if err != nil {
		f.finishCopy(infoHash, fmt.Errorf("sanitizing folder name %q: %w", folder.Name, err))
		return
	}

	localPath := filepath.Join(f.downloadDir, localName)

	if err := f.disk.EnsureDir(localPath); err != nil {
		f.finishCopy(infoHash, err)
		return
	}

	var (
		filesSeen  int64
		anyFailure atomic.Bool
	)

	if err := f.copyFolderTree(ctx, folder.ID, localPath, infoHash, &filesSeen, &anyFailure); err != nil {
		f.finishCopy(infoHash, err)
		return
	}

	if filesSeen == 0 && !anyFailure.Load() {
		f.finishCopy(infoHash, fmt.Errorf("folder %s: cloud subtree is empty, not yet assembled", folder.ID))
		return
	}

	if anyFailure.Load() {
		f.finishCopy(infoHash, fmt.Errorf("folder %s: one or more files failed to copy", folder.ID))
		return
	}

	f.finishCopy(infoHash, nil)
}

// copyFolderTree walks folderID's cloud contents, copying files into
// localPath and recursing into sub-folders, fanning out within the
// Fetcher's configured concurrency limit.
func (f *Fetcher) copyFolderTree(ctx context.Context, folderID, localPath, infoHash string, filesSeen *int64, anyFailure *atomic.Bool) error {
	snapshot, err := f.client.GetFolderContents(ctx, folderID)
	if err != nil {
		return fmt.Errorf("listing folder %s: %w", folderID, err)
	}

	g, gctx := f.newErrgroup(ctx)

	for _, file := range snapshot.Files {
		file := file

		g.Go(func() error {
			ok := f.copyOneFile(gctx, file, localPath, infoHash)
			atomic.AddInt64(filesSeen, 1)

			if !ok {
				anyFailure.Store(true)
			}

			return nil
		})
	}

	for _, sub := range snapshot.Folders {
		sub := sub

		g.Go(func() error {
			subLocalName, err := localdisk.SanitizeName(sub.Name)
			if err != nil {
				f.logger.Error("sanitizing sub-folder name", slog.String("folder_id", sub.ID), slog.String("error", err.Error()))
				anyFailure.Store(true)
				return nil
			}

			if err := f.disk.EnsureDir(filepath.Join(localPath, subLocalName)); err != nil {
				f.logger.Error("creating sub-folder", slog.String("folder_id", sub.ID), slog.String("error", err.Error()))
				anyFailure.Store(true)
				return nil
			}

			if err := f.copyFolderTree(gctx, sub.ID, filepath.Join(localPath, subLocalName), infoHash, filesSeen, anyFailure); err != nil {
				f.logger.Error("copying sub-folder", slog.String("folder_id", sub.ID), slog.String("error", err.Error()))
				anyFailure.Store(true)
			}

			return nil
		})
	}

	return g.Wait()
}

// copyOneFile copies a single cloud file into destDir, skipping it when a
// sufficiently-complete local copy already exists (resumable restart). It
// reports success; all errors are logged here and folded into the caller's
// failure tally rather than propagated.
func (f *Fetcher) copyOneFile(ctx context.Context, file seedrapi.FileInfo, destDir, infoHash string) bool {
	localName, err := localdisk.SanitizeName(file.Name)
	if err != nil {
		f.logger.Error("sanitizing file name", slog.String("file_id", file.ID), slog.String("error", err.Error()))
		return false
	}

	destPath := filepath.Join(destDir, localName)

	complete, err := f.resumeComplete(destPath, file.Size, infoHash)
	if err != nil {
		f.logger.Error("checking existing file", slog.String("path", destPath), slog.String("error", err.Error()))
		return false
	}

	if complete {
		return true
	}

	if err := f.client.DownloadFileToPath(ctx, file.ID, destPath); err != nil {
		f.logger.Error("downloading file", slog.String("file_id", file.ID), slog.String("path", destPath), slog.String("error", err.Error()))
		return false
	}

	return true
}

// finishCopy records the terminal state of a folder or file copy attempt on
// the mapping: complete on success, failed-with-backoff on error.
func (f *Fetcher) finishCopy(infoHash string, copyErr error) {
	if copyErr != nil {
		f.logger.Error("copy failed", slog.String("info_hash", infoHash), slog.String("error", copyErr.Error()))
	}

	f.mutate(infoHash, func(m *mapping.DownloadMapping) {
		m.LocalDownloadInProgress = false

		if copyErr != nil {
			m.LocalDownloadFailed = true
			m.LastError = copyErr.Error()
			m.DownloadAttempts++
			m.NextRetryAfter = backoffAfter(m.DownloadAttempts)

			return
		}

		m.LocalDownloadComplete = true
		m.LocalDownloadFailed = false
		m.LastError = ""
		m.ClearRetryState()
	})
}
