package fetcher

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

// StartFileCopy begins (or no-ops against) the background copy of a single
// cloud file to disk. It returns immediately; the copy itself runs
// detached.
func (f *Fetcher) StartFileCopy(file seedrapi.FileInfo, infoHash string) {
	m, ok := f.store.Get(infoHash)
	if !ok || m.LocalDownloadInProgress {
		return
	}

	now := time.Now()
	f.mutate(infoHash, func(m *mapping.DownloadMapping) {
		m.LocalDownloadInProgress = true
		m.LocalDownloadStartTime = now
		m.LocalTotalBytes = file.Size
	})

	go f.runFileCopy(file, infoHash)
}

func (f *Fetcher) runFileCopy(file seedrapi.FileInfo, infoHash string) {
	ctx, cancel := context.WithTimeout(context.Background(), streamTimeout)
	defer cancel()

	localName, err := localdisk.SanitizeName(file.Name)
	if err != nil {
		f.finishCopy(infoHash, fmt.Errorf("sanitizing file name %q: %w", file.Name, err))
		return
	}

	destPath := filepath.Join(f.downloadDir, localName)

	complete, err := f.resumeComplete(destPath, file.Size, infoHash)
	if err != nil {
		f.finishCopy(infoHash, err)
		return
	}

	if complete {
		f.finishCopy(infoHash, nil)
		return
	}

	if err := f.downloadWithContext(ctx, file, destPath); err != nil {
		f.logger.Error("single file copy failed", slog.String("file_id", file.ID), slog.String("error", err.Error()))
		f.finishCopy(infoHash, err)
		return
	}

	f.finishCopy(infoHash, nil)
}

func (f *Fetcher) downloadWithContext(ctx context.Context, file seedrapi.FileInfo, destPath string) error {
	if err := f.client.DownloadFileToPath(ctx, file.ID, destPath); err != nil {
		return fmt.Errorf("downloading file %s: %w", file.ID, err)
	}

	return nil
}
