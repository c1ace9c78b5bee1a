// Package localdisk implements the collab.DiskInterface the reconciliation
// engine and fetcher consume, backed by the real filesystem.
package localdisk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// completionThreshold is the fraction of declared cloud size that local
// bytes must reach for a file or folder to be considered complete, letting
// the reconciler tolerate the small discrepancy between Seedr's reported
// size and what actually lands on disk.
const completionThreshold = 0.95

// partSuffix matches the staging suffix seedrapi.DownloadFileToPath uses
// while a file is in flight.
const partSuffix = ".part"

// Disk is the real-filesystem implementation of collab.DiskInterface.
type Disk struct{}

// New returns a Disk backed by the local operating system filesystem.
func New() *Disk {
	return &Disk{}
}

func (*Disk) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("localdisk: creating %s: %w", dir, err)
	}

	return nil
}

func (*Disk) DirectoryExistsAndWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("localdisk: %s: %w", dir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("localdisk: %s is not a directory", dir)
	}

	probe := filepath.Join(dir, ".seedr-adapter-write-check")

	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("localdisk: %s is not writable: %w", dir, err)
	}
	f.Close()
	os.Remove(probe)

	return nil
}

func (d *Disk) FolderDownloadComplete(localPath string, declaredSize int64) (bool, error) {
	entries, err := os.ReadDir(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("localdisk: reading %s: %w", localPath, err)
	}

	var (
		hasRegularFile bool
		hasPartFile    bool
		total          int64
	)

	err = filepath.Walk(localPath, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if info.IsDir() {
			return nil
		}

		if strings.HasSuffix(path, partSuffix) {
			hasPartFile = true
			return nil
		}

		hasRegularFile = true
		total += info.Size()

		return nil
	})
	if err != nil {
		return false, fmt.Errorf("localdisk: walking %s: %w", localPath, err)
	}

	if len(entries) == 0 || !hasRegularFile || hasPartFile {
		return false, nil
	}

	if declaredSize == 0 {
		return true, nil
	}

	return float64(total) >= completionThreshold*float64(declaredSize), nil
}

func (d *Disk) FileDownloadComplete(localPath string, declaredSize int64) (bool, error) {
	if strings.HasSuffix(localPath, partSuffix) {
		return false, nil
	}

	info, err := os.Stat(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("localdisk: stat %s: %w", localPath, err)
	}

	if declaredSize == 0 {
		return true, nil
	}

	return float64(info.Size()) >= completionThreshold*float64(declaredSize), nil
}

// FileExactlyComplete reports whether localPath holds the full declared
// size of a cloud file, with no tolerance for a short prior attempt. Used
// by the fetcher's restart-resume check when strict_resume is configured
// (spec.md §9 Open Question), in place of the 95% tolerance
// FileDownloadComplete applies.
func (d *Disk) FileExactlyComplete(localPath string, declaredSize int64) (bool, error) {
	if strings.HasSuffix(localPath, partSuffix) {
		return false, nil
	}

	info, err := os.Stat(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("localdisk: stat %s: %w", localPath, err)
	}

	if declaredSize == 0 {
		return true, nil
	}

	return info.Size() >= declaredSize, nil
}

func (d *Disk) BytesOnDisk(localPath string) (int64, error) {
	if info, err := os.Stat(localPath); err == nil && info.IsDir() {
		return bytesUnderDir(localPath)
	}

	partPath := localPath + partSuffix

	if info, err := os.Stat(partPath); err == nil {
		return info.Size(), nil
	} else if !os.IsNotExist(err) {
		return 0, fmt.Errorf("localdisk: stat %s: %w", partPath, err)
	}

	info, err := os.Stat(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}

		return 0, fmt.Errorf("localdisk: stat %s: %w", localPath, err)
	}

	return info.Size(), nil
}

// bytesUnderDir sums the size of every regular file (including in-flight
// .part files) beneath dir, used for folder-level progress reporting.
func bytesUnderDir(dir string) (int64, error) {
	var total int64

	err := filepath.Walk(dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if !info.IsDir() {
			total += info.Size()
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("localdisk: walking %s: %w", dir, err)
	}

	return total, nil
}

func (d *Disk) RemoveAll(localPath string) error {
	if err := os.RemoveAll(localPath); err != nil {
		return fmt.Errorf("localdisk: removing %s: %w", localPath, err)
	}

	return nil
}
