// Package fetcher moves cloud state into the local download directory in
// the background: one detached task per mapping, tracking byte progress
// and reporting failure with exponential backoff.
package fetcher

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MaxwellDPS/seedr-adapter/internal/collab"
	"github.com/MaxwellDPS/seedr-adapter/internal/mapping"
	"github.com/MaxwellDPS/seedr-adapter/internal/seedrapi"
)

// streamTimeout bounds a single file's cloud-to-local copy (spec.md §5).
const streamTimeout = 30 * time.Minute

// readyThreshold is the fraction of declared size a folder's immediate
// children must sum to before it is considered assembled on the cloud.
const readyThreshold = 0.95

// maxBackoffMinutes caps the exponential backoff schedule applied after a
// failed copy.
const maxBackoffMinutes = 30

// Fetcher runs cloud-to-local copies for mappings on detached goroutines.
// A Fetcher never propagates an error to its caller — all failures are
// recorded on the mapping and logged.
type Fetcher struct {
	client        *seedrapi.Client
	store         mapping.Store
	disk          collab.DiskInterface
	downloadDir   string
	maxConcurrent int
	strictResume  bool
	logger        *slog.Logger
}

// New builds a Fetcher. maxConcurrent bounds the number of files and
// sub-folders processed in parallel at each folder level of a recursive
// walk; each nested folder gets its own limit. strictResume disables
// the 95%-tolerant restart-resume skip (spec.md §9 Open Question): when
// true, a prior partial file is only skipped if it holds the full declared
// size.
func New(client *seedrapi.Client, store mapping.Store, disk collab.DiskInterface, downloadDir string, maxConcurrent int, strictResume bool, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &Fetcher{
		client:        client,
		store:         store,
		disk:          disk,
		downloadDir:   downloadDir,
		maxConcurrent: maxConcurrent,
		strictResume:  strictResume,
		logger:        logger,
	}
}

// resumeComplete reports whether an existing local file should be treated
// as already downloaded, per the configured resume strictness. A mapping
// recovered or rescued from grab history (mapping.SkipVerifiedSize) always
// uses the tolerant 95% check, even under fetcher.strict_resume, since a
// recovered mapping has no exact-size record to verify against.
func (f *Fetcher) resumeComplete(localPath string, declaredSize int64, infoHash string) (bool, error) {
	if f.strictResume {
		if m, ok := f.store.Get(infoHash); ok && m.SkipVerifiedSize {
			return f.disk.FileDownloadComplete(localPath, declaredSize)
		}

		return f.disk.FileExactlyComplete(localPath, declaredSize)
	}

	return f.disk.FileDownloadComplete(localPath, declaredSize)
}

// IsFolderReady reports whether folderID's contents are fully assembled on
// the cloud: at least one child, and the sum of immediate children's sizes
// at least readyThreshold of declaredSize. A declaredSize of 0 waives the
// size check (spec.md §8 boundary behaviour).
func (f *Fetcher) IsFolderReady(ctx context.Context, folderID string, declaredSize int64) (bool, error) {
	snapshot, err := f.client.GetFolderContents(ctx, folderID)
	if err != nil {
		return false, err
	}

	childCount := len(snapshot.Folders) + len(snapshot.Files)
	if childCount == 0 {
		return false, nil
	}

	if declaredSize == 0 {
		return true, nil
	}

	var total int64
	for _, sub := range snapshot.Folders {
		total += sub.Size
	}

	for _, file := range snapshot.Files {
		total += file.Size
	}

	return float64(total) >= readyThreshold*float64(declaredSize), nil
}

// mutate loads infoHash's mapping, applies fn, and writes it back. It is the
// single place fetcher goroutines touch the mapping store, keeping every
// update a whole-record replace.
func (f *Fetcher) mutate(infoHash string, fn func(m *mapping.DownloadMapping)) {
	m, ok := f.store.Get(infoHash)
	if !ok {
		return
	}

	fn(&m)
	f.store.Set(infoHash, m)
}

// backoffAfter computes nextRetryAfter = now + min(30, 2^attempts) minutes
// (spec.md §4.4 step 5).
func backoffAfter(attempts int) time.Time {
	minutes := 1 << attempts
	if minutes > maxBackoffMinutes {
		minutes = maxBackoffMinutes
	}

	return time.Now().Add(time.Duration(minutes) * time.Minute)
}

// newErrgroup returns an errgroup capped at the fetcher's configured
// concurrency, used for both sub-folder recursion and per-file copies
// within one folder.
func (f *Fetcher) newErrgroup(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxConcurrent)

	return g, gctx
}
