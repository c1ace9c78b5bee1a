// Package mapping provides the process-local keyed store of DownloadMapping
// records that ties info-hashes to cloud identifiers and local copy
// progress. It is not persisted across restarts — durability is delegated
// to recovery from grab history.
package mapping

import "time"

// DownloadMapping is the central per-release record. Exactly one exists per
// grabbed release, keyed by uppercase BitTorrent info-hash (or a synthetic
// "seedr-<id>" when no hash is known at creation time).
type DownloadMapping struct {
	InfoHash string

	// TransferID, FolderID, FileID are cloud identifiers discovered in
	// order as the transfer progresses. A transfer becomes a folder
	// (multi-file torrent) or a file (single-file); all three may be
	// populated during the lifecycle.
	TransferID string
	FolderID   string
	FileID     string

	Name string

	// Tri-state of the cloud-to-local copy. At most one of InProgress and
	// Failed is true at any moment; once Complete, it stays Complete.
	LocalDownloadComplete   bool
	LocalDownloadInProgress bool
	LocalDownloadFailed     bool

	// DownloadAttempts/NextRetryAfter drive exponential-backoff retry of
	// the cloud-to-local copy.
	DownloadAttempts int
	NextRetryAfter   time.Time

	// FolderReadyAttempts counts polls spent waiting for Seedr to finish
	// assembling a folder's contents; terminal after 20.
	FolderReadyAttempts int

	// Sliding window for ETA estimation of cloud ingest progress.
	LastProgress           float64
	LastProgressTime       time.Time
	LocalDownloadStartTime time.Time
	LocalTotalBytes        int64

	// SkipVerifiedSize, when true, makes the fetcher treat a file already on
	// disk at >= 95% of its declared cloud size as complete on restart even
	// when fetcher.strict_resume is set. It is set on mappings rebuilt from
	// grab history; otherwise it stays false and fetcher.strict_resume
	// decides.
	SkipVerifiedSize bool

	// LastError records the most recent fetcher failure message for
	// observability; cleared on successful completion.
	LastError string
}

// HasNextRetryAfter reports whether NextRetryAfter has been set.
func (m *DownloadMapping) HasNextRetryAfter() bool {
	return !m.NextRetryAfter.IsZero()
}

// ClearRetryState resets backoff bookkeeping after a successful copy.
func (m *DownloadMapping) ClearRetryState() {
	m.DownloadAttempts = 0
	m.NextRetryAfter = time.Time{}
}
