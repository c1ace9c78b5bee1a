// Package reconcile implements the adapter's public surface: Submit,
// GetItems, RemoveItem, MarkItemAsImported, Test, RecoverFromHistory, and
// GrabMetadata. It fuses the cloud inventory (internal/seedrapi), local
// disk state (internal/collab.DiskInterface), and the optional ownership
// registry (internal/ownership) into the DownloadMapping records held in
// internal/mapping, starting internal/fetcher copies as it goes.
package reconcile

import "time"

// ItemStatus is the closed, 3-value external status enum spec.md §6
// defines: Downloading, Completed, Warning. StatusWarning covers a stuck
// retry (local copy failed and is backing off, or a folder has sat
// un-assembled on the cloud past the readiness ceiling) so a polling
// caller can tell it apart from a healthy in-progress item.
type ItemStatus int

const (
	StatusDownloading ItemStatus = iota
	StatusCompleted
	StatusWarning
)

func (s ItemStatus) String() string {
	switch s {
	case StatusDownloading:
		return "downloading"
	case StatusCompleted:
		return "completed"
	case StatusWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// DownloadClientItem is the per-release projection GetItems returns, shaped
// for a download-client poller to render as queue state.
type DownloadClientItem struct {
	DownloadID    string
	Name          string
	TotalSize     int64
	RemainingSize int64
	Status        ItemStatus
	Message       string
	OutputPath    string
	CanMoveFiles  bool
	CanBeRemoved  bool
	ETA           time.Duration
}

// Release is a submission request: exactly one of MagnetURI or
// TorrentPayload is set. InfoHash may already be populated by the caller;
// if empty, Submit derives it via the configured collab.HashExtractor.
type Release struct {
	MagnetURI      string
	TorrentPayload []byte
	TorrentName    string
	InfoHash       string
}

// ValidationFailure is one problem Test found, attributed to a named field
// so a caller can render it next to the offending configuration value.
type ValidationFailure struct {
	Field     string
	Message   string
	IsWarning bool
}
