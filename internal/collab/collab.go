// Package collab declares the small interfaces the adapter consumes from
// its surrounding system: hash extraction, grab history, and the local
// disk. Real implementations live in internal/localdisk and
// internal/grabhistory; the reconciliation and fetcher packages depend only
// on these interfaces, never on the concrete types, so they can be swapped
// without touching adapter logic.
package collab

import "context"

// HashExtractor resolves the BitTorrent info-hash of a release the adapter
// is asked to submit, from either a magnet URI or a .torrent file payload.
type HashExtractor interface {
	// HashFromMagnet extracts the uppercase hex info-hash from a magnet
	// URI's xt=urn:btih:... parameter.
	HashFromMagnet(magnetURI string) (string, error)

	// HashFromTorrentFile parses a .torrent payload and returns its
	// uppercase hex info-hash.
	HashFromTorrentFile(torrentBytes []byte) (string, error)
}

// GrabRecord is the historical metadata persisted by the surrounding
// queue/import pipeline for one grabbed release, used to rebuild a mapping
// when the process-local store starts empty.
type GrabRecord struct {
	DownloadID      string
	SeedrName       string
	SeedrTransferID string
	Imported        bool
}

// GrabHistory exposes the durable record of past grabs against this
// adapter instance, used only by RecoverFromHistory.
type GrabHistory interface {
	// ListGrabs returns every historical grab recorded against this
	// adapter instance.
	ListGrabs(ctx context.Context) ([]GrabRecord, error)
}

// DiskInterface is the local filesystem abstraction the adapter writes
// through and inspects for completion.
type DiskInterface interface {
	// EnsureDir creates dir (and parents) if it does not already exist.
	EnsureDir(dir string) error

	// DirectoryExistsAndWritable validates a configured download directory.
	DirectoryExistsAndWritable(dir string) error

	// FolderDownloadComplete reports whether localPath holds a complete
	// copy of a cloud folder of the given declared size: the folder must
	// exist, contain at least one non-.part file, contain no .part files,
	// and hold at least 95% of declaredSize bytes.
	FolderDownloadComplete(localPath string, declaredSize int64) (bool, error)

	// FileDownloadComplete reports whether localPath holds a complete copy
	// of a cloud file of the given declared size: the file must exist, not
	// end in .part, and hold at least 95% of declaredSize bytes.
	FileDownloadComplete(localPath string, declaredSize int64) (bool, error)

	// FileExactlyComplete is FileDownloadComplete with no size tolerance,
	// used by the fetcher's restart-resume pre-check when strict_resume is
	// configured (spec.md §9 Open Question).
	FileExactlyComplete(localPath string, declaredSize int64) (bool, error)

	// BytesOnDisk sums the bytes currently present at localPath. For a file
	// path it prefers a .part file when one exists, else the final file.
	// For a directory it walks the tree and sums every regular file. Used
	// for progress reporting.
	BytesOnDisk(localPath string) (int64, error)

	// RemoveAll deletes localPath and everything beneath it.
	RemoveAll(localPath string) error
}
