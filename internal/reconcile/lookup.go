package reconcile

import (
	"strings"

	"github.com/MaxwellDPS/seedr-adapter/internal/mapping"
)

// findByTransferID scans the store's snapshot for a mapping with the given
// cloud transfer id.
func findByTransferID(values []mapping.DownloadMapping, transferID string) (mapping.DownloadMapping, bool) {
	for _, m := range values {
		if m.TransferID == transferID {
			return m, true
		}
	}

	return mapping.DownloadMapping{}, false
}

// findByFolderID scans the store's snapshot for a mapping with the given
// cloud folder id.
func findByFolderID(values []mapping.DownloadMapping, folderID string) (mapping.DownloadMapping, bool) {
	for _, m := range values {
		if m.FolderID == folderID {
			return m, true
		}
	}

	return mapping.DownloadMapping{}, false
}

// findByFileID scans the store's snapshot for a mapping with the given
// cloud file id.
func findByFileID(values []mapping.DownloadMapping, fileID string) (mapping.DownloadMapping, bool) {
	for _, m := range values {
		if m.FileID == fileID {
			return m, true
		}
	}

	return mapping.DownloadMapping{}, false
}

// findByName scans the store's snapshot for a mapping whose name
// case-insensitively equals name.
func findByName(values []mapping.DownloadMapping, name string) (mapping.DownloadMapping, bool) {
	for _, m := range values {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}

	return mapping.DownloadMapping{}, false
}

// substringMatch reports whether a and b match case-insensitively in
// either direction, used by the grab-history rescue path.
func substringMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	a, b = strings.ToLower(a), strings.ToLower(b)

	return strings.Contains(a, b) || strings.Contains(b, a)
}
