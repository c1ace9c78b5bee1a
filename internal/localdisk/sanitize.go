package localdisk

import (
	"errors"
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyBaseName is returned when a cloud-supplied name reduces to an
// empty base name component. Seedr occasionally returns purely separator
// or whitespace names for auto-generated folders; joining an empty name
// with the download root would otherwise silently write into the root
// itself.
var ErrEmptyBaseName = errors.New("localdisk: sanitized name is empty")

// SanitizeName reduces a cloud-supplied display name to a filesystem-safe
// base name: it strips any path components the name might carry, applies
// Unicode NFC normalization (Seedr names occasionally arrive in
// decomposed form, which renders inconsistently across filesystems), and
// rejects whatever remains if it is empty.
func SanitizeName(name string) (string, error) {
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "", ErrEmptyBaseName
	}

	normalized := norm.NFC.String(base)
	if normalized == "" {
		return "", ErrEmptyBaseName
	}

	return normalized, nil
}
