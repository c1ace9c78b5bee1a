// Package hashutil is a minimal stand-in for the surrounding system's
// torrent hash-extraction logic, which spec.md §1 places out of scope. It
// exists so internal/reconcile's Submit has something concrete to call when
// a release arrives without a pre-extracted info-hash, and so the package
// is exercised in tests; a real deployment is expected to extract the hash
// upstream and populate Release.InfoHash directly.
package hashutil

import (
	"crypto/sha1"
	"encoding/base32"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/MaxwellDPS/seedr-adapter/internal/collab"
)

// ErrNoHashFound is returned when a magnet URI carries no recognizable
// xt=urn:btih parameter.
var ErrNoHashFound = errors.New("hashutil: no btih hash found in magnet URI")

var btihPattern = regexp.MustCompile(`(?i)xt=urn:btih:([A-Za-z0-9]+)`)

// Extractor implements collab.HashExtractor.
type Extractor struct{}

var _ collab.HashExtractor = Extractor{}

// HashFromMagnet pulls the info-hash out of a magnet URI's xt=urn:btih
// parameter, upper-casing hex hashes and decoding base32 hashes to hex.
func (Extractor) HashFromMagnet(magnetURI string) (string, error) {
	match := btihPattern.FindStringSubmatch(magnetURI)
	if match == nil {
		return "", ErrNoHashFound
	}

	raw := match[1]

	switch len(raw) {
	case 40:
		return strings.ToUpper(raw), nil
	case 32:
		decoded, err := base32.StdEncoding.DecodeString(strings.ToUpper(raw))
		if err != nil {
			return "", fmt.Errorf("hashutil: decoding base32 hash: %w", err)
		}

		return strings.ToUpper(hex.EncodeToString(decoded)), nil
	default:
		return strings.ToUpper(raw), nil
	}
}

// HashFromTorrentFile computes the SHA-1 info-hash of a bencoded .torrent
// payload by locating the raw bytes of its top-level "info" dictionary
// value and hashing them directly, without building an intermediate
// parsed representation.
func (Extractor) HashFromTorrentFile(torrentBytes []byte) (string, error) {
	start, end, err := infoDictRange(torrentBytes)
	if err != nil {
		return "", err
	}

	sum := sha1.Sum(torrentBytes[start:end])

	return strings.ToUpper(hex.EncodeToString(sum[:])), nil
}

// infoDictRange returns the byte offsets of the value bound to the
// top-level "info" key in a bencoded dictionary.
func infoDictRange(data []byte) (start, end int, err error) {
	if len(data) == 0 || data[0] != 'd' {
		return 0, 0, errors.New("hashutil: not a bencoded dictionary")
	}

	pos := 1

	for pos < len(data) && data[pos] != 'e' {
		keyStart := pos

		keyEnd, err := skipBencodeValue(data, keyStart)
		if err != nil {
			return 0, 0, err
		}

		key := data[keyStart:keyEnd]

		valueStart := keyEnd

		valueEnd, err := skipBencodeValue(data, valueStart)
		if err != nil {
			return 0, 0, err
		}

		if isInfoKey(key) {
			return valueStart, valueEnd, nil
		}

		pos = valueEnd
	}

	return 0, 0, errors.New("hashutil: no info dictionary found")
}

// isInfoKey reports whether a raw bencoded string token is exactly "info".
func isInfoKey(token []byte) bool {
	return string(token) == "4:info"
}

// skipBencodeValue returns the offset just past the bencode value (string,
// integer, list, or dictionary) starting at pos.
func skipBencodeValue(data []byte, pos int) (int, error) {
	if pos >= len(data) {
		return 0, errors.New("hashutil: truncated bencode value")
	}

	switch {
	case data[pos] >= '0' && data[pos] <= '9':
		colon := pos
		for colon < len(data) && data[colon] != ':' {
			colon++
		}

		if colon >= len(data) {
			return 0, errors.New("hashutil: malformed bencode string length")
		}

		var length int
		if _, err := fmt.Sscanf(string(data[pos:colon]), "%d", &length); err != nil {
			return 0, fmt.Errorf("hashutil: parsing string length: %w", err)
		}

		end := colon + 1 + length
		if end > len(data) {
			return 0, errors.New("hashutil: bencode string overruns buffer")
		}

		return end, nil

	case data[pos] == 'i':
		end := pos + 1
		for end < len(data) && data[end] != 'e' {
			end++
		}

		if end >= len(data) {
			return 0, errors.New("hashutil: unterminated bencode integer")
		}

		return end + 1, nil

	case data[pos] == 'l', data[pos] == 'd':
		cursor := pos + 1

		for cursor < len(data) && data[cursor] != 'e' {
			next, err := skipBencodeValue(data, cursor)
			if err != nil {
				return 0, err
			}

			cursor = next
		}

		if cursor >= len(data) {
			return 0, errors.New("hashutil: unterminated bencode list or dictionary")
		}

		return cursor + 1, nil

	default:
		return 0, fmt.Errorf("hashutil: unexpected bencode token %q", data[pos])
	}
}
