package seedrapi

import (
	"encoding/json"
	"strconv"
	"strings"
)

// rawFolderResponse mirrors the `/folder` and `/folder/{id}` JSON shape.
// Seedr exposes transfers under the key "torrents" rather than "transfers",
// and sub-folder entries sometimes arrive under folder_id/folder_name
// instead of id/name — both are captured here and normalized by the
// unexported to* helpers.
type rawFolderResponse struct {
	Torrents []rawTransfer `json:"torrents"`
	Folders  []rawFolder   `json:"folders"`
	Files    []rawFile     `json:"files"`
}

type rawTransfer struct {
	ID       json.Number     `json:"id"`
	Name     string          `json:"name"`
	Hash     string          `json:"hash"`
	Size     json.Number     `json:"size"`
	Progress json.RawMessage `json:"progress"`
}

type rawFolder struct {
	ID       json.Number `json:"id"`
	FolderID json.Number `json:"folder_id"`
	Name     string      `json:"name"`
	FolderNm string      `json:"folder_name"`
	Size     json.Number `json:"size"`
}

type rawFile struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
	Size json.Number `json:"size"`
}

// rawAddResponse mirrors the transfer-creation response shape, which uses
// user_torrent_id/title/torrent_hash instead of the listing shape's
// id/name/hash.
type rawAddResponse struct {
	Result        json.RawMessage `json:"result"`
	UserTorrentID json.Number     `json:"user_torrent_id"`
	Title         string          `json:"title"`
	TorrentHash   string          `json:"torrent_hash"`
}

func (r *rawTransfer) toTransferInfo() TransferInfo {
	return TransferInfo{
		ID:       r.ID.String(),
		Name:     r.Name,
		Hash:     r.Hash,
		Size:     numberToInt64(r.Size),
		Progress: parseProgress(r.Progress),
	}
}

func (r *rawFolder) toFolderInfo() FolderInfo {
	id := r.ID.String()
	if id == "" {
		id = r.FolderID.String()
	}

	name := r.Name
	if name == "" {
		name = r.FolderNm
	}

	return FolderInfo{ID: id, Name: name, Size: numberToInt64(r.Size)}
}

func (r *rawFile) toFileInfo() FileInfo {
	return FileInfo{ID: r.ID.String(), Name: r.Name, Size: numberToInt64(r.Size)}
}

func numberToInt64(n json.Number) int64 {
	if n == "" {
		return 0
	}

	v, err := n.Int64()
	if err != nil {
		if f, ferr := n.Float64(); ferr == nil {
			return int64(f)
		}

		return 0
	}

	return v
}

// parseProgress handles the documented quirk where "progress" arrives as
// either a JSON number or a numeric string; anything else defaults to 0.
func parseProgress(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}

	return 0
}

// resultIsTrue reports whether a JSON "result" field is the literal boolean
// true, as opposed to an id/object (used by some endpoints) or false.
func resultIsTrue(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}

	return false
}
