package seedrapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// GetFolderContents returns the transfers, folders, and files directly
// under folderID. An empty folderID addresses the account root. List calls
// are idempotent and are not retried by default (spec.md §4.1).
func (c *Client) GetFolderContents(ctx context.Context, folderID string) (*CloudInventorySnapshot, error) {
	path := "/folder"
	if folderID != "" {
		path = "/folder/" + folderID
	}

	resp, err := c.do(ctx, "GET", path, nil, RetriesNone)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("seedrapi: reading folder contents: %w", err)
	}

	if len(body) == 0 {
		return nil, &APIError{Message: "empty body on GetFolderContents", Err: ErrProtocol}
	}

	var raw rawFolderResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decoding folder contents: %s", err), Err: ErrProtocol}
	}

	snapshot := &CloudInventorySnapshot{
		Transfers: make([]TransferInfo, 0, len(raw.Torrents)),
		Folders:   make([]FolderInfo, 0, len(raw.Folders)),
		Files:     make([]FileInfo, 0, len(raw.Files)),
	}

	for _, t := range raw.Torrents {
		snapshot.Transfers = append(snapshot.Transfers, t.toTransferInfo())
	}

	for _, f := range raw.Folders {
		snapshot.Folders = append(snapshot.Folders, f.toFolderInfo())
	}

	for _, f := range raw.Files {
		snapshot.Files = append(snapshot.Files, f.toFileInfo())
	}

	return snapshot, nil
}
