package seedrapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
)

// AddMagnet registers a magnet link as a new transfer. This is a
// non-idempotent mutating call and is never retried, regardless of the
// caller's configured attempt count elsewhere in the client.
func (c *Client) AddMagnet(ctx context.Context, magnet string) (*AddResult, error) {
	body := formBody(url.Values{"magnet": {magnet}})

	resp, err := c.do(ctx, "POST", "/transfer/magnet", body, RetriesNone)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodeAddResponse(resp.Body)
}

// AddTorrentFile uploads a .torrent file as a new transfer. Like AddMagnet,
// this is never retried.
func (c *Client) AddTorrentFile(ctx context.Context, filename string, torrentBytes []byte) (*AddResult, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("seedrapi: building multipart request: %w", err)
	}

	if _, err := part.Write(torrentBytes); err != nil {
		return nil, fmt.Errorf("seedrapi: writing torrent bytes: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("seedrapi: closing multipart writer: %w", err)
	}

	body := &requestBody{contentType: writer.FormDataContentType(), bytes: buf.Bytes()}

	resp, err := c.do(ctx, "POST", "/transfer/file", body, RetriesNone)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodeAddResponse(resp.Body)
}

func decodeAddResponse(r io.Reader) (*AddResult, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("seedrapi: reading transfer response: %w", err)
	}

	if len(body) == 0 {
		return nil, &APIError{Message: "empty body on transfer creation", Err: ErrProtocol}
	}

	var raw rawAddResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decoding transfer response: %s", err), Err: ErrProtocol}
	}

	if !resultIsTrue(raw.Result) {
		return nil, &APIError{Message: "result != true", Err: ErrProtocol}
	}

	return &AddResult{
		ID:   raw.UserTorrentID.String(),
		Name: raw.Title,
		Hash: raw.TorrentHash,
	}, nil
}

// DeleteTransfer removes an in-progress transfer. List/delete calls are
// idempotent and are not retried by default.
func (c *Client) DeleteTransfer(ctx context.Context, id string) error {
	resp, err := c.do(ctx, "DELETE", "/torrent/"+id, nil, RetriesNone)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return drainAndDiscard(resp.Body)
}

// DeleteFolder removes an assembled cloud folder.
func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	resp, err := c.do(ctx, "DELETE", "/folder/"+id, nil, RetriesNone)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return drainAndDiscard(resp.Body)
}

// DeleteFile removes an assembled cloud file.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	resp, err := c.do(ctx, "DELETE", "/file/"+id, nil, RetriesNone)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return drainAndDiscard(resp.Body)
}

func drainAndDiscard(r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	return err
}

// rawUserResponse mirrors the `/user` JSON shape.
type rawUserResponse struct {
	Account struct {
		Email     string      `json:"email"`
		SpaceUsed json.Number `json:"space_used"`
		SpaceMax  json.Number `json:"space_max"`
	} `json:"account"`
}

// GetUser returns account summary information, used by the Test operation.
func (c *Client) GetUser(ctx context.Context) (*UserInfo, error) {
	resp, err := c.do(ctx, "GET", "/user", nil, RetriesNone)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("seedrapi: reading user response: %w", err)
	}

	if len(body) == 0 {
		return nil, &APIError{Message: "empty body on GetUser", Err: ErrProtocol}
	}

	var raw rawUserResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decoding user response: %s", err), Err: ErrProtocol}
	}

	return &UserInfo{
		Email:     raw.Account.Email,
		SpaceUsed: numberToInt64(raw.Account.SpaceUsed),
		SpaceMax:  numberToInt64(raw.Account.SpaceMax),
	}, nil
}
