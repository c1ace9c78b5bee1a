package seedrapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgress_NumberAndString(t *testing.T) {
	assert.InDelta(t, 50.0, parseProgress(json.RawMessage(`50`)), 0.001)
	assert.InDelta(t, 50.0, parseProgress(json.RawMessage(`"50"`)), 0.001)
	assert.InDelta(t, 0, parseProgress(json.RawMessage(`"garbage"`)), 0.001)
	assert.InDelta(t, 0, parseProgress(nil), 0.001)
}

func TestRawFolderResponse_TorrentsKeyBecomesTransfers(t *testing.T) {
	body := []byte(`{
		"torrents": [{"id": 1, "name": "M", "hash": "ABC", "size": 1000, "progress": 50}],
		"folders": [],
		"files": []
	}`)

	var raw rawFolderResponse
	require.NoError(t, json.Unmarshal(body, &raw))
	require.Len(t, raw.Torrents, 1)

	info := raw.Torrents[0].toTransferInfo()
	assert.Equal(t, "1", info.ID)
	assert.Equal(t, "M", info.Name)
	assert.Equal(t, "ABC", info.Hash)
	assert.Equal(t, int64(1000), info.Size)
	assert.InDelta(t, 50.0, info.Progress, 0.001)
}

func TestRawFolder_AcceptsFolderIdAlternate(t *testing.T) {
	body := []byte(`{"folder_id": 200, "folder_name": "Sub", "size": 500}`)

	var raw rawFolder
	require.NoError(t, json.Unmarshal(body, &raw))

	info := raw.toFolderInfo()
	assert.Equal(t, "200", info.ID)
	assert.Equal(t, "Sub", info.Name)
	assert.Equal(t, int64(500), info.Size)
}

func TestRawFolder_PrefersIdNameWhenBothPresent(t *testing.T) {
	body := []byte(`{"id": 1, "name": "Primary", "folder_id": 2, "folder_name": "Alt", "size": 10}`)

	var raw rawFolder
	require.NoError(t, json.Unmarshal(body, &raw))

	info := raw.toFolderInfo()
	assert.Equal(t, "1", info.ID)
	assert.Equal(t, "Primary", info.Name)
}

func TestResultIsTrue(t *testing.T) {
	assert.True(t, resultIsTrue(json.RawMessage(`true`)))
	assert.False(t, resultIsTrue(json.RawMessage(`false`)))
	assert.False(t, resultIsTrue(json.RawMessage(`"1234"`)))
	assert.False(t, resultIsTrue(nil))
}
