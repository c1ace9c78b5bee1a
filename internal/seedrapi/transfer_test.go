package seedrapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMagnet_NormalizesCreationShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transfer/magnet", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "magnet=")

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"result": true, "user_torrent_id": 55, "title": "Movie", "torrent_hash": "CBC2F951"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	res, err := c.AddMagnet(context.Background(), "magnet:?xt=urn:btih:CBC2F951")
	require.NoError(t, err)
	assert.Equal(t, "55", res.ID)
	assert.Equal(t, "Movie", res.Name)
	assert.Equal(t, "CBC2F951", res.Hash)
}

func TestAddMagnet_ResultFalseIsProtocolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"result": false}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.AddMagnet(context.Background(), "magnet:?xt=urn:btih:X")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestAddMagnet_NotRetriedOn5xx(t *testing.T) {
	var calls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.AddMagnet(context.Background(), "magnet:?xt=urn:btih:X")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestAddTorrentFile_SendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transfer/file", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		content, _ := io.ReadAll(file)
		assert.Equal(t, "torrent-bytes", string(content))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"result": true, "user_torrent_id": 9, "title": "T", "torrent_hash": ""}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	res, err := c.AddTorrentFile(context.Background(), "release.torrent", []byte("torrent-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "9", res.ID)
	assert.Empty(t, res.Hash)
}

func TestDeleteFolder_DeletesCorrectPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/folder/100", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.DeleteFolder(context.Background(), "100"))
}

func TestGetUser_ParsesAccountFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"account": {"email": "u@example.com", "space_used": 900, "space_max": 1000}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	user, err := c.GetUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u@example.com", user.Email)
	assert.Equal(t, int64(900), user.SpaceUsed)
	assert.Equal(t, int64(1000), user.SpaceMax)
}
