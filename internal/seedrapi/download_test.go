package seedrapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadFileToPath_AtomicRenameOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/file/7", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("movie contents"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	dest := filepath.Join(t.TempDir(), "movie.mkv")

	require.NoError(t, c.DownloadFileToPath(context.Background(), "7", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "movie contents", string(data))

	_, statErr := os.Stat(dest + partSuffix)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadFileToPath_RemovesPartialOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	dest := filepath.Join(t.TempDir(), "movie.mkv")

	err := c.DownloadFileToPath(context.Background(), "7", dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	_, statErr := os.Stat(dest + partSuffix)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadFileToPath_OverwritesExistingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("new contents"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	dest := filepath.Join(t.TempDir(), "movie.mkv")
	require.NoError(t, os.WriteFile(dest, []byte("stale contents"), 0o600))

	require.NoError(t, c.DownloadFileToPath(context.Background(), "7", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new contents", string(data))
}
