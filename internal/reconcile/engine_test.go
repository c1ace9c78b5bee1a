package reconcile

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxwellDPS/seedr-adapter/internal/collab"
	"github.com/MaxwellDPS/seedr-adapter/internal/fetcher"
	"github.com/MaxwellDPS/seedr-adapter/internal/hashutil"
	"github.com/MaxwellDPS/seedr-adapter/internal/localdisk"
	"github.com/MaxwellDPS/seedr-adapter/internal/mapping"
	"github.com/MaxwellDPS/seedr-adapter/internal/ownership"
	"github.com/MaxwellDPS/seedr-adapter/internal/seedrapi"
)

type testEngine struct {
	*Engine
	store       mapping.Store
	registry    *fakeRegistry
	history     *fakeHistory
	downloadDir string
}

func newTestEngine(t *testing.T, handler http.HandlerFunc, sharedAccount bool) *testEngine {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := seedrapi.NewClient(srv.URL, "user@example.com", "hunter2", http.DefaultClient, slog.Default())
	store := mapping.NewMemoryStore()
	registry := &fakeRegistry{isOwnedByMe: ownership.True, releaseOwnership: ownership.True}
	history := &fakeHistory{}
	downloadDir := t.TempDir()
	disk := localdisk.New()
	f := fetcher.New(client, store, disk, downloadDir, 4, false, slog.Default())

	engine := New(Config{
		Client:          client,
		Registry:         registry,
		Store:           store,
		Fetcher:         f,
		History:         history,
		Disk:            disk,
		Hasher:          hashutil.Extractor{},
		DownloadDir:     downloadDir,
		SharedAccount:   sharedAccount,
		DeleteFromCloud: true,
		Logger:          slog.Default(),
	})

	return &testEngine{Engine: engine, store: store, registry: registry, history: history, downloadDir: downloadDir}
}

func TestSubmit_MagnetWithPreExtractedHash(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transfer/magnet", r.URL.Path)
		w.Write([]byte(`{"result": true, "user_torrent_id": 55, "title": "Movie"}`))
	}, false)

	hash, err := e.Submit(context.Background(), Release{MagnetURI: "magnet:?xt=urn:btih:abcdef0123456789abcdef0123456789abcdef01", InfoHash: "abcdef0123456789abcdef0123456789abcdef01"})
	require.NoError(t, err)
	assert.Equal(t, "ABCDEF0123456789ABCDEF0123456789ABCDEF01", hash)

	m, ok := e.store.Get(hash)
	require.True(t, ok)
	assert.Equal(t, "55", m.TransferID)
	assert.Equal(t, "Movie", m.Name)
}

func TestSubmit_DerivesHashFromMagnetWhenMissing(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": true, "user_torrent_id": 55, "title": "Movie"}`))
	}, false)

	hash, err := e.Submit(context.Background(), Release{MagnetURI: "magnet:?xt=urn:btih:abcdef0123456789abcdef0123456789abcdef01"})
	require.NoError(t, err)
	assert.Equal(t, "ABCDEF0123456789ABCDEF0123456789ABCDEF01", hash)
}

func TestGetItems_ActiveTransferVisibility(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"torrents": [{"id": "1", "name": "Movie", "hash": "ABCDEF0123456789ABCDEF0123456789ABCDEF01", "size": 1000, "progress": 50}],
			"folders": [],
			"files": []
		}`))
	}, false)

	items := e.GetItems(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, StatusDownloading, items[0].Status)
	assert.Equal(t, "ABCDEF0123456789ABCDEF0123456789ABCDEF01", items[0].DownloadID)
	assert.Equal(t, int64(500), items[0].RemainingSize)
}

func TestGetItems_TransferWithoutHashUsesSyntheticID(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"torrents": [{"id": "9", "name": "Unknown", "hash": "", "size": 1000, "progress": 10}],
			"folders": [],
			"files": []
		}`))
	}, false)

	items := e.GetItems(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, "seedr-9", items[0].DownloadID)
}

func TestGetItems_CompletedFolderHappyPath(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"torrents": [], "folders": [{"id": "100", "name": "Movie", "size": 10}], "files": []}`))
	}, false)

	e.store.Set("HASH1", mapping.DownloadMapping{InfoHash: "HASH1", Name: "Movie"})

	require.NoError(t, os.MkdirAll(filepath.Join(e.downloadDir, "Movie"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.downloadDir, "Movie", "movie.mkv"), make([]byte, 10), 0o600))

	items := e.GetItems(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, StatusCompleted, items[0].Status)
	assert.True(t, items[0].CanMoveFiles)
	assert.True(t, items[0].CanBeRemoved)

	m, ok := e.store.Get("HASH1")
	require.True(t, ok)
	assert.True(t, m.LocalDownloadComplete)
}

func TestGetItems_SharedAccountForeignItemSkipped(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"torrents": [{"id": "1", "name": "Movie", "hash": "ABCDEF0123456789ABCDEF0123456789ABCDEF01", "size": 1000, "progress": 50}],
			"folders": [],
			"files": []
		}`))
	}, true)

	e.registry.isOwnedByMe = ownership.False

	items := e.GetItems(context.Background())
	assert.Empty(t, items)
}

func TestRemoveItem_RegistryUnavailableDuringRelease(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("cloud should not be called when ownership is unknown, got %s", r.URL.Path)
	}, true)

	e.registry.releaseOwnership = ownership.Unknown
	e.store.Set("HASH1", mapping.DownloadMapping{InfoHash: "HASH1", Name: "Movie", FolderID: "100"})

	require.NoError(t, e.RemoveItem(context.Background(), "HASH1", false))

	_, ok := e.store.Get("HASH1")
	assert.False(t, ok)
}

func TestRemoveItem_DeletesCloudFolderWhenOwnershipReleased(t *testing.T) {
	var deletedPath string

	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		deletedPath = r.URL.Path
		w.Write([]byte(`{"result": true}`))
	}, true)

	e.registry.releaseOwnership = ownership.True
	e.store.Set("HASH1", mapping.DownloadMapping{InfoHash: "HASH1", Name: "Movie", FolderID: "100"})

	require.NoError(t, e.RemoveItem(context.Background(), "HASH1", false))
	assert.Equal(t, "/folder/100", deletedPath)
}

func TestGetItems_PartialFolderRetryScheduled(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"torrents": [], "folders": [{"id": "100", "name": "Movie", "size": 10}], "files": []}`))
	}, false)

	e.store.Set("HASH1", mapping.DownloadMapping{
		InfoHash:            "HASH1",
		Name:                "Movie",
		LocalDownloadFailed: true,
		DownloadAttempts:    1,
		NextRetryAfter:      time.Now().Add(time.Hour),
	})

	items := e.GetItems(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, StatusWarning, items[0].Status)
	assert.Contains(t, items[0].Message, "Retry scheduled")
}

func TestTest_ReportsAuthFailure(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, false)

	failures := e.Test(context.Background())
	require.NotEmpty(t, failures)
	assert.Equal(t, "Email", failures[0].Field)
}

func TestRecoverFromHistory_SkipsImportedAndExisting(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {}, false)

	e.store.Set("ALREADYHERE", mapping.DownloadMapping{InfoHash: "ALREADYHERE"})
	e.history.records = []collab.GrabRecord{
		{DownloadID: "alreadyhere", SeedrName: "Existing", Imported: false},
		{DownloadID: "imported1", SeedrName: "Imported", Imported: true},
		{DownloadID: "fresh1", SeedrName: "Fresh Movie", SeedrTransferID: "77", Imported: false},
	}

	require.NoError(t, e.RecoverFromHistory(context.Background()))

	_, ok := e.store.Get("IMPORTED1")
	assert.False(t, ok)

	fresh, ok := e.store.Get("FRESH1")
	require.True(t, ok)
	assert.Equal(t, "Fresh Movie", fresh.Name)
	assert.Equal(t, "77", fresh.TransferID)
}

func TestGrabMetadata_ReturnsNilForUnknown(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {}, false)

	assert.Nil(t, e.GrabMetadata("UNKNOWN"))
}
