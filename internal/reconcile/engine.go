package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/MaxwellDPS/seedr-adapter/internal/collab"
	"github.com/MaxwellDPS/seedr-adapter/internal/fetcher"
	"github.com/MaxwellDPS/seedr-adapter/internal/mapping"
	"github.com/MaxwellDPS/seedr-adapter/internal/ownership"
	"github.com/MaxwellDPS/seedr-adapter/internal/seedrapi"
)

// folderReadyAttemptLimit is the number of consecutive GetItems polls a
// folder may sit un-assembled on the cloud before the reconciler gives up
// and marks it failed with backoff (spec.md §4.5 step 5).
const folderReadyAttemptLimit = 20

// Engine is the adapter's public surface. A zero-value Engine is not
// usable; construct one with New.
type Engine struct {
	client   *seedrapi.Client
	registry ownership.Registry
	store    mapping.Store
	fetcher  *fetcher.Fetcher
	history  collab.GrabHistory
	disk     collab.DiskInterface
	hasher   collab.HashExtractor

	downloadDir     string
	sharedAccount   bool
	deleteFromCloud bool

	logger *slog.Logger

	// mu serializes GetItems per spec.md §5: the caller guarantees serial
	// invocation, but the mutex is kept as a correctness belt-and-braces.
	mu sync.Mutex

	recoverGroup singleflight.Group
	recovered    bool
}

// Config bundles Engine's construction-time dependencies and settings.
type Config struct {
	Client          *seedrapi.Client
	Registry        ownership.Registry
	Store           mapping.Store
	Fetcher         *fetcher.Fetcher
	History         collab.GrabHistory
	Disk            collab.DiskInterface
	Hasher          collab.HashExtractor
	DownloadDir     string
	SharedAccount   bool
	DeleteFromCloud bool
	Logger          *slog.Logger
}

// New builds an Engine from cfg.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		client:          cfg.Client,
		registry:        cfg.Registry,
		store:           cfg.Store,
		fetcher:         cfg.Fetcher,
		history:         cfg.History,
		disk:            cfg.Disk,
		hasher:          cfg.Hasher,
		downloadDir:     cfg.DownloadDir,
		sharedAccount:   cfg.SharedAccount,
		deleteFromCloud: cfg.DeleteFromCloud,
		logger:          logger,
	}
}

// Submit adds a release to the cloud and records a mapping for it,
// returning the info-hash to use as the download id.
func (e *Engine) Submit(ctx context.Context, release Release) (string, error) {
	infoHash := strings.ToUpper(release.InfoHash)

	if infoHash == "" {
		derived, err := e.deriveHash(release)
		if err != nil {
			return "", fmt.Errorf("reconcile: deriving info hash: %w", err)
		}

		infoHash = strings.ToUpper(derived)
	}

	var (
		result *seedrapi.AddResult
		err    error
	)

	switch {
	case release.MagnetURI != "":
		result, err = e.client.AddMagnet(ctx, release.MagnetURI)
	case len(release.TorrentPayload) > 0:
		result, err = e.client.AddTorrentFile(ctx, release.TorrentName, release.TorrentPayload)
	default:
		return "", fmt.Errorf("reconcile: release has neither a magnet URI nor a torrent payload")
	}

	if err != nil {
		return "", fmt.Errorf("reconcile: submitting release: %w", err)
	}

	e.store.Set(infoHash, mapping.DownloadMapping{
		InfoHash:   infoHash,
		TransferID: result.ID,
		Name:       result.Name,
	})

	if err := e.registry.ClaimOwnership(ctx, infoHash); err != nil {
		e.logger.Warn("claiming ownership after submit", slog.String("info_hash", infoHash), slog.String("error", err.Error()))
	}

	return infoHash, nil
}

// Snapshot returns a copy of every mapping currently held by the engine,
// for diagnostic commands (e.g. the CLI's status command) that want to
// inspect adapter state without driving a reconciliation pass.
func (e *Engine) Snapshot() []mapping.DownloadMapping {
	return e.store.Values()
}

func (e *Engine) deriveHash(release Release) (string, error) {
	if e.hasher == nil {
		return "", fmt.Errorf("reconcile: no info hash provided and no hash extractor configured")
	}

	if release.MagnetURI != "" {
		return e.hasher.HashFromMagnet(release.MagnetURI)
	}

	return e.hasher.HashFromTorrentFile(release.TorrentPayload)
}
