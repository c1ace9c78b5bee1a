package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/MaxwellDPS/seedr-adapter/internal/config"
	"github.com/MaxwellDPS/seedr-adapter/internal/fetcher"
	"github.com/MaxwellDPS/seedr-adapter/internal/grabhistory"
	"github.com/MaxwellDPS/seedr-adapter/internal/hashutil"
	"github.com/MaxwellDPS/seedr-adapter/internal/localdisk"
	"github.com/MaxwellDPS/seedr-adapter/internal/mapping"
	"github.com/MaxwellDPS/seedr-adapter/internal/ownership"
	"github.com/MaxwellDPS/seedr-adapter/internal/reconcile"
	"github.com/MaxwellDPS/seedr-adapter/internal/seedrapi"
)

// version is set at build time via ldflags.
var version = "dev"

// skipConfigAnnotation marks commands that handle config loading themselves.
const skipConfigAnnotation = "skipConfig"

// Global persistent flags, bound in newRootCmd().
var flags CLIFlags

// CLIFlags holds the persistent flag values every subcommand's
// PersistentPreRunE resolves before RunE executes.
type CLIFlags struct {
	ConfigPath string
	JSON       bool
	Verbose    bool
	Debug      bool
	Quiet      bool
}

// CLIContext bundles the resolved configuration and logger, threaded
// through cobra's command context so RunE handlers never touch globals.
type CLIContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Flags  CLIFlags
}

type cliContextKey struct{}

func cliContextFrom(ctx context.Context) *CLIContext {
	cc, _ := ctx.Value(cliContextKey{}).(*CLIContext)
	return cc
}

func mustCLIContext(ctx context.Context) *CLIContext {
	cc := cliContextFrom(ctx)
	if cc == nil {
		panic("BUG: CLIContext not found in context — command must not carry skipConfigAnnotation")
	}

	return cc
}

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "seedr-adapter",
		Short:   "Seedr.cc cloud download-client adapter",
		Long:    "Bridges a movie-collection manager to the Seedr.cc cloud-torrent service: submit releases, watch cloud ingest and local copy, and report progress as a uniform download-client queue.",
		Version: version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return nil
			}

			return loadConfig(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().BoolVar(&flags.JSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "show detailed output")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "enable debug logging (HTTP requests, config resolution)")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress informational output")

	cmd.MarkFlagsMutuallyExclusive("verbose", "debug", "quiet")

	cmd.AddCommand(newTestCmd())
	cmd.AddCommand(newSubmitCmd())
	cmd.AddCommand(newPollCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newReloadCmd())

	return cmd
}

// loadConfig resolves the effective configuration from the
// defaults -> file -> environment chain and stores it in the command's
// context for use by subcommands. CLI flags (--verbose/--debug/--quiet)
// are applied when building the logger, after the config file's own level.
func loadConfig(cmd *cobra.Command) error {
	logger := buildLogger(nil, flags)

	env := config.ReadEnvOverrides()

	cfg, err := config.Load(flags.ConfigPath, env, logger)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	finalLogger := buildLogger(cfg, flags)
	cc := &CLIContext{Cfg: cfg, Logger: finalLogger, Flags: flags}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cc))

	return nil
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. Pass nil for pre-config bootstrap (no config-file log level).
// Config-file log level is the baseline; --verbose, --debug, and --quiet
// override it because CLI flags always win (Cobra enforces they are
// mutually exclusive).
func buildLogger(cfg *config.Config, flags CLIFlags) *slog.Logger {
	level := slog.LevelInfo
	format := "auto"

	if cfg != nil {
		switch cfg.Logging.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}

		format = cfg.Logging.LogFormat
	}

	switch {
	case flags.Verbose:
		level = slog.LevelInfo
	case flags.Debug:
		level = slog.LevelDebug
	case flags.Quiet:
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// exitOnError prints a user-friendly error message to stderr.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// buildEngine wires together the Cloud API Proxy, Ownership Registry,
// Mapping Store, Async Fetcher, and their collaborators into a
// reconcile.Engine per the resolved config. The returned grabhistory.Store
// must be closed by the caller once the engine is no longer needed.
func buildEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*reconcile.Engine, *grabhistory.Store, error) {
	dataTimeout, err := time.ParseDuration(cfg.Network.DataTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing network.data_timeout: %w", err)
	}

	httpClient := &http.Client{Timeout: dataTimeout}
	client := seedrapi.NewClient(cfg.Network.BaseURL, cfg.Seedr.Email, cfg.Seedr.Password, httpClient, logger)

	instanceTag := cfg.Shared.InstanceTag
	if cfg.Shared.Enabled && instanceTag == "" {
		instanceTag, err = ownership.EnsureInstanceTag(config.DefaultStateDir())
		if err != nil {
			return nil, nil, fmt.Errorf("resolving shared_account.instance_tag: %w", err)
		}
	}

	registry := ownership.New(cfg.Shared.Enabled, cfg.Shared.RedisConnectionString, instanceTag, logger)
	store := mapping.NewMemoryStore()
	disk := localdisk.New()

	historyPath := filepath.Join(config.DefaultStateDir(), "grabhistory.db")

	history, err := grabhistory.Open(ctx, historyPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening grab history: %w", err)
	}

	f := fetcher.New(client, store, disk, cfg.Seedr.DownloadDirectory, cfg.Fetcher.MaxConcurrentCopies, cfg.Fetcher.StrictResume, logger)

	engine := reconcile.New(reconcile.Config{
		Client:          client,
		Registry:        registry,
		Store:           store,
		Fetcher:         f,
		History:         history,
		Disk:            disk,
		Hasher:          hashutil.Extractor{},
		DownloadDir:     cfg.Seedr.DownloadDirectory,
		SharedAccount:   cfg.Shared.Enabled,
		DeleteFromCloud: cfg.Seedr.DeleteFromCloud,
		Logger:          logger,
	})

	return engine, history, nil
}
