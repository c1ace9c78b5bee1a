package main

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MaxwellDPS/seedr-adapter/internal/config"
)

// --- buildLogger tests ---

func TestBuildLogger_Default(t *testing.T) {
	flags := CLIFlags{}

	// nil config = bootstrap mode (pre-config).
	logger := buildLogger(nil, flags)

	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestBuildLogger_Verbose(t *testing.T) {
	flags := CLIFlags{Verbose: true}

	logger := buildLogger(nil, flags)

	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestBuildLogger_Debug(t *testing.T) {
	flags := CLIFlags{Debug: true}

	logger := buildLogger(nil, flags)

	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestBuildLogger_Quiet(t *testing.T) {
	flags := CLIFlags{Quiet: true}

	logger := buildLogger(nil, flags)

	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelError))
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelWarn))
}

func TestBuildLogger_ConfigDebug(t *testing.T) {
	cfg := &config.Config{Logging: config.LoggingConfig{LogLevel: "debug"}}
	flags := CLIFlags{}

	logger := buildLogger(cfg, flags)

	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestBuildLogger_ConfigWarn(t *testing.T) {
	cfg := &config.Config{Logging: config.LoggingConfig{LogLevel: "warn"}}
	flags := CLIFlags{}

	logger := buildLogger(cfg, flags)

	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelWarn))
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelInfo))
}

func TestBuildLogger_FlagsOverrideConfig(t *testing.T) {
	// Config says error, but --verbose should still win.
	cfg := &config.Config{Logging: config.LoggingConfig{LogLevel: "error"}}
	flags := CLIFlags{Verbose: true}

	logger := buildLogger(cfg, flags)

	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestBuildLogger_JSONFormat(t *testing.T) {
	cfg := &config.Config{Logging: config.LoggingConfig{LogFormat: "json"}}

	logger := buildLogger(cfg, CLIFlags{})

	_, isJSON := logger.Handler().(*slog.JSONHandler)
	assert.True(t, isJSON)
}

// --- cliContextFrom / mustCLIContext tests ---

func TestCliContextFrom_NilContext(t *testing.T) {
	ctx := context.Background()
	cc := cliContextFrom(ctx)
	assert.Nil(t, cc)
}

func TestCliContextFrom_WithCLIContext(t *testing.T) {
	expected := &CLIContext{
		Cfg:    &config.Config{Seedr: config.SeedrConfig{DownloadDirectory: "/test"}},
		Logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
	ctx := context.WithValue(context.Background(), cliContextKey{}, expected)
	cc := cliContextFrom(ctx)
	assert.Equal(t, expected, cc)
	assert.Equal(t, "/test", cc.Cfg.Seedr.DownloadDirectory)
}

func TestMustCLIContext_Panics(t *testing.T) {
	assert.PanicsWithValue(t,
		"BUG: CLIContext not found in context — command must not carry skipConfigAnnotation",
		func() { mustCLIContext(context.Background()) },
	)
}

func TestMustCLIContext_Returns(t *testing.T) {
	expected := &CLIContext{Logger: slog.New(slog.NewTextHandler(os.Stderr, nil))}
	ctx := context.WithValue(context.Background(), cliContextKey{}, expected)
	cc := mustCLIContext(ctx)
	assert.Equal(t, expected, cc)
}

// --- Cobra structure tests ---

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	expected := []string{"test", "submit", "poll", "status", "remove", "import", "watch", "reload"}
	for _, name := range expected {
		found := false

		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true

				break
			}
		}

		assert.True(t, found, "expected subcommand %q not found", name)
	}
}

func TestNewRootCmd_PersistentFlags(t *testing.T) {
	cmd := newRootCmd()

	expectedFlags := []string{"config", "json", "verbose", "debug", "quiet"}
	for _, name := range expectedFlags {
		flag := cmd.PersistentFlags().Lookup(name)
		assert.NotNil(t, flag, "expected persistent flag %q not found", name)
	}
}

func TestNewRootCmd_MutualExclusivity(t *testing.T) {
	pairs := [][]string{
		{"--verbose", "--debug"},
		{"--verbose", "--quiet"},
		{"--debug", "--quiet"},
	}

	for _, flags := range pairs {
		t.Run(flags[0]+"_"+flags[1], func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetArgs(append(flags, "reload"))

			err := cmd.Execute()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "none of the others can be")
		})
	}
}
