package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_AllFieldsPopulated(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	assert.True(t, cfg.Seedr.DeleteFromCloud)
	assert.Equal(t, "info", cfg.Logging.LogLevel)
	assert.Equal(t, "auto", cfg.Logging.LogFormat)
	assert.Equal(t, "10s", cfg.Network.ConnectTimeout)
	assert.Equal(t, "60s", cfg.Network.DataTimeout)
	assert.Equal(t, "https://www.seedr.cc/rest", cfg.Network.BaseURL)
	assert.Equal(t, "30s", cfg.Fetcher.PollInterval)
	assert.Equal(t, 4, cfg.Fetcher.MaxConcurrentCopies)
	assert.False(t, cfg.Fetcher.StrictResume)
	assert.False(t, cfg.Shared.Enabled)
}

func TestValidate_RequiresCredentials(t *testing.T) {
	cfg := DefaultConfig()

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorContains(t, err, "seedr.email")
	assert.ErrorContains(t, err, "seedr.password")
}

func TestValidate_PassesWithCredentials(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seedr.Email = "user@example.com"
	cfg.Seedr.Password = "hunter2"

	assert.NoError(t, Validate(cfg))
}

func TestValidate_SharedAccountRequiresInstanceTag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seedr.Email = "user@example.com"
	cfg.Seedr.Password = "hunter2"
	cfg.Shared.Enabled = true

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorContains(t, err, "instance_tag is required")
}

func TestValidate_RejectsInvalidInstanceTag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seedr.Email = "user@example.com"
	cfg.Seedr.Password = "hunter2"
	cfg.Shared.Enabled = true
	cfg.Shared.InstanceTag = "radarr 4k!"

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorContains(t, err, "must match")
}

func TestValidate_RejectsBadDurations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seedr.Email = "user@example.com"
	cfg.Seedr.Password = "hunter2"
	cfg.Network.ConnectTimeout = "not-a-duration"
	cfg.Fetcher.PollInterval = "also-not-a-duration"

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorContains(t, err, "connect_timeout")
	assert.ErrorContains(t, err, "poll_interval")
}
