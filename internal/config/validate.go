package config

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// instanceTagPattern matches the allowed instance-tag characters
// (spec.md §6: `[A-Za-z0-9_-]+`).
var instanceTagPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate checks all configuration values and returns every error found,
// joined, so users see a complete report in one pass rather than fixing
// issues one at a time.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateSeedr(&cfg.Seedr)...)
	errs = append(errs, validateShared(&cfg.Shared)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateNetwork(&cfg.Network)...)
	errs = append(errs, validateFetcher(&cfg.Fetcher)...)

	return errors.Join(errs...)
}

func validateSeedr(c *SeedrConfig) []error {
	var errs []error

	if c.Email == "" {
		errs = append(errs, errors.New("seedr.email is required"))
	}

	if c.Password == "" {
		errs = append(errs, errors.New("seedr.password is required"))
	}

	return errs
}

// validateShared only checks the instance tag's shape when one is present.
// An enabled shared_account with no configured instance_tag is valid: after
// loading, the CLI fills in a stable, disk-persisted generated tag when it
// builds the engine (see internal/ownership.EnsureInstanceTag).
func validateShared(c *SharedConfig) []error {
	var errs []error

	if c.InstanceTag != "" && !instanceTagPattern.MatchString(c.InstanceTag) {
		errs = append(errs, fmt.Errorf("shared_account.instance_tag %q must match [A-Za-z0-9_-]+", c.InstanceTag))
	}

	return errs
}

func validateLogging(c *LoggingConfig) []error {
	var errs []error

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.log_level %q must be one of debug|info|warn|error", c.LogLevel))
	}

	switch c.LogFormat {
	case "auto", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.log_format %q must be one of auto|text|json", c.LogFormat))
	}

	return errs
}

func validateNetwork(c *NetworkConfig) []error {
	var errs []error

	if _, err := time.ParseDuration(c.ConnectTimeout); err != nil {
		errs = append(errs, fmt.Errorf("network.connect_timeout %q: %w", c.ConnectTimeout, err))
	}

	if _, err := time.ParseDuration(c.DataTimeout); err != nil {
		errs = append(errs, fmt.Errorf("network.data_timeout %q: %w", c.DataTimeout, err))
	}

	if c.BaseURL == "" {
		errs = append(errs, errors.New("network.base_url must not be empty"))
	}

	return errs
}

func validateFetcher(c *FetcherConfig) []error {
	var errs []error

	if _, err := time.ParseDuration(c.PollInterval); err != nil {
		errs = append(errs, fmt.Errorf("fetcher.poll_interval %q: %w", c.PollInterval, err))
	}

	if c.MaxConcurrentCopies < 1 {
		errs = append(errs, fmt.Errorf("fetcher.max_concurrent_copies must be >= 1, got %d", c.MaxConcurrentCopies))
	}

	return errs
}
