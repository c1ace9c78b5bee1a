package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

// Load reads and parses a TOML config file, applies environment overrides,
// validates the result, and returns the resulting Config. A missing file at
// the default path is not an error — DefaultConfig() plus environment and
// CLI overrides may be sufficient on their own.
func Load(path string, env EnvOverrides, logger *slog.Logger) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = env.ConfigPath
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			logger.Debug("loading config file", slog.String("path", path))

			md, decodeErr := toml.Decode(string(data), cfg)
			if decodeErr != nil {
				return nil, fmt.Errorf("config: parsing %s: %w", path, decodeErr)
			}

			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return nil, fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg, env)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides merges environment variables into cfg. Environment
// variables sit between the config file and CLI flags in the override
// chain — callers apply CLI flags after Load returns.
func applyEnvOverrides(cfg *Config, env EnvOverrides) {
	if env.Email != "" {
		cfg.Seedr.Email = env.Email
	}

	if env.Password != "" {
		cfg.Seedr.Password = env.Password
	}
}
