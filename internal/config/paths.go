package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName is the application directory name used across all platforms.
const appName = "seedr-adapter"

// configFileName is the default config file name within the config dir.
const configFileName = "config.toml"

// DefaultConfigDir returns the platform-specific directory for config
// files. On Linux, respects XDG_CONFIG_HOME (defaults to
// ~/.config/seedr-adapter); other platforms fall back to the same XDG
// convention since the adapter targets server/NAS deployments.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	return filepath.Join(home, ".config", appName)
}

// DefaultConfigPath returns the full path to the default config file. Used
// as the fallback when neither SEEDR_ADAPTER_CONFIG nor --config is given.
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}

	return filepath.Join(dir, configFileName)
}

// DefaultStateDir returns the directory used for the in-repo grab-history
// fake's SQLite database and the daemon PID file.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	base := ".local/state"
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", appName)
	}

	return filepath.Join(home, base, appName)
}
