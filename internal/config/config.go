// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for the Seedr adapter.
package config

// Config is the top-level configuration structure, decoded from TOML with
// defaults already applied (see DefaultConfig).
type Config struct {
	Seedr     SeedrConfig     `toml:"seedr"`
	Shared    SharedConfig    `toml:"shared_account"`
	Logging   LoggingConfig   `toml:"logging"`
	Network   NetworkConfig   `toml:"network"`
	Fetcher   FetcherConfig   `toml:"fetcher"`
}

// SeedrConfig holds the credentials and local target directory (spec.md §6).
type SeedrConfig struct {
	Email             string `toml:"email"`
	Password          string `toml:"password"`
	DownloadDirectory string `toml:"download_directory"`
	DeleteFromCloud   bool   `toml:"delete_from_cloud"`
}

// SharedConfig controls multi-instance ownership coordination over Redis
// (spec.md §6, §4.2).
type SharedConfig struct {
	Enabled                bool   `toml:"enabled"`
	InstanceTag            string `toml:"instance_tag"`
	RedisConnectionString  string `toml:"redis_connection_string"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// NetworkConfig controls HTTP client behavior toward the Seedr REST API.
type NetworkConfig struct {
	ConnectTimeout string `toml:"connect_timeout"`
	DataTimeout    string `toml:"data_timeout"`
	BaseURL        string `toml:"base_url"`
}

// FetcherConfig controls the async cloud-to-local copy behavior.
type FetcherConfig struct {
	PollInterval        string `toml:"poll_interval"`
	MaxConcurrentCopies int    `toml:"max_concurrent_copies"`
	StrictResume        bool   `toml:"strict_resume"`
}
