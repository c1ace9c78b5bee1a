package config

// Default values for configuration options — the "layer 0" of the
// defaults -> file -> environment -> CLI override chain.
const (
	defaultLogLevel            = "info"
	defaultLogFormat           = "auto"
	defaultConnectTimeout      = "10s"
	defaultDataTimeout         = "60s"
	defaultBaseURL             = "https://www.seedr.cc/rest"
	defaultPollInterval        = "30s"
	defaultMaxConcurrentCopies = 4
)

// DefaultConfig returns a Config populated with all default values. It is
// both the starting point for TOML decoding (so unset fields retain
// defaults) and the fallback when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Seedr: SeedrConfig{
			DeleteFromCloud: true,
		},
		Logging: LoggingConfig{
			LogLevel:  defaultLogLevel,
			LogFormat: defaultLogFormat,
		},
		Network: NetworkConfig{
			ConnectTimeout: defaultConnectTimeout,
			DataTimeout:    defaultDataTimeout,
			BaseURL:        defaultBaseURL,
		},
		Fetcher: FetcherConfig{
			PollInterval:        defaultPollInterval,
			MaxConcurrentCopies: defaultMaxConcurrentCopies,
			StrictResume:        false,
		},
	}
}
