package ownership

import "log/slog"

// New builds the appropriate Registry for a configuration: a RedisRegistry
// when shared-account mode is enabled and a connection string is present,
// otherwise a NoopRegistry. It never returns an error — a malformed
// connection string degrades to NoopRegistry with a logged warning, since
// Test() surfaces configuration problems separately via TestConnection.
func New(enabled bool, connectionString, instanceTag string, logger *slog.Logger) Registry {
	if logger == nil {
		logger = slog.Default()
	}

	if !enabled || connectionString == "" || instanceTag == "" {
		return NoopRegistry{}
	}

	registry, err := NewRedisRegistry(connectionString, instanceTag, logger)
	if err != nil {
		logger.Warn("falling back to no-op ownership registry", slog.String("error", err.Error()))
		return NoopRegistry{}
	}

	return registry
}
