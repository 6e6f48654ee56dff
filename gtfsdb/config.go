package gtfsdb

import (
	"log/slog"

	"nextstop.transit.dev/internal/appconf"
)

// Config holds configuration options for the Client
type Config struct {
	DBPath  string              // Path to SQLite database file, or ":memory:"
	Env     appconf.Environment // Test environments must use ":memory:"
	Logger  *slog.Logger        // Defaults to slog.Default()
	verbose bool                // Verbose logging
}

func NewConfig(dbPath string, env appconf.Environment, verbose bool) Config {
	config := Config{
		DBPath:  dbPath,
		Env:     env,
		verbose: verbose,
	}

	return config
}

// WithLogger returns a copy of config that logs to logger.
func (config Config) WithLogger(logger *slog.Logger) Config {
	config.Logger = logger
	return config
}

func (config Config) inMemory() bool {
	return config.DBPath == ":memory:"
}
