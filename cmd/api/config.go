package main

import (
	"flag"
	"fmt"
	"time"

	"nextstop.transit.dev/internal/appconf"
	"nextstop.transit.dev/internal/gtfs"
)

type config struct {
	app      appconf.Config
	gtfs     gtfs.Config
	logLevel string
}

// parseConfig reads flags. Every flag defaults to its environment variable, which a .env file
// may have set.
func parseConfig(args []string) (config, error) {
	var cfg config

	port, err := appconf.GetenvInt("PORT", 4000)
	if err != nil {
		return cfg, err
	}
	rateLimit, err := appconf.GetenvInt("RATE_LIMIT", 100)
	if err != nil {
		return cfg, err
	}
	redisDB, err := appconf.GetenvInt("REDIS_DB", 0)
	if err != nil {
		return cfg, err
	}
	maxDepartures, err := appconf.GetenvInt("MAX_DEPARTURES", 0)
	if err != nil {
		return cfg, err
	}

	var env, apiKeys, exemptKeys, timezone string

	fs := flag.NewFlagSet("nextstop", flag.ContinueOnError)
	fs.IntVar(&cfg.app.Port, "port", port, "API server port")
	fs.StringVar(&env, "env", appconf.GetenvDefault("ENV", "development"), "Environment (development|test|production)")
	fs.StringVar(&apiKeys, "api-keys", appconf.GetenvDefault("API_KEYS", "test"), "Comma Separated API Keys (test, etc)")
	fs.IntVar(&cfg.app.RateLimit, "rate-limit", rateLimit, "Requests per second per API key (negative disables)")
	fs.StringVar(&exemptKeys, "rate-limit-exempt-keys", appconf.GetenvDefault("RATE_LIMIT_EXEMPT_KEYS", ""), "Comma separated API keys that bypass the rate limit")
	fs.StringVar(&cfg.gtfs.GtfsURL, "gtfs-url", appconf.GetenvDefault("GTFS_URL", ""), "Path or URL of a static GTFS zip file")
	fs.StringVar(&cfg.gtfs.GTFSDataPath, "data-path", appconf.GetenvDefault("GTFS_DATA_PATH", "./gtfs.db"), "SQLite database path")
	fs.StringVar(&timezone, "tz", appconf.GetenvDefault("TZ", ""), "IANA zone for service days (default: local)")
	fs.BoolVar(&cfg.gtfs.ApplyCalendarRemovals, "apply-calendar-removals", appconf.GetenvBool("APPLY_CALENDAR_REMOVALS", false), "Subtract removed calendar exceptions from the weekly schedule")
	fs.IntVar(&cfg.gtfs.MaxDepartures, "max-departures", maxDepartures, "Departures shown per stop (0 shows all)")
	fs.DurationVar(&cfg.gtfs.RefreshInterval, "refresh-interval", 24*time.Hour, "Interval between feed refreshes for URL feeds")
	fs.StringVar(&cfg.gtfs.Redis.Addr, "redis-addr", appconf.GetenvDefault("REDIS_ADDR", ""), "Redis address for the active service cache (empty uses memory)")
	fs.StringVar(&cfg.gtfs.Redis.Password, "redis-password", appconf.GetenvDefault("REDIS_PASSWORD", ""), "Redis password")
	fs.IntVar(&cfg.gtfs.Redis.DB, "redis-db", redisDB, "Redis database number")
	fs.BoolVar(&cfg.gtfs.Verbose, "verbose", appconf.GetenvBool("VERBOSE", false), "Log import statistics")
	fs.StringVar(&cfg.logLevel, "log-level", appconf.GetenvDefault("LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.app.Env = appconf.EnvFlagToEnvironment(env)
	cfg.app.ApiKeys = appconf.SplitAPIKeys(apiKeys)
	cfg.app.RateLimitExemptKeys = appconf.SplitAPIKeys(exemptKeys)
	cfg.gtfs.Env = cfg.app.Env

	loc, err := appconf.LoadLocation(timezone)
	if err != nil {
		return cfg, err
	}
	cfg.gtfs.Location = loc

	if cfg.app.Port <= 0 || cfg.app.Port > 65535 {
		return cfg, fmt.Errorf("invalid port %d", cfg.app.Port)
	}
	if cfg.gtfs.GtfsURL == "" {
		return cfg, fmt.Errorf("a GTFS feed is required (-gtfs-url or GTFS_URL)")
	}
	if len(cfg.app.ApiKeys) == 0 {
		return cfg, fmt.Errorf("at least one API key is required")
	}

	return cfg, nil
}
