package gtfs

import (
	"log/slog"
	"strings"
	"time"

	"nextstop.transit.dev/internal/appconf"
	"nextstop.transit.dev/internal/calendar"
	"nextstop.transit.dev/internal/metrics"
)

const defaultRefreshInterval = 24 * time.Hour

type Config struct {
	GtfsURL      string // local zip path or http(s) URL
	GTFSDataPath string // SQLite path, ":memory:" for tests
	Env          appconf.Environment
	Verbose      bool

	// Location is the zone "today" and "now" are read in. Nil means time.Local.
	Location              *time.Location
	ApplyCalendarRemovals bool
	MaxDepartures         int // 0 keeps every departure
	Redis                 calendar.RedisConfig
	RefreshInterval       time.Duration

	Logger  *slog.Logger
	Metrics *metrics.Collector
}

func (config Config) isLocalFile() bool {
	return !strings.HasPrefix(config.GtfsURL, "http://") && !strings.HasPrefix(config.GtfsURL, "https://")
}

func (config Config) refreshInterval() time.Duration {
	if config.RefreshInterval <= 0 {
		return defaultRefreshInterval
	}
	return config.RefreshInterval
}

func (config Config) location() *time.Location {
	if config.Location == nil {
		return time.Local
	}
	return config.Location
}
