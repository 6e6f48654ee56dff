package app

import (
	"log/slog"
	"time"

	"nextstop.transit.dev/internal/appconf"
	"nextstop.transit.dev/internal/gtfs"
	"nextstop.transit.dev/internal/metrics"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config      appconf.Config
	GtfsConfig  gtfs.Config
	Logger      *slog.Logger
	GtfsManager *gtfs.Manager
	Metrics     *metrics.Collector
	Clock       func() time.Time
}

// Now is the application clock. Tests pin it through Clock.
func (app *Application) Now() time.Time {
	if app.Clock != nil {
		return app.Clock()
	}
	return time.Now()
}
