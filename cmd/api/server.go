package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"nextstop.transit.dev/internal/app"
	"nextstop.transit.dev/internal/appconf"
	"nextstop.transit.dev/internal/gtfs"
	"nextstop.transit.dev/internal/metrics"
	"nextstop.transit.dev/internal/restapi"
	"nextstop.transit.dev/internal/webui"
)

const shutdownTimeout = 10 * time.Second

// buildApplication loads the feed and wires the dependencies the handlers share.
func buildApplication(cfg config, logger *slog.Logger) (*app.Application, error) {
	collector := metrics.NewCollector()

	gtfsConfig := cfg.gtfs
	gtfsConfig.Logger = logger
	gtfsConfig.Metrics = collector

	manager, err := gtfs.InitGTFSManager(gtfsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GTFS manager: %w", err)
	}

	return &app.Application{
		Config:      cfg.app,
		GtfsConfig:  gtfsConfig,
		Logger:      logger,
		GtfsManager: manager,
		Metrics:     collector,
	}, nil
}

// newServer builds the HTTP server. The debug UI is not mounted in production.
func newServer(application *app.Application, api *restapi.RestAPI) *http.Server {
	var mounts []func(*httprouter.Router)
	if application.Config.Env != appconf.Production {
		webUI := &webui.WebUI{Application: application}
		mounts = append(mounts, webUI.SetWebUIRoutes)
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", application.Config.Port),
		Handler:      api.NewHandler(mounts...),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(application.Logger.Handler(), slog.LevelError),
	}
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	application, err := buildApplication(cfg, logger)
	if err != nil {
		return err
	}
	defer application.GtfsManager.Shutdown()

	api := restapi.NewRestAPI(application)
	defer api.Shutdown()

	srv := newServer(application, api)

	logger.Info("starting server", "addr", srv.Addr, "env", cfg.app.Env.String())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
