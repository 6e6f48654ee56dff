package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextstop.transit.dev/internal/app"
	"nextstop.transit.dev/internal/appconf"
	"nextstop.transit.dev/internal/gtfs"
	"nextstop.transit.dev/internal/logging"
	"nextstop.transit.dev/internal/restapi"
	"nextstop.transit.dev/internal/testutil"
)

func testConfig(t *testing.T, env appconf.Environment) config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.zip")
	require.NoError(t, os.WriteFile(path, testutil.SampleFeed(t), 0o600))

	return config{
		app: appconf.Config{Port: 0, Env: env, ApiKeys: []string{"TEST"}, RateLimit: -1},
		gtfs: gtfs.Config{
			GtfsURL:      path,
			GTFSDataPath: ":memory:",
			Env:          appconf.Test,
		},
	}
}

func TestNewServer(t *testing.T) {
	tests := []struct {
		name        string
		env         appconf.Environment
		debugStatus int
	}{
		{name: "debug pages outside production", env: appconf.Development, debugStatus: http.StatusOK},
		{name: "no debug pages in production", env: appconf.Production, debugStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logging.NewStructuredLogger(&bytes.Buffer{}, slog.LevelInfo)
			application, err := buildApplication(testConfig(t, tt.env), logger)
			require.NoError(t, err)
			t.Cleanup(application.GtfsManager.Shutdown)

			srv := newServer(application, restapiFor(t, application))

			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/?dataType=stops", nil))
			assert.Equal(t, tt.debugStatus, rec.Code)

			rec = httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/where/stops-for-location.json?key=TEST&lat=49&lon=-123", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"id":"S1"`)
		})
	}
}

func TestBuildApplicationFailsWithoutFeed(t *testing.T) {
	cfg := testConfig(t, appconf.Development)
	cfg.gtfs.GtfsURL = filepath.Join(t.TempDir(), "missing.zip")

	_, err := buildApplication(cfg, logging.NewStructuredLogger(&bytes.Buffer{}, slog.LevelInfo))
	assert.ErrorContains(t, err, "failed to initialize GTFS manager")
}

func TestRunStopsWhenContextIsCancelled(t *testing.T) {
	var logs bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, testConfig(t, appconf.Development), logging.NewStructuredLogger(&logs, slog.LevelInfo))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "shutting down server")
}

func restapiFor(t *testing.T, application *app.Application) *restapi.RestAPI {
	t.Helper()
	api := restapi.NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api
}
