package restapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"nextstop.transit.dev/gtfsdb"
	"nextstop.transit.dev/internal/app"
	"nextstop.transit.dev/internal/appconf"
	"nextstop.transit.dev/internal/gtfs"
	"nextstop.transit.dev/internal/logging"
	"nextstop.transit.dev/internal/metrics"
	"nextstop.transit.dev/internal/models"
	"nextstop.transit.dev/internal/testutil"
)

func vancouver(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Vancouver")
	require.NoError(t, err)
	return loc
}

// createTestApi creates a RestAPI over the sample feed with the clock pinned to
// Tuesday 2026-10-13 09:00 in Vancouver.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	loc := vancouver(t)

	client, err := gtfsdb.NewClient(gtfsdb.NewConfig(":memory:", appconf.Test, false))
	require.NoError(t, err)
	_, err = client.ImportData(context.Background(), testutil.SampleFeed(t), "sample.zip")
	require.NoError(t, err)

	collector := metrics.NewCollector()
	gtfsConfig := gtfs.Config{Env: appconf.Test, Location: loc, Metrics: collector}
	manager := gtfs.NewManager(client, gtfsConfig)
	t.Cleanup(manager.Shutdown)

	application := &app.Application{
		Config: appconf.Config{
			Env:       appconf.Test,
			ApiKeys:   []string{"TEST"},
			RateLimit: -1,
		},
		GtfsConfig:  gtfsConfig,
		GtfsManager: manager,
		Metrics:     collector,
		Clock: func() time.Time {
			return time.Date(2026, 10, 13, 9, 0, 0, 0, loc)
		},
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the specified endpoint, and returns the response
// and decoded model.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	server := httptest.NewServer(api.NewHandler())
	defer server.Close()
	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}

// entryOf returns data.entry of a decoded envelope.
func entryOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "entry should be an object")
	return entry
}

// listOf returns data.list of a decoded envelope.
func listOf(t *testing.T, model models.ResponseModel) []interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	list, ok := data["list"].([]interface{})
	require.True(t, ok, "list should be an array")
	return list
}

// displays collects the display strings of a departure board entry.
func displays(t *testing.T, board map[string]interface{}) []string {
	t.Helper()
	departures, ok := board["departures"].([]interface{})
	require.True(t, ok, "departures should be an array")
	out := make([]string, 0, len(departures))
	for _, d := range departures {
		out = append(out, d.(map[string]interface{})["display"].(string))
	}
	return out
}

// serveAndDecodeJSON is for bodies that are not response envelopes, such as validation errors.
func serveAndDecodeJSON(t *testing.T, api *RestAPI, endpoint string) (*http.Response, map[string]interface{}) {
	t.Helper()
	server := httptest.NewServer(api.NewHandler())
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}
