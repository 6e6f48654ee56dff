package gtfsdb

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextstop.transit.dev/internal/appconf"
	"nextstop.transit.dev/internal/testutil"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(NewConfig(":memory:", appconf.Test, false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClient_RejectsFileDatabaseInTest(t *testing.T) {
	client, err := NewClient(NewConfig("/tmp/nextstop_test.sqlite", appconf.Test, false))
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "test database must use in-memory storage")
}

func TestNewClient_CreatesSchema(t *testing.T) {
	client := newTestClient(t)

	counts, err := client.TableCounts(context.Background())
	require.NoError(t, err)

	for _, table := range []string{"agency", "routes", "stops", "calendar", "calendar_dates", "trips", "stop_times", "import_metadata"} {
		count, ok := counts[table]
		assert.True(t, ok, "table %s should exist", table)
		assert.Equal(t, 0, count)
	}
}

func TestImportData(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	imported, err := client.ImportData(ctx, testutil.SampleFeed(t), "sample.zip")
	require.NoError(t, err)
	assert.True(t, imported)

	t.Run("stops without coordinates are skipped", func(t *testing.T) {
		stops, err := client.ListStops(ctx)
		require.NoError(t, err)
		require.Len(t, stops, 2)
		assert.Equal(t, "S1", stops[0].ID)
		assert.Equal(t, "Main", stops[0].Name)
		assert.InDelta(t, 49.0, stops[0].Lat, 1e-9)
		assert.InDelta(t, -123.0, stops[0].Lon, 1e-9)
		assert.Equal(t, "S2", stops[1].ID)
	})

	t.Run("weekly calendar holds only services with weekdays", func(t *testing.T) {
		calendars, err := client.ListCalendars(ctx)
		require.NoError(t, err)
		require.Len(t, calendars, 1)

		cal := calendars[0]
		assert.Equal(t, "WKDY", cal.ServiceID)
		assert.Equal(t, 1, cal.Monday)
		assert.Equal(t, 1, cal.Friday)
		assert.Equal(t, 0, cal.Saturday)
		assert.Equal(t, 0, cal.Sunday)
		assert.Equal(t, "20260101", cal.StartDate)
		assert.Equal(t, "20261231", cal.EndDate)
	})

	t.Run("calendar dates keep both exception kinds", func(t *testing.T) {
		dates, err := client.ListCalendarDates(ctx, "20261012")
		require.NoError(t, err)
		require.Len(t, dates, 2)

		byService := map[string]int{}
		for _, d := range dates {
			assert.Equal(t, "20261012", d.Date)
			byService[d.ServiceID] = d.ExceptionType
		}
		assert.Equal(t, ExceptionTypeAdded, byService["HOL"])
		assert.Equal(t, ExceptionTypeRemoved, byService["WKDY"])

		none, err := client.ListCalendarDates(ctx, "20261013")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("departure records join trips and routes", func(t *testing.T) {
		records, err := client.ListDepartureRecords(ctx, "S1")
		require.NoError(t, err)
		require.Len(t, records, 3)

		byTrip := map[string]DepartureRecord{}
		for _, r := range records {
			assert.Equal(t, "S1", r.StopID)
			byTrip[r.TripID] = r
		}

		assert.Equal(t, DepartureRecord{
			TripID: "T1", StopID: "S1", RouteShortName: "4", Headsign: "Downtown",
			ServiceID: "WKDY", DepartureTime: "09:15:00",
		}, byTrip["T1"])
		assert.Equal(t, "Vic General", byTrip["T2"].Headsign, "empty trip headsign falls back to route long name")
		assert.Equal(t, "25:10:00", byTrip["T3"].DepartureTime, "after-midnight times are stored unwrapped")
		assert.Equal(t, "HOL", byTrip["T3"].ServiceID)
	})

	t.Run("metadata records the feed", func(t *testing.T) {
		metadata, err := client.GetImportMetadata(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, metadata.FileHash)
		assert.Equal(t, "sample.zip", metadata.FileSource)
		assert.Greater(t, metadata.ImportTime, int64(0))
	})
}

func TestImportData_SkipsUnchangedFeed(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	feed := testutil.SampleFeed(t)

	imported, err := client.ImportData(ctx, feed, "first")
	require.NoError(t, err)
	require.True(t, imported)

	imported, err = client.ImportData(ctx, feed, "second")
	require.NoError(t, err)
	assert.False(t, imported)

	metadata, err := client.GetImportMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", metadata.FileSource)
}

func TestImportData_ReplacesPreviousFeed(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.ImportData(ctx, testutil.SampleFeed(t), "v1")
	require.NoError(t, err)

	files := testutil.WithFile(testutil.SampleFeedFiles, "stops.txt", `
stop_id,stop_name,stop_lat,stop_lon
S1,Main,49.0,-123.0
S9,Elm,49.2,-123.2
`)
	imported, err := client.ImportData(ctx, testutil.BuildFeed(t, files), "v2")
	require.NoError(t, err)
	require.True(t, imported)

	stops, err := client.ListStops(ctx)
	require.NoError(t, err)
	require.Len(t, stops, 2)
	assert.Equal(t, "S1", stops[0].ID)
	assert.Equal(t, "S9", stops[1].ID)
}

func TestImportData_InvalidFeed(t *testing.T) {
	client := newTestClient(t)

	_, err := client.ImportData(context.Background(), []byte("not a zip"), "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing GTFS data")

	_, err = client.GetImportMetadata(context.Background())
	assert.Error(t, err, "a failed import leaves no metadata behind")
}

func TestImportData_KeepsPublishedCalendarWindow(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	files := testutil.WithFile(testutil.SampleFeedFiles, "calendar.txt", `
service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
WKDY,1,1,1,1,1,0,0,20260101,20261009
`)
	files = testutil.WithFile(files, "calendar_dates.txt", `
service_id,date,exception_type
HOL,20261012,1
WKDY,20261016,1
`)
	_, err := client.ImportData(ctx, testutil.BuildFeed(t, files), "window.zip")
	require.NoError(t, err)

	calendars, err := client.ListCalendars(ctx)
	require.NoError(t, err)
	require.Len(t, calendars, 1)
	assert.Equal(t, "20260101", calendars[0].StartDate)
	assert.Equal(t, "20261009", calendars[0].EndDate, "an exception after end_date does not stretch the weekly window")

	dates, err := client.ListCalendarDates(ctx, "20261016")
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, ExceptionTypeAdded, dates[0].ExceptionType)
}

func TestImportData_InconsistentFeedKeepsStore(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.ImportData(ctx, testutil.SampleFeed(t), "sample.zip")
	require.NoError(t, err)

	files := testutil.WithFile(testutil.SampleFeedFiles, "trips.txt", `
route_id,service_id,trip_id,trip_headsign
R4,WKDY,T1,Downtown
R14,WKDY,T2,
R4,NOPE,T3,Downtown
`)
	assert.NotPanics(t, func() {
		_, err = client.ImportData(ctx, testutil.BuildFeed(t, files), "broken.zip")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing GTFS data")

	stops, err := client.ListStops(ctx)
	require.NoError(t, err)
	assert.Len(t, stops, 2)

	metadata, err := client.GetImportMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sample.zip", metadata.FileSource)
}

func TestParseCalendarWindows(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want map[string]calendarWindow
	}{
		{
			name: "byte order mark and reordered columns",
			csv:  "\ufeffend_date,service_id,start_date\n20261231,WKDY,20260101\n",
			want: map[string]calendarWindow{"WKDY": {startDate: "20260101", endDate: "20261231"}},
		},
		{
			name: "rows without a service id are ignored",
			csv:  "service_id,start_date,end_date\n,20260101,20261231\nSAT,20260103,20260627\n",
			want: map[string]calendarWindow{"SAT": {startDate: "20260103", endDate: "20260627"}},
		},
		{
			name: "empty file",
			csv:  "",
			want: map[string]calendarWindow{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[string]calendarWindow{}
			require.NoError(t, parseCalendarWindows(strings.NewReader(tt.csv), got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCalendarWindows_NoCalendarFile(t *testing.T) {
	files := testutil.WithFile(testutil.SampleFeedFiles, "calendar.txt", "")
	delete(files, "calendar.txt")

	windows, err := readCalendarWindows(testutil.BuildFeed(t, files))
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestImportFromFile_Missing(t *testing.T) {
	client := newTestClient(t)

	_, err := client.ImportFromFile(context.Background(), "/nonexistent/feed.zip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading local GTFS file")
}

func TestFormatGTFSTime(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected string
	}{
		{0, "00:00:00"},
		{9*time.Hour + 15*time.Minute, "09:15:00"},
		{23*time.Hour + 59*time.Minute + 59*time.Second, "23:59:59"},
		{25*time.Hour + 10*time.Minute, "25:10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatGTFSTime(tt.in))
		})
	}
}
