package gtfsdb

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureClient(t *testing.T) *Client {
	t.Helper()

	client := newTestClient(t)
	err := client.InsertFixture(context.Background(), Fixture{
		Routes: []Route{{ID: "R4", ShortName: "4", LongName: "UVic"}},
		Stops: []Stop{
			{ID: "S2", Name: "Oak", Lat: 49.1, Lon: -123.1},
			{ID: "S1", Name: "Main", Lat: 49.0, Lon: -123.0},
		},
		Calendars: []Calendar{
			{ServiceID: "WKDY", Monday: 1, Tuesday: 1, Wednesday: 1, Thursday: 1, Friday: 1, StartDate: "20260101", EndDate: "20261231"},
		},
		CalendarDates: []CalendarDate{
			{ServiceID: "HOL", Date: "20261225", ExceptionType: ExceptionTypeAdded},
		},
		Trips: []Trip{
			{ID: "T1", RouteID: "R4", ServiceID: "WKDY", Headsign: "Downtown"},
			{ID: "T2", RouteID: "MISSING", ServiceID: "WKDY", Headsign: "Orphan"},
		},
		StopTimes: []StopTime{
			{TripID: "T1", DepartureTime: "09:15:00", StopID: "S1", StopSequence: 1},
			{TripID: "T1", DepartureTime: "bogus", StopID: "S2", StopSequence: 2},
			{TripID: "T2", DepartureTime: "09:30:00", StopID: "S1", StopSequence: 1},
		},
	})
	require.NoError(t, err)
	return client
}

func TestListStops_KeepsInsertionOrder(t *testing.T) {
	client := fixtureClient(t)

	stops, err := client.ListStops(context.Background())
	require.NoError(t, err)
	require.Len(t, stops, 2)
	assert.Equal(t, "S2", stops[0].ID)
	assert.Equal(t, "S1", stops[1].ID)
}

func TestGetStop(t *testing.T) {
	client := fixtureClient(t)
	ctx := context.Background()

	stop, err := client.GetStop(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "Main", stop.Name)

	_, err = client.GetStop(ctx, "nope")
	assert.ErrorIs(t, err, ErrStopNotFound)
}

func TestListDepartureRecords(t *testing.T) {
	client := fixtureClient(t)
	ctx := context.Background()

	t.Run("inner join drops trips without a route", func(t *testing.T) {
		records, err := client.ListDepartureRecords(ctx, "S1")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "T1", records[0].TripID)
		assert.Equal(t, "4", records[0].RouteShortName)
	})

	t.Run("malformed times are returned for the caller to judge", func(t *testing.T) {
		records, err := client.ListDepartureRecords(ctx, "S2")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "bogus", records[0].DepartureTime)
	})

	t.Run("unknown stop has no records", func(t *testing.T) {
		records, err := client.ListDepartureRecords(ctx, "S404")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestQueriesAfterClose(t *testing.T) {
	client := fixtureClient(t)
	require.NoError(t, client.Close())

	_, err := client.ListStops(context.Background())
	assert.Error(t, err)
	_, err = client.ListCalendars(context.Background())
	assert.Error(t, err)
}

func TestConcurrentQueries(t *testing.T) {
	client := fixtureClient(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 30)
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, err := client.ListStops(ctx)
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := client.ListCalendars(ctx)
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := client.ListDepartureRecords(ctx, "S1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
