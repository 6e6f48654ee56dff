package gtfsdb

import (
	"context"
	"database/sql"
	"fmt"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// insertBatch runs one prepared statement for each of n rows.
func insertBatch(ctx context.Context, db execer, table, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}

	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error preparing %s statement: %w", table, err)
	}
	defer stmt.Close() // nolint:errcheck

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("error inserting %s row: %w", table, err)
		}
	}
	return nil
}

func insertAgencies(ctx context.Context, db execer, agencies []Agency) error {
	return insertBatch(ctx, db, "agency", `
		INSERT OR REPLACE INTO agency (agency_id, agency_name, agency_url, agency_timezone)
		VALUES (?, ?, ?, ?);`,
		len(agencies), func(i int) []any {
			a := agencies[i]
			return []any{a.ID, a.Name, a.URL, a.Timezone}
		})
}

func insertRoutes(ctx context.Context, db execer, routes []Route) error {
	return insertBatch(ctx, db, "routes", `
		INSERT OR REPLACE INTO routes (route_id, agency_id, route_short_name, route_long_name, route_type)
		VALUES (?, ?, ?, ?, ?);`,
		len(routes), func(i int) []any {
			r := routes[i]
			return []any{r.ID, r.AgencyID, r.ShortName, r.LongName, r.Type}
		})
}

func insertStops(ctx context.Context, db execer, stops []Stop) error {
	return insertBatch(ctx, db, "stops", `
		INSERT OR REPLACE INTO stops (stop_id, stop_code, stop_name, stop_lat, stop_lon)
		VALUES (?, ?, ?, ?, ?);`,
		len(stops), func(i int) []any {
			s := stops[i]
			return []any{s.ID, s.Code, s.Name, s.Lat, s.Lon}
		})
}

func insertCalendars(ctx context.Context, db execer, calendars []Calendar) error {
	return insertBatch(ctx, db, "calendar", `
		INSERT OR REPLACE INTO calendar (
			service_id, monday, tuesday, wednesday, thursday,
			friday, saturday, sunday, start_date, end_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		len(calendars), func(i int) []any {
			c := calendars[i]
			return []any{
				c.ServiceID, c.Monday, c.Tuesday, c.Wednesday, c.Thursday,
				c.Friday, c.Saturday, c.Sunday, c.StartDate, c.EndDate,
			}
		})
}

func insertCalendarDates(ctx context.Context, db execer, dates []CalendarDate) error {
	return insertBatch(ctx, db, "calendar_dates", `
		INSERT OR REPLACE INTO calendar_dates (service_id, date, exception_type)
		VALUES (?, ?, ?);`,
		len(dates), func(i int) []any {
			d := dates[i]
			return []any{d.ServiceID, d.Date, d.ExceptionType}
		})
}

func insertTrips(ctx context.Context, db execer, trips []Trip) error {
	return insertBatch(ctx, db, "trips", `
		INSERT OR REPLACE INTO trips (trip_id, route_id, service_id, trip_headsign, direction_id)
		VALUES (?, ?, ?, ?, ?);`,
		len(trips), func(i int) []any {
			t := trips[i]
			return []any{t.ID, t.RouteID, t.ServiceID, t.Headsign, t.DirectionID}
		})
}

func insertStopTimes(ctx context.Context, db execer, stopTimes []StopTime) error {
	return insertBatch(ctx, db, "stop_times", `
		INSERT OR REPLACE INTO stop_times (
			trip_id, arrival_time, departure_time, stop_id, stop_sequence, stop_headsign
		) VALUES (?, ?, ?, ?, ?, ?);`,
		len(stopTimes), func(i int) []any {
			st := stopTimes[i]
			return []any{st.TripID, st.ArrivalTime, st.DepartureTime, st.StopID, st.StopSequence, st.StopHeadsign}
		})
}

// Fixture holds rows for InsertFixture.
type Fixture struct {
	Agencies      []Agency
	Routes        []Route
	Stops         []Stop
	Calendars     []Calendar
	CalendarDates []CalendarDate
	Trips         []Trip
	StopTimes     []StopTime
}

// InsertFixture writes rows directly, bypassing the GTFS parser. Rows are written as given,
// malformed values included, in a single transaction.
func (c *Client) InsertFixture(ctx context.Context, f Fixture) (err error) {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	steps := []func() error{
		func() error { return insertAgencies(ctx, tx, f.Agencies) },
		func() error { return insertRoutes(ctx, tx, f.Routes) },
		func() error { return insertStops(ctx, tx, f.Stops) },
		func() error { return insertCalendars(ctx, tx, f.Calendars) },
		func() error { return insertCalendarDates(ctx, tx, f.CalendarDates) },
		func() error { return insertTrips(ctx, tx, f.Trips) },
		func() error { return insertStopTimes(ctx, tx, f.StopTimes) },
	}
	for _, step := range steps {
		if err = step(); err != nil {
			return err
		}
	}

	return tx.Commit()
}
