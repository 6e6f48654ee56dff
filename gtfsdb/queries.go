package gtfsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrStopNotFound is returned by GetStop for an unknown stop_id.
var ErrStopNotFound = errors.New("stop not found")

// ListStops returns every stop in feed order.
func (c *Client) ListStops(ctx context.Context) ([]Stop, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT stop_id, COALESCE(stop_code, ''), COALESCE(stop_name, ''), stop_lat, stop_lon
		FROM stops
		ORDER BY rowid;`)
	if err != nil {
		return nil, fmt.Errorf("error querying stops: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var stops []Stop
	for rows.Next() {
		var s Stop
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Lat, &s.Lon); err != nil {
			return nil, fmt.Errorf("error scanning stop: %w", err)
		}
		stops = append(stops, s)
	}
	return stops, rows.Err()
}

// GetStop returns a single stop, or ErrStopNotFound.
func (c *Client) GetStop(ctx context.Context, stopID string) (Stop, error) {
	var s Stop
	err := c.DB.QueryRowContext(ctx, `
		SELECT stop_id, COALESCE(stop_code, ''), COALESCE(stop_name, ''), stop_lat, stop_lon
		FROM stops
		WHERE stop_id = ?;`, stopID).Scan(&s.ID, &s.Code, &s.Name, &s.Lat, &s.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return Stop{}, ErrStopNotFound
	}
	if err != nil {
		return Stop{}, fmt.Errorf("error querying stop %q: %w", stopID, err)
	}
	return s, nil
}

// ListCalendars returns every weekly calendar entry.
func (c *Client) ListCalendars(ctx context.Context) ([]Calendar, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT service_id, monday, tuesday, wednesday, thursday, friday, saturday, sunday,
			start_date, end_date
		FROM calendar
		ORDER BY rowid;`)
	if err != nil {
		return nil, fmt.Errorf("error querying calendar: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var calendars []Calendar
	for rows.Next() {
		var cal Calendar
		err := rows.Scan(&cal.ServiceID, &cal.Monday, &cal.Tuesday, &cal.Wednesday, &cal.Thursday,
			&cal.Friday, &cal.Saturday, &cal.Sunday, &cal.StartDate, &cal.EndDate)
		if err != nil {
			return nil, fmt.Errorf("error scanning calendar: %w", err)
		}
		calendars = append(calendars, cal)
	}
	return calendars, rows.Err()
}

// ListCalendarDates returns the exceptions of every kind dated date (YYYYMMDD).
func (c *Client) ListCalendarDates(ctx context.Context, date string) ([]CalendarDate, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT service_id, date, exception_type
		FROM calendar_dates
		WHERE date = ?
		ORDER BY rowid;`, date)
	if err != nil {
		return nil, fmt.Errorf("error querying calendar_dates: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var dates []CalendarDate
	for rows.Next() {
		var d CalendarDate
		if err := rows.Scan(&d.ServiceID, &d.Date, &d.ExceptionType); err != nil {
			return nil, fmt.Errorf("error scanning calendar_dates: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// ListDepartureRecords joins stop_times at stopID with their trips and routes.
// The headsign falls back to the route's long name when the trip has none.
func (c *Client) ListDepartureRecords(ctx context.Context, stopID string) ([]DepartureRecord, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT
			st.trip_id,
			st.stop_id,
			COALESCE(r.route_short_name, ''),
			COALESCE(NULLIF(t.trip_headsign, ''), r.route_long_name, ''),
			t.service_id,
			st.departure_time
		FROM stop_times st
		JOIN trips t ON st.trip_id = t.trip_id
		JOIN routes r ON t.route_id = r.route_id
		WHERE st.stop_id = ?
		ORDER BY st.rowid;`, stopID)
	if err != nil {
		return nil, fmt.Errorf("error querying departures for stop %q: %w", stopID, err)
	}
	defer rows.Close() // nolint:errcheck

	var records []DepartureRecord
	for rows.Next() {
		var d DepartureRecord
		err := rows.Scan(&d.TripID, &d.StopID, &d.RouteShortName, &d.Headsign, &d.ServiceID, &d.DepartureTime)
		if err != nil {
			return nil, fmt.Errorf("error scanning departure: %w", err)
		}
		records = append(records, d)
	}
	return records, rows.Err()
}

// GetImportMetadata returns the metadata of the current feed, or sql.ErrNoRows before the first import.
func (c *Client) GetImportMetadata(ctx context.Context) (ImportMetadata, error) {
	var m ImportMetadata
	err := c.DB.QueryRowContext(ctx, `
		SELECT file_hash, file_source, import_time
		FROM import_metadata
		WHERE id = 1;`).Scan(&m.FileHash, &m.FileSource, &m.ImportTime)
	return m, err
}
