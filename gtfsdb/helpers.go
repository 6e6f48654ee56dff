package gtfsdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jamespfennell/gtfs"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"nextstop.transit.dev/internal/appconf"
	"nextstop.transit.dev/internal/logging"
)

//go:embed schema.sql
var ddl string

// createDB creates a new SQLite database with tables for static GTFS data
func createDB(config Config) (*sql.DB, error) {
	if config.Env == appconf.Test && !config.inMemory() {
		return nil, fmt.Errorf("test database must use in-memory storage, got %q", config.DBPath)
	}

	db, err := sql.Open("sqlite", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if config.inMemory() {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx := context.Background()
	err = performDatabaseMigration(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}

	return db, nil
}

func performDatabaseMigration(ctx context.Context, db *sql.DB) error {
	statements := strings.Split(ddl, "-- migrate")
	for _, stmt := range statements {
		trimmedStmt := strings.TrimSpace(stmt)
		if trimmedStmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, trimmedStmt); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", trimmedStmt, err)
		}
	}
	return nil
}

func hashFeed(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func (c *Client) processAndStoreGTFSData(ctx context.Context, b []byte, source string) (imported bool, err error) {
	startTime := time.Now()

	fileHash := hashFeed(b)
	current, err := c.GetImportMetadata(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("error reading import metadata: %w", err)
	}
	if err == nil && current.FileHash == fileHash {
		if c.config.verbose {
			logging.LogOperation(c.logger, "gtfs_import_skipped",
				slog.String("source", source),
				slog.String("reason", "unchanged feed"))
		}
		return false, nil
	}

	staticData, err := parseStatic(b)
	if err != nil {
		return false, fmt.Errorf("error parsing GTFS data: %w", err)
	}
	windows, err := readCalendarWindows(b)
	if err != nil {
		return false, err
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "gtfs_import")

	if err := clearTables(ctx, tx); err != nil {
		return false, err
	}

	skipped, err := storeStaticData(ctx, tx, staticData, windows)
	if err != nil {
		return false, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO import_metadata (id, file_hash, file_source, import_time)
		VALUES (1, ?, ?, ?);`,
		fileHash, source, time.Now().UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("error storing import metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("error committing transaction: %w", err)
	}

	c.importRuntime = time.Since(startTime)

	logging.LogSkippedRecords(c.logger, "stop_coordinates", skipped, slog.String("source", source))
	logging.LogOperation(c.logger, "gtfs_data_imported",
		slog.String("source", source),
		slog.Int("warnings", len(staticData.Warnings)),
		slog.Int("stops", len(staticData.Stops)),
		slog.Int("trips", len(staticData.Trips)),
		slog.Duration("duration", c.importRuntime))

	if c.config.verbose {
		counts, err := c.TableCounts(ctx)
		if err != nil {
			return true, fmt.Errorf("failed to get table counts: %w", err)
		}
		staticCounts := staticDataCounts(staticData)
		for table, n := range counts {
			expected, ok := staticCounts[table]
			c.logger.Debug("table_count",
				slog.String("table", table),
				slog.Int("rows", n),
				slog.Bool("matches_feed", ok && expected == n))
		}
	}

	return true, nil
}

// parseStatic parses a feed zip. The parser panics on some inconsistent feeds, such as
// stop_times for a trip it dropped; that is reported as an error so a refresh keeps the
// feed already in the store.
func parseStatic(b []byte) (staticData *gtfs.Static, err error) {
	defer func() {
		if r := recover(); r != nil {
			staticData = nil
			err = fmt.Errorf("feed is inconsistent: %v", r)
		}
	}()
	return gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
}

// storeStaticData maps the parsed feed onto table rows, taking service date ranges from
// windows when calendar.txt lists them. It returns the number of stops skipped for missing or
// out-of-range coordinates.
func storeStaticData(ctx context.Context, tx *sql.Tx, staticData *gtfs.Static, windows map[string]calendarWindow) (int, error) {
	agencies := make([]Agency, 0, len(staticData.Agencies))
	for _, a := range staticData.Agencies {
		agencies = append(agencies, Agency{ID: a.Id, Name: a.Name, URL: a.Url, Timezone: a.Timezone})
	}
	if err := insertAgencies(ctx, tx, agencies); err != nil {
		return 0, err
	}

	singleAgencyID := ""
	if len(staticData.Agencies) == 1 {
		singleAgencyID = staticData.Agencies[0].Id
	}

	routes := make([]Route, 0, len(staticData.Routes))
	for _, r := range staticData.Routes {
		agencyID := ""
		if r.Agency != nil {
			agencyID = r.Agency.Id
		}
		routes = append(routes, Route{
			ID:        r.Id,
			AgencyID:  pickFirstAvailable(agencyID, singleAgencyID),
			ShortName: r.ShortName,
			LongName:  r.LongName,
			Type:      int(r.Type),
		})
	}
	if err := insertRoutes(ctx, tx, routes); err != nil {
		return 0, err
	}

	skipped := 0
	stops := make([]Stop, 0, len(staticData.Stops))
	for _, s := range staticData.Stops {
		if !validCoordinates(s.Latitude, s.Longitude) {
			skipped++
			continue
		}
		stops = append(stops, Stop{
			ID:   s.Id,
			Code: s.Code,
			Name: s.Name,
			Lat:  *s.Latitude,
			Lon:  *s.Longitude,
		})
	}
	if err := insertStops(ctx, tx, stops); err != nil {
		return skipped, err
	}

	var calendars []Calendar
	var calendarDates []CalendarDate
	for _, s := range staticData.Services {
		if hasWeeklyService(s) {
			startDate, endDate := formatDate(s.StartDate), formatDate(s.EndDate)
			if w, ok := windows[s.Id]; ok && w.startDate != "" && w.endDate != "" {
				startDate, endDate = w.startDate, w.endDate
			}
			calendars = append(calendars, Calendar{
				ServiceID: s.Id,
				Monday:    boolToInt(s.Monday),
				Tuesday:   boolToInt(s.Tuesday),
				Wednesday: boolToInt(s.Wednesday),
				Thursday:  boolToInt(s.Thursday),
				Friday:    boolToInt(s.Friday),
				Saturday:  boolToInt(s.Saturday),
				Sunday:    boolToInt(s.Sunday),
				StartDate: startDate,
				EndDate:   endDate,
			})
		}
		for _, d := range s.AddedDates {
			calendarDates = append(calendarDates, CalendarDate{ServiceID: s.Id, Date: formatDate(d), ExceptionType: ExceptionTypeAdded})
		}
		for _, d := range s.RemovedDates {
			calendarDates = append(calendarDates, CalendarDate{ServiceID: s.Id, Date: formatDate(d), ExceptionType: ExceptionTypeRemoved})
		}
	}
	if err := insertCalendars(ctx, tx, calendars); err != nil {
		return skipped, err
	}
	if err := insertCalendarDates(ctx, tx, calendarDates); err != nil {
		return skipped, err
	}

	trips := make([]Trip, 0, len(staticData.Trips))
	var stopTimes []StopTime
	for _, t := range staticData.Trips {
		if t.Route == nil || t.Service == nil {
			continue
		}
		trips = append(trips, Trip{
			ID:          t.ID,
			RouteID:     t.Route.Id,
			ServiceID:   t.Service.Id,
			Headsign:    t.Headsign,
			DirectionID: int(t.DirectionId),
		})
		for _, st := range t.StopTimes {
			if st.Stop == nil {
				continue
			}
			stopTimes = append(stopTimes, StopTime{
				TripID:        t.ID,
				ArrivalTime:   FormatGTFSTime(st.ArrivalTime),
				DepartureTime: FormatGTFSTime(st.DepartureTime),
				StopID:        st.Stop.Id,
				StopSequence:  st.StopSequence,
				StopHeadsign:  st.Headsign,
			})
		}
	}
	if err := insertTrips(ctx, tx, trips); err != nil {
		return skipped, err
	}
	if err := insertStopTimes(ctx, tx, stopTimes); err != nil {
		return skipped, err
	}

	return skipped, nil
}

func clearTables(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"stop_times", "trips", "calendar_dates", "calendar", "stops", "routes", "agency"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("error clearing %s: %w", table, err)
		}
	}
	return nil
}

// hasWeeklyService reports whether the service has any weekday set. Services that exist
// only in calendar_dates.txt come back from the parser with every day false.
func hasWeeklyService(s gtfs.Service) bool {
	return s.Monday || s.Tuesday || s.Wednesday || s.Thursday || s.Friday || s.Saturday || s.Sunday
}

func validCoordinates(lat, lon *float64) bool {
	if lat == nil || lon == nil {
		return false
	}
	return *lat >= -90 && *lat <= 90 && *lon >= -180 && *lon <= 180
}

// FormatGTFSTime renders a duration since service-day midnight as HH:MM:SS.
// Hours are not wrapped, so 25:10:00 stays 25:10:00.
func FormatGTFSTime(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

func formatDate(t time.Time) string {
	return t.Format("20060102")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func pickFirstAvailable(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
