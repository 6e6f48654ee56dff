package gtfsdb

import (
	"context"
	"fmt"

	"github.com/jamespfennell/gtfs"
)

// feedTables lists the tables created by schema.sql, in load order.
var feedTables = []string{
	"import_metadata",
	"agency",
	"routes",
	"stops",
	"calendar",
	"calendar_dates",
	"trips",
	"stop_times",
}

// staticDataCounts is what a complete import of staticData would store, keyed by table.
// Stops may be lower in the store when rows are skipped for bad coordinates.
func staticDataCounts(staticData *gtfs.Static) map[string]int {
	stopTimes := 0
	for _, t := range staticData.Trips {
		stopTimes += len(t.StopTimes)
	}
	return map[string]int{
		"agency":     len(staticData.Agencies),
		"routes":     len(staticData.Routes),
		"stops":      len(staticData.Stops),
		"trips":      len(staticData.Trips),
		"stop_times": stopTimes,
	}
}

// TableCounts returns the row count of every feed table.
func (c *Client) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(feedTables))
	for _, table := range feedTables {
		var n int
		// table comes from feedTables, never from a caller.
		if err := c.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
