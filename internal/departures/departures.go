// Package departures filters a stop's scheduled departures against the active services and the
// current time, and ranks what is left by time remaining.
package departures

import (
	"fmt"
	"sort"

	"nextstop.transit.dev/gtfsdb"
	"nextstop.transit.dev/internal/calendar"
)

// Record is one scheduled departure joined with its trip and route.
type Record struct {
	TripID         string
	StopID         string
	RouteShortName string
	Headsign       string
	ServiceID      string
	DepartureTime  string // GTFS HH:MM:SS as stored
}

// RecordsFromRows adapts store rows.
func RecordsFromRows(rows []gtfsdb.DepartureRecord) []Record {
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = Record{
			TripID:         row.TripID,
			StopID:         row.StopID,
			RouteShortName: row.RouteShortName,
			Headsign:       row.Headsign,
			ServiceID:      row.ServiceID,
			DepartureTime:  row.DepartureTime,
		}
	}
	return records
}

// RankedDeparture is an upcoming departure with its wait time.
type RankedDeparture struct {
	TripID           string
	RouteShortName   string
	Headsign         string
	ServiceID        string
	DepartureTime    TimeOfDay
	HoursRemaining   int
	MinutesRemaining int
}

// MinutesUntil is the total wait in minutes.
func (d RankedDeparture) MinutesUntil() int {
	return d.HoursRemaining*60 + d.MinutesRemaining
}

// String renders "4 Downtown: 15 m", or "4 Downtown: 1 h 7m" once the wait reaches an hour.
func (d RankedDeparture) String() string {
	if d.HoursRemaining == 0 {
		return fmt.Sprintf("%s %s: %d m", d.RouteShortName, d.Headsign, d.MinutesRemaining)
	}
	return fmt.Sprintf("%s %s: %d h %dm", d.RouteShortName, d.Headsign, d.HoursRemaining, d.MinutesRemaining)
}

// Options tunes Schedule.
type Options struct {
	Limit int // 0 keeps every departure
}

// Result is the departure board for one stop.
type Result struct {
	StopID     string
	Departures []RankedDeparture
	Skipped    int // records with unparseable departure times
}

// Empty reports the "no buses" outcome.
func (r Result) Empty() bool {
	return len(r.Departures) == 0
}

// Strings renders every departure.
func (r Result) Strings() []string {
	out := make([]string, len(r.Departures))
	for i, d := range r.Departures {
		out[i] = d.String()
	}
	return out
}

// Schedule keeps the records at stopID whose service is active and whose departure is not in
// the past, then orders them by (hours, minutes) remaining. Equal waits keep input order.
func Schedule(stopID string, active calendar.ServiceSet, now TimeOfDay, records []Record, opts Options) Result {
	result := Result{StopID: stopID, Departures: []RankedDeparture{}}

	for _, rec := range records {
		if rec.StopID != "" && rec.StopID != stopID {
			continue
		}

		dep, err := ParseTimeOfDay(rec.DepartureTime)
		if err != nil {
			result.Skipped++
			continue
		}

		if !active.Contains(rec.ServiceID) {
			continue
		}

		hours, minutes, ok := Remaining(dep, now)
		if !ok {
			continue
		}

		result.Departures = append(result.Departures, RankedDeparture{
			TripID:           rec.TripID,
			RouteShortName:   rec.RouteShortName,
			Headsign:         rec.Headsign,
			ServiceID:        rec.ServiceID,
			DepartureTime:    dep,
			HoursRemaining:   hours,
			MinutesRemaining: minutes,
		})
	}

	sort.SliceStable(result.Departures, func(i, j int) bool {
		a, b := result.Departures[i], result.Departures[j]
		if a.HoursRemaining != b.HoursRemaining {
			return a.HoursRemaining < b.HoursRemaining
		}
		return a.MinutesRemaining < b.MinutesRemaining
	})

	if opts.Limit > 0 && len(result.Departures) > opts.Limit {
		result.Departures = result.Departures[:opts.Limit]
	}

	return result
}
