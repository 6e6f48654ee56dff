package calendar

import (
	"fmt"
	"time"

	"nextstop.transit.dev/gtfsdb"
)

// EntryFromRow converts a calendar.txt row. Day columns other than 1 count as "no service".
func EntryFromRow(row gtfsdb.Calendar) (Entry, error) {
	start, err := ParseDate(row.StartDate)
	if err != nil {
		return Entry{}, fmt.Errorf("service %q start_date: %w", row.ServiceID, err)
	}
	end, err := ParseDate(row.EndDate)
	if err != nil {
		return Entry{}, fmt.Errorf("service %q end_date: %w", row.ServiceID, err)
	}

	columns := map[time.Weekday]int{
		time.Sunday:    row.Sunday,
		time.Monday:    row.Monday,
		time.Tuesday:   row.Tuesday,
		time.Wednesday: row.Wednesday,
		time.Thursday:  row.Thursday,
		time.Friday:    row.Friday,
		time.Saturday:  row.Saturday,
	}
	var days []time.Weekday
	for day, flag := range columns {
		if flag == 1 {
			days = append(days, day)
		}
	}

	entry := Entry{ServiceID: row.ServiceID, Days: WeekdaysOf(days...), StartDate: start, EndDate: end}
	if !entry.Valid() {
		return Entry{}, fmt.Errorf("service %q has an invalid window %s-%s", row.ServiceID, row.StartDate, row.EndDate)
	}
	return entry, nil
}

// ExceptionFromRow converts a calendar_dates.txt row.
func ExceptionFromRow(row gtfsdb.CalendarDate) (Exception, error) {
	date, err := ParseDate(row.Date)
	if err != nil {
		return Exception{}, fmt.Errorf("service %q exception: %w", row.ServiceID, err)
	}
	kind := ExceptionKind(row.ExceptionType)
	if kind != Added && kind != Removed {
		return Exception{}, fmt.Errorf("service %q has unknown exception_type %d", row.ServiceID, row.ExceptionType)
	}
	if row.ServiceID == "" {
		return Exception{}, fmt.Errorf("exception on %s has no service_id", row.Date)
	}
	return Exception{ServiceID: row.ServiceID, Date: date, Kind: kind}, nil
}

// EntriesFromRows converts rows, dropping and counting the malformed ones.
func EntriesFromRows(rows []gtfsdb.Calendar) ([]Entry, int) {
	entries := make([]Entry, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		entry, err := EntryFromRow(row)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped
}

// ExceptionsFromRows converts rows, dropping and counting the malformed ones.
func ExceptionsFromRows(rows []gtfsdb.CalendarDate) ([]Exception, int) {
	exceptions := make([]Exception, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		exc, err := ExceptionFromRow(row)
		if err != nil {
			skipped++
			continue
		}
		exceptions = append(exceptions, exc)
	}
	return exceptions, skipped
}
