// Package calendar decides which GTFS services run on a given day.
//
// Added exceptions dated on the day replace the weekly calendar entirely. Without them the weekly
// calendar applies, optionally minus the day's Removed exceptions.
package calendar

import (
	"sort"
)

// ExceptionKind mirrors GTFS calendar_dates.txt exception_type.
type ExceptionKind int

const (
	Added   ExceptionKind = 1
	Removed ExceptionKind = 2
)

func (k ExceptionKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Entry is a recurring weekly service window.
type Entry struct {
	ServiceID string
	Days      Weekdays
	StartDate Date
	EndDate   Date
}

// Valid reports whether the entry names a service and has a non-inverted window.
func (e Entry) Valid() bool {
	return e.ServiceID != "" && e.StartDate.Compare(e.EndDate) <= 0
}

// Covers reports whether the service runs on day according to the weekly pattern.
func (e Entry) Covers(day Date) bool {
	return day.Between(e.StartDate, e.EndDate) && e.Days.Has(day.Weekday())
}

// Exception adds or removes a service on one date.
type Exception struct {
	ServiceID string
	Date      Date
	Kind      ExceptionKind
}

// ServiceSet is a set of service ids. Treat it as read-only once returned.
type ServiceSet map[string]struct{}

// NewServiceSet builds a set from ids.
func NewServiceSet(ids ...string) ServiceSet {
	set := make(ServiceSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s ServiceSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members sorted.
func (s ServiceSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Options tunes resolution.
type Options struct {
	// ApplyRemovals subtracts Removed exceptions from the weekly set when no Added exception
	// overrides the day.
	ApplyRemovals bool
}

// Result is the outcome of resolving one day.
type Result struct {
	Date       Date
	Services   ServiceSet
	Overridden bool // Added exceptions replaced the weekly calendar
	Skipped    int  // malformed entries or exceptions left out
	Cached     bool
}

// Empty reports the "no service operates today" outcome.
func (r Result) Empty() bool {
	return len(r.Services) == 0
}

// ResolveActiveServices returns the services running on today.
func ResolveActiveServices(today Date, exceptions []Exception, entries []Entry, opts Options) Result {
	result := Result{Date: today, Services: ServiceSet{}}

	for _, exc := range exceptions {
		if exc.ServiceID == "" || (exc.Kind != Added && exc.Kind != Removed) {
			result.Skipped++
			continue
		}
		if exc.Kind == Added && exc.Date == today {
			result.Services[exc.ServiceID] = struct{}{}
		}
	}
	if len(result.Services) > 0 {
		result.Overridden = true
		return result
	}

	for _, entry := range entries {
		if !entry.Valid() {
			result.Skipped++
			continue
		}
		if entry.Covers(today) {
			result.Services[entry.ServiceID] = struct{}{}
		}
	}

	if opts.ApplyRemovals {
		for _, exc := range exceptions {
			if exc.Kind == Removed && exc.Date == today {
				delete(result.Services, exc.ServiceID)
			}
		}
	}

	return result
}
