package departures

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is seconds since the start of the service day. GTFS allows hours past 23 for trips
// that run after midnight; those values are kept as they are, so 25:10 sorts after 23:59.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from clock parts.
func NewTimeOfDay(hours, minutes, seconds int) TimeOfDay {
	return TimeOfDay(hours*3600 + minutes*60 + seconds)
}

// ClockTime returns the wall clock time of t as a same-day TimeOfDay.
func ClockTime(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return NewTimeOfDay(h, m, s)
}

// ParseTimeOfDay accepts H:MM, HH:MM or HH:MM:SS. Hours may be 24 or more.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM or HH:MM:SS", s)
	}

	values := make([]int, 3)
	for i, part := range parts {
		if part == "" || len(part) > 3 || (i > 0 && len(part) != 2) {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("invalid time %q", s)
			}
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", s, err)
		}
		values[i] = v
	}

	if values[1] > 59 || values[2] > 59 {
		return 0, fmt.Errorf("invalid time %q: minutes and seconds must be below 60", s)
	}
	return NewTimeOfDay(values[0], values[1], values[2]), nil
}

func (t TimeOfDay) Hour() int {
	return int(t) / 3600
}

func (t TimeOfDay) Minute() int {
	return int(t) % 3600 / 60
}

func (t TimeOfDay) Second() int {
	return int(t) % 60
}

// AfterMidnight reports whether t belongs to the next calendar day of its service day.
func (t TimeOfDay) AfterMidnight() bool {
	return t.Hour() >= 24
}

// String formats t as HH:MM:SS without wrapping hours.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// Remaining is the wait from now until dep at minute granularity. ok is false when dep is
// already in an earlier minute than now. Departures in the current minute are kept.
func Remaining(dep, now TimeOfDay) (hours, minutes int, ok bool) {
	if dep.Hour() < now.Hour() || (dep.Hour() == now.Hour() && dep.Minute() < now.Minute()) {
		return 0, 0, false
	}

	hours = dep.Hour() - now.Hour()
	minutes = dep.Minute() - now.Minute()
	if minutes < 0 {
		hours--
		minutes += 60
	}
	return hours, minutes, true
}
