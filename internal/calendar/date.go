package calendar

import (
	"fmt"
	"time"
)

const (
	gtfsDateLayout = "20060102"
	isoDateLayout  = "2006-01-02"
)

// Date is a calendar day with no clock or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a GTFS YYYYMMDD date.
func ParseDate(s string) (Date, error) {
	return parseWithLayout(gtfsDateLayout, s)
}

// ParseISODate parses a YYYY-MM-DD date.
func ParseISODate(s string) (Date, error) {
	return parseWithLayout(isoDateLayout, s)
}

func parseWithLayout(layout, s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String formats the date as GTFS YYYYMMDD.
func (d Date) String() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

// ISO formats the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Midnight returns the start of d in loc.
func (d Date) Midnight(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC))
}

// Weekday uses Go's numbering, 0 = Sunday through 6 = Saturday.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// Compare returns -1, 0 or +1 as d is before, equal to or after other.
func (d Date) Compare(other Date) int {
	a, b := d.ordinal(), other.ordinal()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Between reports whether start <= d <= end.
func (d Date) Between(start, end Date) bool {
	return d.Compare(start) >= 0 && d.Compare(end) <= 0
}

func (d Date) ordinal() int {
	return d.Year*10000 + int(d.Month)*100 + d.Day
}

// Weekdays is a set of days of the week.
type Weekdays uint8

// WeekdaysOf builds a set from the given days.
func WeekdaysOf(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, day := range days {
		w |= 1 << uint(day)
	}
	return w
}

// Has reports whether day is in the set.
func (w Weekdays) Has(day time.Weekday) bool {
	return w&(1<<uint(day)) != 0
}

// Days lists the set in Sunday-first order.
func (w Weekdays) Days() []time.Weekday {
	var days []time.Weekday
	for day := time.Sunday; day <= time.Saturday; day++ {
		if w.Has(day) {
			days = append(days, day)
		}
	}
	return days
}
