package daterange

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the zone-local calendar label format ("yyyy-MM-dd").
	DateLayout = "2006-01-02"

	// MonthLayout is the key format of month buckets.
	MonthLayout = "2006-01"
)

// Date is a calendar day label. It has no zone of its own; StartIn and EndIn
// map it to absolute instants within a given location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the normalized date for year, month and day.
// Out of range values roll over the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC), time.UTC)
}

// DateOf returns the calendar date of t as observed in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	t = t.In(loc)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses a "2006-01-02" label.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date: %w", err)
	}
	return DateOf(t, time.UTC), nil
}

// String formats the date as "2006-01-02".
func (d Date) String() string {
	return d.midnightUTC().Format(DateLayout)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// midnightUTC anchors d in UTC, where every day is exactly 24h long.
func (d Date) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnightUTC().AddDate(0, 0, n), time.UTC)
}

// AddMonths returns d shifted by n calendar months. The day is clipped to the
// length of the target month, so Mar 31 - 1 month is Feb 28 (or 29).
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := min(d.Day, daysIn(first.Year(), first.Month()))
	return Date{Year: first.Year(), Month: first.Month(), Day: day}
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// MonthKey formats d's month as "2006-01".
func (d Date) MonthKey() string {
	return d.midnightUTC().Format(MonthLayout)
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.midnightUTC().Before(other.midnightUTC())
}

// DaysUntil returns the number of calendar days from d to other.
// Negative when other is earlier.
func (d Date) DaysUntil(other Date) int {
	return int(other.midnightUTC().Sub(d.midnightUTC()) / (24 * time.Hour))
}

// StartIn returns the first instant of d in loc. Where a DST change skips
// local midnight, d starts at the transition instead.
func (d Date) StartIn(loc *time.Location) time.Time {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
	if DateOf(t, loc).Before(d) {
		_, next := t.ZoneBounds()
		t = next
	}
	return t
}

// EndIn returns the last instant of d in loc: one nanosecond before the next
// day starts. This holds on 23h and 25h DST days as well.
func (d Date) EndIn(loc *time.Location) time.Time {
	return d.AddDays(1).StartIn(loc).Add(-time.Nanosecond)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
