// Package dateutil provides calendar-day helpers for date-only values.
//
// All helpers normalise their inputs to UTC midnight first, so callers can
// pass wall-clock timestamps and still get calendar-day semantics.
package dateutil

import (
	"fmt"
	"math"
	"time"
)

// Layout is the ISO date layout used for purchase and refinance dates.
const Layout = "2006-01-02"

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a date-only value.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Parse parses an ISO (YYYY-MM-DD) date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// Format renders a date-only value as YYYY-MM-DD.
func Format(t time.Time) string {
	return DateOnly(t).Format(Layout)
}

// DaysBetween returns the number of whole calendar days from start to end.
// The result is negative when end is before start.
func DaysBetween(start, end time.Time) int {
	hours := DateOnly(end).Sub(DateOnly(start)).Hours()
	return int(math.Round(hours / 24))
}

// FullYearsBetween returns the number of complete years from start to end,
// counting an anniversary as reached on the same month and day.
func FullYearsBetween(start, end time.Time) int {
	s, e := DateOnly(start), DateOnly(end)
	sign := 1
	if e.Before(s) {
		s, e = e, s
		sign = -1
	}
	years := e.Year() - s.Year()
	if e.Month() < s.Month() || (e.Month() == s.Month() && e.Day() < s.Day()) {
		years--
	}
	return sign * years
}

// AddMonths shifts t by n calendar months. When the target month is shorter
// than the source day, the result is clamped to the target month's last day
// (Jan 31 + 1 month = Feb 28/29), unlike time.AddDate which overflows.
func AddMonths(t time.Time, n int) time.Time {
	d := DateOnly(t)
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
