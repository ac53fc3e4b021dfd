package period

import (
	"fmt"
	"regexp"
	"time"
)

// Layout is the YYYY-MM form used for payroll months.
const Layout = "2006-01"

var monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// IsValidMonth reports whether s is a YYYY-MM month.
func IsValidMonth(s string) bool {
	return monthRegex.MatchString(s)
}

// Month formats t as YYYY-MM in t's location.
func Month(t time.Time) string {
	return t.Format(Layout)
}

// Bounds returns the first day of month and the first day of the next month,
// both at midnight in loc.
func Bounds(month string, loc *time.Location) (time.Time, time.Time, error) {
	if !IsValidMonth(month) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", month)
	}
	start, err := time.ParseInLocation(Layout, month, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse month %q: %w", month, err)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// Date truncates t to midnight in t's location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ClockOn returns the HH:MM clock time on the calendar day of t.
func ClockOn(t time.Time, clock string) (time.Time, error) {
	c, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock %q, expected HH:MM: %w", clock, err)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, t.Location()), nil
}
