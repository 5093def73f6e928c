package domain

import (
	"fmt"
	"time"
)

// DateLayout is the storage and display layout for date-only values.
const DateLayout = "2006-01-02"

// NormalizeDate drops the time-of-day and zone, returning midnight UTC of
// the same calendar day.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a normalized date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

// MustDate is ParseDate for literals; it panics on malformed input.
func MustDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FormatDate renders a date using DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return NormalizeDate(t).AddDate(0, 0, n)
}

// DaysBetween returns the number of calendar days from a to b (negative
// when b is before a).
func DaysBetween(a, b time.Time) int {
	// Normalized dates are whole days apart, so the division is exact.
	return int(NormalizeDate(b).Sub(NormalizeDate(a)).Hours() / 24)
}
