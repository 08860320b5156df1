package util

import (
    "time"
)

// DayLayout is the wire format for calendar dates.
const DayLayout = "2006-01-02"

// ParseDay tries YYYY-MM-DD first, then RFC3339. Returns (t, true) if any worked.
// The result is truncated to midnight UTC.
func ParseDay(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(DayLayout, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return Day(t), true
    }
    return time.Time{}, false
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b (negative if b precedes a).
func DaysBetween(a, b time.Time) int {
    return int(Day(b).Sub(Day(a)) / (24 * time.Hour))
}

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
    return Day(t).AddDate(0, 0, n)
}

// DayOfWeek returns the weekday with Monday=0 .. Sunday=6.
func DayOfWeek(t time.Time) int {
    return (int(t.Weekday()) + 6) % 7
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
    wd := t.Weekday()
    return wd == time.Saturday || wd == time.Sunday
}

// ISOWeek returns the ISO-8601 week-of-year for t.
func ISOWeek(t time.Time) int {
    _, week := t.ISOWeek()
    return week
}

// FormatDay renders t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
    return t.UTC().Format(DayLayout)
}
