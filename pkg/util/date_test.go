package util

import (
    "testing"
    "time"
)

func TestParseDay(t *testing.T) {
    got, ok := ParseDay("2024-03-02")
    if !ok {
        t.Fatalf("expected ok")
    }
    want := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseDayRFC3339(t *testing.T) {
    got, ok := ParseDay("2024-03-02T15:04:05Z")
    if !ok {
        t.Fatalf("expected ok")
    }
    if !got.Equal(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)) {
        t.Fatalf("expected midnight truncation, got %v", got)
    }
}

func TestParseDayInvalid(t *testing.T) {
    if _, ok := ParseDay("02/03/2024"); ok {
        t.Fatalf("expected parse failure")
    }
    if _, ok := ParseDay(""); ok {
        t.Fatalf("expected parse failure for empty input")
    }
}

func TestDaysBetween(t *testing.T) {
    a := time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)
    b := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
    if d := DaysBetween(a, b); d != 4 {
        t.Fatalf("expected 4 days across leap boundary, got %d", d)
    }
    if d := DaysBetween(b, a); d != -4 {
        t.Fatalf("expected -4, got %d", d)
    }
}

func TestDayOfWeekMondayZero(t *testing.T) {
    // 2024-03-02 is a Saturday.
    sat := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
    if DayOfWeek(sat) != 5 {
        t.Fatalf("expected Saturday=5, got %d", DayOfWeek(sat))
    }
    if !IsWeekend(sat) {
        t.Fatalf("expected weekend")
    }
    mon := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
    if DayOfWeek(mon) != 0 {
        t.Fatalf("expected Monday=0, got %d", DayOfWeek(mon))
    }
    if IsWeekend(mon) {
        t.Fatalf("monday is not a weekend")
    }
}

func TestISOWeek(t *testing.T) {
    // 2024-01-01 is a Monday, ISO week 1.
    if w := ISOWeek(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)); w != 1 {
        t.Fatalf("expected week 1, got %d", w)
    }
}
