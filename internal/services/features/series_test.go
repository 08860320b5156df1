package features

import (
	"testing"
	"time"

	"DemandCast/internal/domain/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(date string, qty, price float64) models.SalesRecord {
	return models.SalesRecord{Date: day(date), Category: "Beverages", Quantity: qty, UnitPrice: price}
}

func TestRepairFillsGaps(t *testing.T) {
	in := []models.SalesRecord{
		rec("2024-01-05", 3, 2.5),
		rec("2024-01-01", 10, 2.0),
		rec("2024-01-03", 4, 0),
	}

	out, err := Repair(in)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if len(out) != 5 {
		t.Fatalf("len = %d, want 5", len(out))
	}
	for i, r := range out {
		want := day("2024-01-01").AddDate(0, 0, i)
		if !r.Date.Equal(want) {
			t.Fatalf("row %d date = %v, want %v", i, r.Date, want)
		}
		if r.Category != "Beverages" {
			t.Fatalf("row %d category = %q", i, r.Category)
		}
	}
	// Synthesized days have zero quantity and a forward-filled price.
	if out[1].Quantity != 0 || out[1].UnitPrice != 2.0 {
		t.Fatalf("gap row = %+v", out[1])
	}
	// Observed row with missing price takes the last seen price.
	if out[2].Quantity != 4 || out[2].UnitPrice != 2.0 {
		t.Fatalf("ffill row = %+v", out[2])
	}
	if out[4].UnitPrice != 2.5 {
		t.Fatalf("last price = %v, want 2.5", out[4].UnitPrice)
	}
}

func TestRepairCollapsesDuplicateDates(t *testing.T) {
	in := []models.SalesRecord{
		rec("2024-01-01", 2, 1.0),
		rec("2024-01-01", 3, 1.5),
	}
	out, err := Repair(in)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if out[0].Quantity != 5 || out[0].UnitPrice != 1.5 {
		t.Fatalf("collapsed row = %+v", out[0])
	}
}

func TestRepairBackfillsLeadingPrice(t *testing.T) {
	in := []models.SalesRecord{
		rec("2024-01-01", 1, 0),
		rec("2024-01-03", 2, 4.0),
	}
	out, err := Repair(in)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if out[0].UnitPrice != 4.0 || out[1].UnitPrice != 4.0 {
		t.Fatalf("leading prices = %v, %v, want 4.0", out[0].UnitPrice, out[1].UnitPrice)
	}
}

func TestRepairIdempotent(t *testing.T) {
	in := []models.SalesRecord{
		rec("2024-01-01", 10, 2.0),
		rec("2024-01-04", 6, 2.2),
	}
	once, err := Repair(in)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	twice, err := Repair(once)
	if err != nil {
		t.Fatalf("Repair twice: %v", err)
	}
	if len(once) != len(twice) {
		t.Fatalf("lengths differ: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("row %d differs: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestRepairEmpty(t *testing.T) {
	if _, err := Repair(nil); err != ErrNoHistory {
		t.Fatalf("err = %v, want ErrNoHistory", err)
	}
}

func TestExtend(t *testing.T) {
	base, err := Repair([]models.SalesRecord{
		rec("2024-01-01", 10, 2.0),
		rec("2024-01-02", 5, 2.5),
	})
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}

	ext := Extend(base, day("2024-01-05"))
	if len(ext) != 5 {
		t.Fatalf("len = %d, want 5", len(ext))
	}
	for _, r := range ext[2:] {
		if r.Quantity != 0 || r.UnitPrice != 2.5 || r.Category != "Beverages" {
			t.Fatalf("appended row = %+v", r)
		}
	}
	if !ext[4].Date.Equal(day("2024-01-05")) {
		t.Fatalf("last date = %v", ext[4].Date)
	}

	// Target at or before the series end changes nothing.
	if got := Extend(base, day("2024-01-02")); len(got) != 2 {
		t.Fatalf("no-op extend len = %d, want 2", len(got))
	}
	if got := Extend(ext, day("2024-01-05")); len(got) != 5 {
		t.Fatalf("repeat extend len = %d, want 5", len(got))
	}
}

func TestSelectWindow(t *testing.T) {
	base, err := Repair([]models.SalesRecord{
		rec("2024-01-01", 1, 1.0),
		rec("2024-01-10", 2, 1.0),
	})
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}

	win, err := SelectWindow(base, day("2024-01-10"), 3)
	if err != nil {
		t.Fatalf("SelectWindow: %v", err)
	}
	if len(win) != 4 {
		t.Fatalf("len = %d, want 4", len(win))
	}
	if !win[len(win)-1].Date.Equal(day("2024-01-10")) {
		t.Fatalf("window end = %v", win[len(win)-1].Date)
	}

	// Short history degrades to what exists.
	win, err = SelectWindow(base, day("2024-01-03"), 60)
	if err != nil {
		t.Fatalf("SelectWindow short: %v", err)
	}
	if len(win) != 3 {
		t.Fatalf("short len = %d, want 3", len(win))
	}

	if _, err := SelectWindow(base, day("2023-12-25"), 60); err != ErrDateTooEarly {
		t.Fatalf("err = %v, want ErrDateTooEarly", err)
	}
}
