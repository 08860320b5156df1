package features

import (
	"errors"
	"math"
	"testing"

	"DemandCast/internal/domain/models"
)

func continuousHistory(category, start string, quantities []float64, price float64) []models.SalesRecord {
	d := day(start)
	out := make([]models.SalesRecord, len(quantities))
	for i, q := range quantities {
		out[i] = models.SalesRecord{Date: d.AddDate(0, 0, i), Category: category, Quantity: q, UnitPrice: price}
	}
	return out
}

func TestBuildBeyondHistory(t *testing.T) {
	// 90 continuous days, target 5 days past the end: the day before the
	// target is synthesized with quantity 0.
	qs := make([]float64, 90)
	for i := range qs {
		qs[i] = float64(9 + i%4)
	}
	snap := models.NewHistorySnapshot(continuousHistory("Electronics", "2023-12-01", qs, 3.0))
	last := day("2023-12-01").AddDate(0, 0, 89)
	target := last.AddDate(0, 0, 5)

	fv, err := NewBuilder(60).Build(snap, "Electronics", target)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if fv[FeatLag1] != 0 {
		t.Fatalf("lag 1 = %v, want 0 for synthesized day", fv[FeatLag1])
	}
	// Lag 7 reaches back past the 5 synthesized days into real history.
	if fv[FeatLag7] == 0 {
		t.Fatalf("lag 7 = 0, want an observed quantity")
	}
	if fv[FeatDayOfWeek] != float64((int(target.Weekday())+6)%7) {
		t.Fatalf("dayofweek = %v", fv[FeatDayOfWeek])
	}
}

func TestBuildShortHistory(t *testing.T) {
	// Three days of history and a target beyond it: statistics degrade,
	// nothing errors.
	snap := models.NewHistorySnapshot(continuousHistory("Snacks", "2024-01-01", []float64{4, 6, 8}, 1.5))
	target := day("2024-01-07")

	fv, err := NewBuilder(60).Build(snap, "Snacks", target)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Window: 4, 6, 8, 0, 0, 0, 0. Preceding values for the 7-day mean
	// are 4, 6, 8, 0, 0, 0.
	if want := 3.0; fv[FeatRollMean7] != want {
		t.Fatalf("roll mean 7 = %v, want %v", fv[FeatRollMean7], want)
	}
	if fv[FeatRollMean28] != fv[FeatRollMean7] {
		t.Fatalf("roll mean 28 = %v, want same as 7-day over short window", fv[FeatRollMean28])
	}
	for k, v := range fv {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("feature %q is non-finite: %v", k, v)
		}
	}
}

func TestBuildUnknownCategory(t *testing.T) {
	snap := models.NewHistorySnapshot(continuousHistory("Snacks", "2024-01-01", []float64{1, 2}, 1))
	fv, err := NewBuilder(60).Build(snap, "Furniture", day("2024-01-02"))
	if !errors.Is(err, ErrNoHistory) {
		t.Fatalf("err = %v, want ErrNoHistory", err)
	}
	if fv != nil {
		t.Fatalf("expected no feature vector, got %v", fv)
	}
}

func TestBuildDateTooEarly(t *testing.T) {
	snap := models.NewHistorySnapshot(continuousHistory("Snacks", "2024-01-10", []float64{1, 2, 3}, 1))
	_, err := NewBuilder(60).Build(snap, "Snacks", day("2024-01-09"))
	if !errors.Is(err, ErrDateTooEarly) {
		t.Fatalf("err = %v, want ErrDateTooEarly", err)
	}
}

func TestBuildRatioGuard(t *testing.T) {
	// All-zero demand: the 1e-6 guard keeps the ratio at exactly 0.
	snap := models.NewHistorySnapshot(continuousHistory("Dormant", "2024-01-01", []float64{0, 0, 0, 0, 0}, 2))
	fv, err := NewBuilder(60).Build(snap, "Dormant", day("2024-01-05"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if fv[FeatRatio28] != 0 {
		t.Fatalf("ratio = %v, want 0", fv[FeatRatio28])
	}
}

func TestBuildCalendarFeaturesPure(t *testing.T) {
	// 2024-03-02 is a Saturday. The calendar block depends only on the
	// target date, never on history content.
	target := day("2024-03-02")
	histories := [][]models.SalesRecord{
		continuousHistory("A", "2024-01-01", []float64{1, 2, 3}, 1),
		continuousHistory("B", "2024-02-01", []float64{50, 0, 50, 0}, 9),
	}
	for _, h := range histories {
		snap := models.NewHistorySnapshot(h)
		fv, err := NewBuilder(60).Build(snap, h[0].Category, target)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if fv[FeatDayOfWeek] != 5 || fv[FeatIsWeekend] != 1 {
			t.Fatalf("dayofweek = %v, is_weekend = %v, want 5 and 1", fv[FeatDayOfWeek], fv[FeatIsWeekend])
		}
		if fv[FeatDay] != 2 || fv[FeatMonth] != 3 || fv[FeatWeekOfYear] != 9 {
			t.Fatalf("day/month/week = %v/%v/%v", fv[FeatDay], fv[FeatMonth], fv[FeatWeekOfYear])
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	snap := models.NewHistorySnapshot(continuousHistory("Snacks", "2024-01-01", []float64{3, 1, 4, 1, 5, 9, 2, 6}, 2.5))
	target := day("2024-01-08")
	b := NewBuilder(60)

	first, err := b.Build(snap, "Snacks", target)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := b.Build(snap, "Snacks", target)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("vector sizes differ: %d vs %d", len(first), len(second))
	}
	for k, v := range first {
		if second[k] != v {
			t.Fatalf("feature %q differs: %v vs %v", k, v, second[k])
		}
	}
	// The shared snapshot must be untouched by repeated builds.
	if got := snap.Category("Snacks"); len(got) != 8 {
		t.Fatalf("snapshot mutated: len = %d", len(got))
	}
}
