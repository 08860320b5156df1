package features

import (
	"fmt"
	"math"
	"time"

	"DemandCast/internal/domain/models"
	"DemandCast/pkg/util"
)

// Feature names produced by Build. These strings are the contract with the
// trained model artifact and must match its schema byte for byte.
const (
	FeatLag1       = "Quantity_lag_1"
	FeatLag7       = "Quantity_lag_7"
	FeatLag28      = "Quantity_lag_28"
	FeatRollMean7  = "Quantity_roll_mean_7"
	FeatRollMean14 = "Quantity_roll_mean_14"
	FeatRollMean28 = "Quantity_roll_mean_28"
	FeatRollStd7   = "Quantity_roll_std_7"
	FeatRollStd14  = "Quantity_roll_std_14"
	FeatRollStd28  = "Quantity_roll_std_28"
	FeatEWM        = "Quantity_ewm_0.3"
	FeatPricePct7  = "price pct change 7d"
	FeatRatio28    = "ratio_to_cat_28d"
	FeatDay        = "day"
	FeatMonth      = "month"
	FeatDayOfWeek  = "dayofweek"
	FeatIsWeekend  = "is_weekend"
	FeatWeekOfYear = "week_of_year"
)

// DefaultHistoryDays is the trailing window length used when none is
// configured.
const DefaultHistoryDays = 60

const ewmAlpha = 0.3

// ratioEps keeps the demand ratio finite when the 28-day mean is zero.
const ratioEps = 1e-6

// Builder constructs model-ready feature vectors from a history snapshot.
type Builder struct {
	historyDays int
}

// NewBuilder returns a Builder using a trailing window of historyDays days.
// Non-positive values fall back to DefaultHistoryDays.
func NewBuilder(historyDays int) *Builder {
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}
	return &Builder{historyDays: historyDays}
}

// HistoryDays returns the configured trailing window length.
func (b *Builder) HistoryDays() int { return b.historyDays }

// Build produces the feature vector for one category on one target date.
// The category's history is repaired into a continuous daily series,
// extended with zero-demand days up to target when target lies beyond it,
// then trimmed to the trailing window before statistics are computed.
// Targets before the category's first observation fail with ErrDateTooEarly;
// unknown categories fail with ErrNoHistory.
func (b *Builder) Build(snapshot *models.HistorySnapshot, category string, target time.Time) (models.FeatureVector, error) {
	records := snapshot.Category(category)
	if len(records) == 0 {
		return nil, fmt.Errorf("category %q: %w", category, ErrNoHistory)
	}

	series, err := Repair(records)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", category, err)
	}
	target = util.Day(target)
	series = Extend(series, target)

	window, err := SelectWindow(series, target, b.historyDays)
	if err != nil {
		return nil, fmt.Errorf("category %q target %s: %w", category, util.FormatDay(target), err)
	}

	qty := Quantities(window)
	prices := Prices(window)
	lastQty := qty[len(qty)-1]
	rollMean28 := RollMean(qty, 28)

	fv := models.FeatureVector{
		FeatLag1:       Lag(qty, 1),
		FeatLag7:       Lag(qty, 7),
		FeatLag28:      Lag(qty, 28),
		FeatRollMean7:  RollMean(qty, 7),
		FeatRollMean14: RollMean(qty, 14),
		FeatRollMean28: rollMean28,
		FeatRollStd7:   RollStd(qty, 7),
		FeatRollStd14:  RollStd(qty, 14),
		FeatRollStd28:  RollStd(qty, 28),
		FeatEWM:        EWMMean(qty, ewmAlpha),
		FeatPricePct7:  PctChange(prices, 7),
		FeatRatio28:    lastQty / (rollMean28 + ratioEps),
		FeatDay:        float64(target.Day()),
		FeatMonth:      float64(int(target.Month())),
		FeatDayOfWeek:  float64(util.DayOfWeek(target)),
		FeatIsWeekend:  boolFeature(util.IsWeekend(target)),
		FeatWeekOfYear: float64(util.ISOWeek(target)),
	}

	sanitize(fv)
	return fv, nil
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// sanitize replaces non-finite values in place. The model contract requires
// every feature to be a finite float.
func sanitize(fv models.FeatureVector) {
	for k, v := range fv {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			fv[k] = 0
		}
	}
}
