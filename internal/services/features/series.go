package features

import (
	"sort"
	"time"

	"DemandCast/internal/domain/models"
	"DemandCast/pkg/util"
)

// Repair turns an irregular per-category history into a continuous daily
// series covering every day from the first to the last observed date.
// Days absent from the input are synthesized with quantity 0; category and
// unit price are forward-filled, then back-filled. Duplicate dates are
// collapsed by summing quantity and keeping the last price. All input
// records are expected to share one category.
func Repair(records []models.SalesRecord) ([]models.SalesRecord, error) {
	if len(records) == 0 {
		return nil, ErrNoHistory
	}

	rs := make([]models.SalesRecord, len(records))
	copy(rs, records)
	for i := range rs {
		rs[i].Date = util.Day(rs[i].Date)
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Date.Before(rs[j].Date) })

	observed := collapseDuplicateDates(rs)

	first := observed[0].Date
	last := observed[len(observed)-1].Date
	out := make([]models.SalesRecord, 0, util.DaysBetween(first, last)+1)

	category := observed[0].Category
	price := 0.0
	idx := 0
	for d := first; !d.After(last); d = util.AddDays(d, 1) {
		if idx < len(observed) && observed[idx].Date.Equal(d) {
			r := observed[idx]
			idx++
			if r.Category != "" {
				category = r.Category
			} else {
				r.Category = category
			}
			if r.UnitPrice != 0 {
				price = r.UnitPrice
			} else {
				r.UnitPrice = price
			}
			out = append(out, r)
			continue
		}
		out = append(out, models.SalesRecord{
			Date:      d,
			Category:  category,
			Quantity:  0,
			UnitPrice: price,
		})
	}

	backfillLeading(out)
	return out, nil
}

// collapseDuplicateDates merges same-day rows: quantities sum, the last
// observed price wins. Input must be sorted by date.
func collapseDuplicateDates(rs []models.SalesRecord) []models.SalesRecord {
	out := make([]models.SalesRecord, 0, len(rs))
	for _, r := range rs {
		if n := len(out); n > 0 && out[n-1].Date.Equal(r.Date) {
			out[n-1].Quantity += r.Quantity
			if r.UnitPrice != 0 {
				out[n-1].UnitPrice = r.UnitPrice
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// backfillLeading fills category/price on leading rows that had nothing to
// forward-fill from, using the first later row that carries a value.
func backfillLeading(series []models.SalesRecord) {
	var category string
	price := 0.0
	for i := len(series) - 1; i >= 0; i-- {
		if series[i].Category != "" {
			category = series[i].Category
		} else {
			series[i].Category = category
		}
		if series[i].UnitPrice != 0 {
			price = series[i].UnitPrice
		} else {
			series[i].UnitPrice = price
		}
	}
}

// Extend appends zero-quantity days through target inclusive when target
// lies beyond the last date of the series. Appended days carry the last
// known unit price. A target at or before the series end is a no-op, which
// also makes Extend idempotent.
func Extend(series []models.SalesRecord, target time.Time) []models.SalesRecord {
	if len(series) == 0 {
		return series
	}
	target = util.Day(target)
	last := series[len(series)-1]
	if !target.After(last.Date) {
		return series
	}
	out := make([]models.SalesRecord, len(series), len(series)+util.DaysBetween(last.Date, target))
	copy(out, series)
	for d := util.AddDays(last.Date, 1); !d.After(target); d = util.AddDays(d, 1) {
		out = append(out, models.SalesRecord{
			Date:      d,
			Category:  last.Category,
			Quantity:  0,
			UnitPrice: last.UnitPrice,
		})
	}
	return out
}

// SelectWindow returns the trailing rows of a continuous series ending at
// the last day at or before target, capped at maxDays+1 rows. The extra row
// keeps a lag of maxDays computable. A target before the series start fails
// with ErrDateTooEarly; a short series degrades to however many rows exist.
func SelectWindow(series []models.SalesRecord, target time.Time, maxDays int) ([]models.SalesRecord, error) {
	target = util.Day(target)
	n := sort.Search(len(series), func(i int) bool { return series[i].Date.After(target) })
	if n == 0 {
		return nil, ErrDateTooEarly
	}
	win := series[:n]
	if len(win) > maxDays+1 {
		win = win[len(win)-(maxDays+1):]
	}
	return win, nil
}

// Quantities extracts the quantity sub-sequence, oldest first.
func Quantities(series []models.SalesRecord) []float64 {
	out := make([]float64, len(series))
	for i, r := range series {
		out[i] = r.Quantity
	}
	return out
}

// Prices extracts the unit price sub-sequence, oldest first.
func Prices(series []models.SalesRecord) []float64 {
	out := make([]float64, len(series))
	for i, r := range series {
		out[i] = r.UnitPrice
	}
	return out
}
