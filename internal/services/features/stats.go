package features

import "math"

// Statistic helpers over a trailing window, indexed oldest (0) to newest
// (last). All of them are total: insufficient history degrades to 0 rather
// than erroring, so short windows never abort feature construction.

// Lag returns the value n positions before the newest entry, or 0 when the
// series holds fewer than n+1 values.
func Lag(xs []float64, n int) float64 {
	if n < 0 || len(xs) <= n {
		return 0
	}
	return xs[len(xs)-1-n]
}

// RollMean returns the mean of up to n values strictly preceding the newest
// entry. The newest entry is excluded so the statistic never leaks the value
// being predicted. Fewer than n prior values average over what exists; none
// at all returns 0.
func RollMean(xs []float64, n int) float64 {
	prev := preceding(xs, n)
	if len(prev) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range prev {
		sum += v
	}
	return sum / float64(len(prev))
}

// RollStd returns the sample standard deviation over the same preceding
// window as RollMean. Fewer than 2 prior values returns 0 instead of a
// non-finite result.
func RollStd(xs []float64, n int) float64 {
	prev := preceding(xs, n)
	if len(prev) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range prev {
		mean += v
	}
	mean /= float64(len(prev))

	ss := 0.0
	for _, v := range prev {
		d := v - mean
		ss += d * d
	}
	variance := ss / float64(len(prev)-1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// EWMMean returns the exponentially weighted mean over all values strictly
// preceding the newest entry. The most recent preceding value has the
// highest weight, decaying by (1-alpha) per step back; weights are
// normalized by their sum. No preceding values returns 0.
func EWMMean(xs []float64, alpha float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	prev := xs[:len(xs)-1]
	decay := 1 - alpha
	w := 1.0
	num := 0.0
	den := 0.0
	for i := len(prev) - 1; i >= 0; i-- {
		num += w * prev[i]
		den += w
		w *= decay
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// PctChange returns (newest - base) / base where base is the value n
// positions back. It returns 0 when fewer than n+1 values exist, and also
// when base is exactly 0: a zero baseline yields no signal rather than a
// division artifact.
func PctChange(xs []float64, n int) float64 {
	if n <= 0 || len(xs) <= n {
		return 0
	}
	base := xs[len(xs)-1-n]
	if base == 0 {
		return 0
	}
	return (xs[len(xs)-1] - base) / base
}

// preceding returns up to n values strictly before the newest entry.
func preceding(xs []float64, n int) []float64 {
	if len(xs) < 2 || n <= 0 {
		return nil
	}
	prev := xs[:len(xs)-1]
	if len(prev) > n {
		prev = prev[len(prev)-n:]
	}
	return prev
}
