// Package aggregate folds canonical quality entities into per-domain summaries.
//
// Every fold is pure. Ratios are percentages clamped to [0,100] and are 0 whenever the
// denominator is zero, so summaries can be rendered without further checks.
package aggregate

import (
	"math"
)

// Percent returns num/den*100 clamped to [0,100]; 0 for a non-positive or non-finite denominator
func Percent(num, den float64) float64 {
	if den <= 0 || math.IsNaN(den) || math.IsInf(den, 0) || math.IsNaN(num) {
		return 0
	}
	return clamp(num / den * 100)
}

// Mean returns the arithmetic mean, or 0 for an empty input
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return finite(sum / float64(len(values)))
}

// Round2 rounds to two decimals for display
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
