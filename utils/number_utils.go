package utils

import "math"

// Round2 rounds a value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GrowthPct returns the percentage change from previous to current, rounded
// to two decimal places. Defined as 0 when previous is 0.
func GrowthPct(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return Round2((current - previous) / previous * 100)
}
