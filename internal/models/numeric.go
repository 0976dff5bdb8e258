package models

import "math"

// SafeNumber maps NaN and ±Inf to 0.
func SafeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Clamp01 clamps v to [0,1]; non-finite input yields 0.
func Clamp01(v float64) float64 {
	return Clamp(SafeNumber(v), 0, 1)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Percent renders a probability as an integer 0..100.
func Percent(probability float64) int {
	return int(math.Round(Clamp01(probability) * 100))
}

// HealthValue maps a 0..1000 credit score onto the 0..100 health bar.
func HealthValue(creditScore float64) float64 {
	return Clamp(SafeNumber(creditScore)/10, 0, 100)
}
