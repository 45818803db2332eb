package helper

import "math"

// Round2 rounds half away from zero to 2 decimals.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Percent is part/whole×100 rounded to 2 decimals, 0 when whole is 0.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return Round2(part / whole * 100)
}
