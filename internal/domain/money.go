package domain

import "math"

// MoneyTolerance is the absolute difference below which two amounts are equal.
const MoneyTolerance = 0.01

// Round2 rounds half away from zero to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MoneyEqual compares two amounts with MoneyTolerance.
func MoneyEqual(a, b float64) bool {
	return math.Abs(a-b) < MoneyTolerance
}
