// Package num routes all trading comparisons through exact decimal
// arithmetic. Raw float equality is never used for fill decisions.
package num

import (
	"math"

	"github.com/shopspring/decimal"
)

var eps = decimal.NewFromFloat(1e-8)

func fromFloat(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// Equal reports whether a and b differ by less than the tolerance.
func Equal(a, b float64) bool {
	return fromFloat(a).Sub(fromFloat(b)).Abs().Cmp(eps) < 0
}

// Less reports a < b beyond the tolerance.
func Less(a, b float64) bool {
	return fromFloat(b).Sub(fromFloat(a)).Cmp(eps) >= 0
}

// LessEqual reports a <= b within the tolerance.
func LessEqual(a, b float64) bool {
	return !Greater(a, b)
}

// Greater reports a > b beyond the tolerance.
func Greater(a, b float64) bool {
	return fromFloat(a).Sub(fromFloat(b)).Cmp(eps) >= 0
}

// GreaterEqual reports a >= b within the tolerance.
func GreaterEqual(a, b float64) bool {
	return !Less(a, b)
}

// IsZero reports whether v is zero within the tolerance.
func IsZero(v float64) bool { return Equal(v, 0) }

// Round rounds half away from zero to the nearest integer.
func Round(v float64) float64 {
	f, _ := fromFloat(v).Round(0).Float64()
	return f
}

// RoundInt rounds half away from zero to the nearest int64.
func RoundInt(v float64) int64 {
	return fromFloat(v).Round(0).IntPart()
}

// Min returns the smaller of a and b.
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
