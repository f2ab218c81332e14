// Package utils contains small numeric and error helpers shared by the filter packages.
package utils

import (
	"math"
)

// IsFinite reports whether every value is neither NaN nor infinite.
func IsFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Lerp interpolates linearly between a (alpha 0) and b (alpha 1).
func Lerp(a, b, alpha float64) float64 {
	return (1-alpha)*a + alpha*b
}
