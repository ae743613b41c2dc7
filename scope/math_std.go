//go:build !fastmath

package scope

import "math"

func mathSqrt(x float64) float64 {
	return math.Sqrt(x)
}

func mathLog10(x float64) float64 {
	return math.Log10(x)
}
