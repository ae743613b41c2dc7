//go:build fastmath

package scope

import (
	"github.com/meko-christian/algo-approx"
)

const ln10 = 2.302585092994045684017991454684

func mathSqrt(x float64) float64 {
	return approx.FastSqrt(x)
}

// mathLog10 uses log10(x) = ln(x) / ln(10).
func mathLog10(x float64) float64 {
	return approx.FastLog(x) / ln10
}
