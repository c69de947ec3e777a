// Package special centralizes the probability-producing numeric transforms
// used to turn raw test statistics into scores. Every function clamps its
// result into [0,1]; callers never see NaN or an out-of-range probability,
// even for ill-conditioned statistics from very long or very skewed
// sequences.
package special

import (
	"math"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// GammaQ computes the regularized upper incomplete gamma function Q(a, x).
// By convention Q(a, x) is 1 for x <= 0 and 0 for a <= 0 with positive x.
func GammaQ(a, x float64) float64 {
	if x <= 0 {
		return 1.0
	}
	if a <= 0 {
		return 0.0
	}
	return Clamp01(mathext.GammaIncRegComp(a, x))
}

// Erfc computes the complementary error function, clamped into [0,1].
// math.Erfc is already bounded for finite inputs; the clamp guards the
// +/-Inf statistics an extreme sequence can produce.
func Erfc(x float64) float64 {
	if math.IsNaN(x) {
		return 0.0
	}
	return Clamp01(math.Erfc(x))
}

// NormalCDF computes the standard normal cumulative distribution at x.
func NormalCDF(x float64) float64 {
	if math.IsNaN(x) {
		return 0.0
	}
	return Clamp01(distuv.UnitNormal.CDF(x))
}

// ChiSquareSurvival computes P(X > statistic) for a chi-square variable with
// k degrees of freedom. Equivalent to GammaQ(k/2, statistic/2); kept as a
// named entry point so test code reads like the underlying standard.
func ChiSquareSurvival(statistic float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}
	return GammaQ(float64(degreesOfFreedom)/2.0, statistic/2.0)
}

// Clamp01 forces a probability-like value onto [0,1]. NaN collapses to 0,
// the conservative boundary for a score.
func Clamp01(p float64) float64 {
	if math.IsNaN(p) {
		return 0.0
	}
	if p < 0 {
		return 0.0
	}
	if p > 1 {
		return 1.0
	}
	return p
}
