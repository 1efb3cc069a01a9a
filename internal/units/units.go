// Package units converts OOXML length units to CSS pixels.
//
// KP3-style precision note (see convert/kfx/kp3_units.go in the ancestor
// converter this package's constants are modeled on): values are rounded to
// a fixed number of significant figures rather than a fixed number of
// decimal places, so small and large magnitudes both round sensibly.
package units

import "math"

const (
	// PxPerTwip converts twentieths-of-a-point (twips) to CSS pixels.
	PxPerTwip = 1.3333333

	// PxPerHalfPoint converts half-points (font sizes) to CSS pixels.
	PxPerHalfPoint = 0.5 * PxPerTwip

	// PxPerEighthPoint converts eighths-of-a-point (border widths) to CSS pixels.
	PxPerEighthPoint = 0.125 * PxPerTwip

	// SignificantFigures is the rounding precision applied to derived pixel
	// values so that repeated conversions are stable (needed for the
	// paginator's byte-equal-Layout-on-repeat-invocation property, spec §8.9).
	SignificantFigures = 6
)

// TwipsToPx converts twentieths-of-a-point to pixels.
func TwipsToPx(twips float64) float64 {
	return roundSigFigs(twips*PxPerTwip, SignificantFigures)
}

// HalfPointsToPx converts half-points to pixels.
func HalfPointsToPx(halfPoints float64) float64 {
	return roundSigFigs(halfPoints*PxPerHalfPoint, SignificantFigures)
}

// EighthsToPx converts eighths-of-a-point to pixels.
func EighthsToPx(eighths float64) float64 {
	return roundSigFigs(eighths*PxPerEighthPoint, SignificantFigures)
}

// roundSigFigs rounds v to n significant figures. Zero is returned as-is.
func roundSigFigs(v float64, n int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	mag := math.Ceil(math.Log10(math.Abs(v)))
	power := float64(n) - mag
	scale := math.Pow(10, power)
	return math.Round(v*scale) / scale
}
