// Package spdc models the photon-pair coincidence rate of a Type-II SPDC
// source as a function of the pump beam waist.
//
// Waists and wavelengths are in micrometres; focal length, input diameter
// and crystal length are in millimetres.
package spdc

import "math"

// OptimumWaist returns the focused waist 2·M²·f·λ/(π·d) of a beam of
// diameter din passing through a lens of focal length f. The result has
// the unit of lambda.
func OptimumWaist(m2, f, lambda, din float64) float64 {
	return 2 * m2 * f * lambda / (math.Pi * din)
}

// FocusingParameter returns ξ = l/b for a waist w, where b is twice the
// Rayleigh range scaled from micrometres to millimetres. f does not enter
// the formula.
func FocusingParameter(w, f, lambda, l float64) float64 {
	zr := math.Pi * w * w / lambda
	b := 2 * zr / 1000
	return l / b
}

// BoydKleinman is a Gaussian stand-in for the Boyd–Kleinman focusing
// factor: 1 at ξ = 2, falling off with width 0.8.
func BoydKleinman(xi float64) float64 {
	d := (xi - 2) / 0.8
	return math.Exp(-d * d)
}

// Efficiency evaluates BoydKleinman at the focusing parameter of waist w.
func Efficiency(w, f, lambda, l float64) float64 {
	return BoydKleinman(FocusingParameter(w, f, lambda, l))
}
