package spdc

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/AnkushinDaniil/spdc/entity/parameters"
)

const (
	// DefaultSamples is the number of waists in a sweep.
	DefaultSamples = 300
	// DefaultFloor is the smallest waist, in µm, a sweep starts at.
	DefaultFloor = 0.1
)

// Point is a (waist, rate) pair on the rate curve.
type Point struct {
	Waist float64 `json:"waist_um"`
	Rate  float64 `json:"rate"`
}

// Result holds everything derived from one parameter set.
type Result struct {
	Parameters parameters.Parameters `json:"parameters"`
	// Optimum is the closed-form optimum waist in µm.
	Optimum float64 `json:"optimum_um"`
	// OptimumXi is the focusing parameter at Optimum.
	OptimumXi float64 `json:"optimum_xi"`
	// Reference is the efficiency at Optimum that every rate is divided by.
	Reference    float64   `json:"reference"`
	Peak         Point     `json:"peak"`
	Waists       []float64 `json:"waists_um"`
	Xis          []float64 `json:"xis"`
	Efficiencies []float64 `json:"efficiencies"`
	Rates        []float64 `json:"rates"`
}

// Degenerate reports whether the curve cannot be trusted: the reference
// efficiency vanished or is not finite, or dividing by a subnormal
// reference pushed some rate to NaN or Inf.
func (r Result) Degenerate() bool {
	if r.Reference == 0 || !isFinite(r.Reference) || !isFinite(r.Peak.Rate) {
		return true
	}
	for _, rate := range r.Rates {
		if !isFinite(rate) {
			return true
		}
	}
	return false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type config struct {
	samples int
	floor   float64
}

type Option func(*config)

// WithSamples sets the sweep resolution. Values below 2 are ignored.
func WithSamples(n int) Option {
	return func(c *config) {
		if n >= 2 {
			c.samples = n
		}
	}
}

// WithFloor sets the positive lower bound of the sweep. Non-positive
// values are ignored.
func WithFloor(floor float64) Option {
	return func(c *config) {
		if floor > 0 {
			c.floor = floor
		}
	}
}

// Sweep returns samples evenly spaced waists from max(floor, optimum/2)
// to 2·optimum, both ends included. A floor at or above 2·optimum is
// ignored so the waists always increase. samples must be at least 2.
func Sweep(optimum float64, samples int, floor float64) []float64 {
	start := optimum / 2
	if floor > start && floor < optimum*2 {
		start = floor
	}
	return floats.Span(make([]float64, samples), start, optimum*2)
}

// RateCurve returns the coincidence rate at every waist, relative to the
// efficiency at optimum and scaled by brightness, power and both
// efficiencies. A normalized setup uses unit brightness and power.
func RateCurve(waists []float64, optimum float64, p parameters.Parameters) []float64 {
	lambda := p.WavelengthMicrometers()
	reference := Efficiency(optimum, p.FocalLength, lambda, p.CrystalLength)

	brightness, power := p.Brightness, p.Power
	if p.Normalized {
		brightness, power = 1, 1
	}

	rates := make([]float64, len(waists))
	for i, w := range waists {
		val := Efficiency(w, p.FocalLength, lambda, p.CrystalLength)
		rates[i] = brightness * power * p.DetectorEfficiency * p.CouplingEfficiency * val / reference
	}
	return rates
}

// Peak returns the first sample holding the largest rate.
func Peak(waists, rates []float64) Point {
	i := floats.MaxIdx(rates)
	return Point{Waist: waists[i], Rate: rates[i]}
}

// Simulate runs the whole computation for p. It does not validate p.
func Simulate(p parameters.Parameters, opts ...Option) Result {
	cfg := config{samples: DefaultSamples, floor: DefaultFloor}
	for _, opt := range opts {
		opt(&cfg)
	}

	lambda := p.WavelengthMicrometers()
	optimum := OptimumWaist(p.M2, p.FocalLength, lambda, p.InputDiameter)
	waists := Sweep(optimum, cfg.samples, cfg.floor)

	xis := make([]float64, len(waists))
	effs := make([]float64, len(waists))
	for i, w := range waists {
		xis[i] = FocusingParameter(w, p.FocalLength, lambda, p.CrystalLength)
		effs[i] = BoydKleinman(xis[i])
	}

	optimumXi := FocusingParameter(optimum, p.FocalLength, lambda, p.CrystalLength)
	rates := RateCurve(waists, optimum, p)

	return Result{
		Parameters:   p,
		Optimum:      optimum,
		OptimumXi:    optimumXi,
		Reference:    BoydKleinman(optimumXi),
		Peak:         Peak(waists, rates),
		Waists:       waists,
		Xis:          xis,
		Efficiencies: effs,
		Rates:        rates,
	}
}
