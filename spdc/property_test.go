package spdc

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/AnkushinDaniil/spdc/entity/parameters"
)

func newProperties() *gopter.Properties {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	return gopter.NewProperties(params)
}

// TestOptimumWaistMonotonic checks that the optimum waist grows with M²,
// focal length and wavelength and shrinks with the input diameter.
func TestOptimumWaistMonotonic(t *testing.T) {
	properties := newProperties()

	properties.Property("increasing in M²", prop.ForAll(
		func(a, b, f, lambda, din float64) bool {
			lo, hi := math.Min(a, b), math.Max(a, b)
			return OptimumWaist(lo, f, lambda, din) <= OptimumWaist(hi, f, lambda, din)
		},
		gen.Float64Range(1, 5), gen.Float64Range(1, 5),
		gen.Float64Range(10, 500), gen.Float64Range(0.35, 0.8), gen.Float64Range(0.1, 10),
	))

	properties.Property("increasing in focal length", prop.ForAll(
		func(m2, a, b, lambda, din float64) bool {
			lo, hi := math.Min(a, b), math.Max(a, b)
			return OptimumWaist(m2, lo, lambda, din) <= OptimumWaist(m2, hi, lambda, din)
		},
		gen.Float64Range(1, 5),
		gen.Float64Range(10, 500), gen.Float64Range(10, 500),
		gen.Float64Range(0.35, 0.8), gen.Float64Range(0.1, 10),
	))

	properties.Property("increasing in wavelength", prop.ForAll(
		func(m2, f, a, b, din float64) bool {
			lo, hi := math.Min(a, b), math.Max(a, b)
			return OptimumWaist(m2, f, lo, din) <= OptimumWaist(m2, f, hi, din)
		},
		gen.Float64Range(1, 5), gen.Float64Range(10, 500),
		gen.Float64Range(0.35, 0.8), gen.Float64Range(0.35, 0.8),
		gen.Float64Range(0.1, 10),
	))

	properties.Property("decreasing in input diameter", prop.ForAll(
		func(m2, f, lambda, a, b float64) bool {
			lo, hi := math.Min(a, b), math.Max(a, b)
			return OptimumWaist(m2, f, lambda, lo) >= OptimumWaist(m2, f, lambda, hi)
		},
		gen.Float64Range(1, 5), gen.Float64Range(10, 500), gen.Float64Range(0.35, 0.8),
		gen.Float64Range(0.1, 10), gen.Float64Range(0.1, 10),
	))

	properties.TestingRun(t)
}

func TestBoydKleinmanSymmetric(t *testing.T) {
	properties := newProperties()

	properties.Property("symmetric about 2", prop.ForAll(
		func(delta float64) bool {
			return math.Abs(BoydKleinman(2+delta)-BoydKleinman(2-delta)) < 1e-12
		},
		gen.Float64Range(-10, 10),
	))

	properties.Property("bounded by the peak", prop.ForAll(
		func(xi float64) bool {
			v := BoydKleinman(xi)
			return v >= 0 && v <= BoydKleinman(2)
		},
		gen.Float64Range(-100, 100),
	))

	properties.TestingRun(t)
}

func TestFocusingParameterMonotonic(t *testing.T) {
	properties := newProperties()

	properties.Property("strictly increasing in crystal length", prop.ForAll(
		func(w, lambda, l, dl float64) bool {
			return FocusingParameter(w, 200, lambda, l) < FocusingParameter(w, 200, lambda, l+dl)
		},
		gen.Float64Range(1, 500), gen.Float64Range(0.35, 0.8),
		gen.Float64Range(1, 100), gen.Float64Range(0.01, 10),
	))

	properties.Property("strictly decreasing in waist", prop.ForAll(
		func(w, dw, lambda, l float64) bool {
			return FocusingParameter(w, 200, lambda, l) > FocusingParameter(w+dw, 200, lambda, l)
		},
		gen.Float64Range(1, 500), gen.Float64Range(0.01, 10),
		gen.Float64Range(0.35, 0.8), gen.Float64Range(1, 100),
	))

	properties.TestingRun(t)
}

func genParameters() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(1, 5),
		gen.Float64Range(350, 800),
		gen.Float64Range(10, 500),
		gen.Float64Range(0.1, 10),
		gen.Float64Range(1, 100),
		gen.Float64Range(0, 1e6),
		gen.Float64Range(0.01, 1000),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
	).Map(func(v []interface{}) parameters.Parameters {
		return parameters.Parameters{
			M2:                 v[0].(float64),
			Wavelength:         v[1].(float64),
			FocalLength:        v[2].(float64),
			InputDiameter:      v[3].(float64),
			CrystalLength:      v[4].(float64),
			Brightness:         v[5].(float64),
			Power:              v[6].(float64),
			DetectorEfficiency: v[7].(float64),
			CouplingEfficiency: v[8].(float64),
		}
	})
}

func TestRateCurveProperties(t *testing.T) {
	properties := newProperties()

	properties.Property("one rate per swept waist", prop.ForAll(
		func(p parameters.Parameters, samples int) bool {
			res := Simulate(p, WithSamples(samples))
			return len(res.Rates) == samples && len(res.Waists) == samples
		},
		genParameters(), gen.IntRange(2, 1000),
	))

	properties.Property("sweep never starts below the floor", prop.ForAll(
		func(p parameters.Parameters) bool {
			return Simulate(p).Waists[0] >= DefaultFloor
		},
		genParameters(),
	))

	properties.Property("normalized curve ignores brightness and power", prop.ForAll(
		func(p parameters.Parameters, brightness, power float64) bool {
			p.Normalized = true
			q := p
			q.Brightness, q.Power = brightness, power
			a, b := Simulate(p).Rates, Simulate(q).Rates
			for i := range a {
				if a[i] != b[i] && !(math.IsNaN(a[i]) && math.IsNaN(b[i])) {
					return false
				}
			}
			return true
		},
		genParameters(), gen.Float64Range(0, 1e6), gen.Float64Range(0.01, 1000),
	))

	properties.Property("absolute curve doubles with power", prop.ForAll(
		func(p parameters.Parameters) bool {
			p.Normalized = false
			res := Simulate(p)
			if res.Degenerate() {
				return true
			}
			q := p
			q.Power *= 2
			doubled := RateCurve(res.Waists, res.Optimum, q)
			for i, r := range res.Rates {
				// subnormal products may round differently once doubled
				if math.Abs(doubled[i]-2*r) > 1e-12*math.Abs(2*r)+1e-300 {
					return false
				}
			}
			return true
		},
		genParameters(),
	))

	properties.TestingRun(t)
}
