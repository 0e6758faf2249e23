package spdc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnkushinDaniil/spdc/entity/parameters"
)

func TestOptimumWaist(t *testing.T) {
	got := OptimumWaist(1.1, 200, 0.405, 2)
	assert.InDelta(t, 2*1.1*200*0.405/(math.Pi*2), got, 1e-12)
	assert.InDelta(t, 28.36, got, 0.01)
}

func TestFocusingParameter(t *testing.T) {
	// b = 2·π·w²/λ/1000 = 12.5 mm for w² = 6250·λ/π
	w := math.Sqrt(6250 * 0.405 / math.Pi)
	assert.InDelta(t, 2.0, FocusingParameter(w, 200, 0.405, 25), 1e-12)
	assert.InDelta(t, 4.0, FocusingParameter(w, 200, 0.405, 50), 1e-12)
	assert.InDelta(t, 0.5, FocusingParameter(2*w, 200, 0.405, 25), 1e-12)
}

func TestBoydKleinman(t *testing.T) {
	assert.Equal(t, 1.0, BoydKleinman(2))
	assert.InDelta(t, math.Exp(-1), BoydKleinman(2.8), 1e-12)
	assert.InDelta(t, math.Exp(-1), BoydKleinman(1.2), 1e-12)
	assert.Less(t, BoydKleinman(10), 1e-40)
}

func TestSweep(t *testing.T) {
	waists := Sweep(28, 300, DefaultFloor)
	require.Len(t, waists, 300)
	assert.Equal(t, 14.0, waists[0])
	assert.InDelta(t, 56.0, waists[len(waists)-1], 1e-12)
	for i := 1; i < len(waists); i++ {
		assert.Greater(t, waists[i], waists[i-1])
	}
}

func TestSweepFloor(t *testing.T) {
	tests := []struct {
		name    string
		optimum float64
		floor   float64
		first   float64
	}{
		{"half above floor", 1, 0.1, 0.5},
		{"half below floor", 0.15, 0.1, 0.1},
		{"custom floor", 1.5, 1, 1},
		{"floor at the upper end", 1, 2, 0.5},
		{"floor past the upper end", 1, 5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			waists := Sweep(tt.optimum, 50, tt.floor)
			assert.Equal(t, tt.first, waists[0])
			assert.InDelta(t, tt.optimum*2, waists[len(waists)-1], 1e-12)
			assert.Greater(t, waists[0], 0.0)
			for i := 1; i < len(waists); i++ {
				assert.Greater(t, waists[i], waists[i-1])
			}
		})
	}
}

func TestPeakFirstIndexWins(t *testing.T) {
	waists := []float64{1, 2, 3, 4, 5}
	rates := []float64{0.1, 0.7, 0.3, 0.7, 0.2}
	assert.Equal(t, Point{Waist: 2, Rate: 0.7}, Peak(waists, rates))
}

func TestRateCurveNormalizedAtOptimum(t *testing.T) {
	p := parameters.Default()
	optimum := OptimumWaist(p.M2, p.FocalLength, p.WavelengthMicrometers(), p.InputDiameter)
	rates := RateCurve([]float64{optimum}, optimum, p)
	require.Len(t, rates, 1)
	assert.InDelta(t, p.DetectorEfficiency*p.CouplingEfficiency, rates[0], 1e-15)
}

func TestRateCurveScalesWithPowerAndBrightness(t *testing.T) {
	p := parameters.Default()
	p.Normalized = false
	res := Simulate(p)

	doubled := p
	doubled.Power *= 2
	byPower := RateCurve(res.Waists, res.Optimum, doubled)

	doubled = p
	doubled.Brightness *= 2
	byBrightness := RateCurve(res.Waists, res.Optimum, doubled)

	for i, r := range res.Rates {
		assert.Equal(t, 2*r, byPower[i])
		assert.Equal(t, 2*r, byBrightness[i])
	}
}

func TestRateCurveNormalizedIgnoresPowerAndBrightness(t *testing.T) {
	p := parameters.Default()
	res := Simulate(p)

	other := p
	other.Power = 900
	other.Brightness = 12
	assert.Equal(t, res.Rates, Simulate(other).Rates)
}

func TestSimulateDefaultScenario(t *testing.T) {
	res := Simulate(parameters.Default())

	assert.InDelta(t, 28.36, res.Optimum, 0.01)
	require.Len(t, res.Waists, DefaultSamples)
	assert.Len(t, res.Rates, DefaultSamples)
	assert.Len(t, res.Xis, DefaultSamples)
	assert.Len(t, res.Efficiencies, DefaultSamples)
	assert.InDelta(t, res.Optimum/2, res.Waists[0], 1e-12)
	assert.InDelta(t, res.Optimum*2, res.Waists[DefaultSamples-1], 1e-12)

	assert.Less(t, math.Abs(res.Peak.Waist-res.Optimum)/res.Optimum, 0.1)
	assert.InDelta(t, 0.65*0.11, res.Peak.Rate, 1e-3)
	assert.InDelta(t, 2.0, res.OptimumXi, 0.01)
	assert.False(t, res.Degenerate())

	for _, r := range res.Rates {
		assert.GreaterOrEqual(t, r, 0.0)
	}
}

func TestSimulateOptions(t *testing.T) {
	res := Simulate(parameters.Default(), WithSamples(25), WithFloor(20))
	require.Len(t, res.Waists, 25)
	assert.Equal(t, 20.0, res.Waists[0])

	res = Simulate(parameters.Default(), WithSamples(1), WithFloor(-3))
	require.Len(t, res.Waists, DefaultSamples)
	assert.InDelta(t, res.Optimum/2, res.Waists[0], 1e-12)

	res = Simulate(parameters.Default(), WithFloor(100))
	assert.InDelta(t, res.Optimum/2, res.Waists[0], 1e-12)
	assert.InDelta(t, res.Optimum*2, res.Waists[len(res.Waists)-1], 1e-12)
	for i := 1; i < len(res.Waists); i++ {
		assert.Greater(t, res.Waists[i], res.Waists[i-1])
	}
}

func TestSimulateDegenerateReference(t *testing.T) {
	p := parameters.Parameters{
		M2:                 1,
		Wavelength:         350,
		FocalLength:        10,
		InputDiameter:      10,
		CrystalLength:      100,
		Brightness:         1,
		Power:              1,
		DetectorEfficiency: 1,
		CouplingEfficiency: 1,
		Normalized:         true,
	}
	res := Simulate(p)
	assert.True(t, res.Degenerate())
	assert.Zero(t, res.Reference)
}

func TestSimulateSubnormalReference(t *testing.T) {
	p := parameters.Default()
	p.CrystalLength = 100
	p.DetectorEfficiency = 1
	p.CouplingEfficiency = 1
	p.FocalLength = 115.96
	require.NoError(t, p.Validate())

	res := Simulate(p)
	assert.Less(t, res.Reference, 1e-300)
	assert.True(t, res.Degenerate())
}

func TestDegenerateNonFiniteRate(t *testing.T) {
	res := Simulate(parameters.Default())
	require.False(t, res.Degenerate())

	withInf := res
	withInf.Rates = append([]float64(nil), res.Rates...)
	withInf.Rates[10] = math.Inf(1)
	assert.True(t, withInf.Degenerate())

	withNaNPeak := res
	withNaNPeak.Peak.Rate = math.NaN()
	assert.True(t, withNaNPeak.Degenerate())
}
