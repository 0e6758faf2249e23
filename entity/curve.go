package entity

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/AnkushinDaniil/spdc/spdc"
)

const (
	XAxisName = "Waist (µm)"
	YAxisName = "Norm. Coincidence rate"
)

// Curve is a simulated rate curve ready to be drawn.
type Curve struct {
	name   string
	result spdc.Result
}

func NewCurve(name string, result spdc.Result) (*Curve, error) {
	if name == "" {
		return nil, errors.New("name is empty")
	}
	if len(result.Waists) == 0 {
		return nil, errors.New("curve has no samples")
	}
	n := len(result.Waists)
	if len(result.Rates) != n || len(result.Xis) != n || len(result.Efficiencies) != n {
		return nil, fmt.Errorf("curve has %d waists but %d rates, %d xis and %d efficiencies",
			n, len(result.Rates), len(result.Xis), len(result.Efficiencies))
	}
	return &Curve{name: name, result: result}, nil
}

func (c *Curve) Name() string {
	return c.name
}

func (c *Curve) Result() spdc.Result {
	return c.result
}

// Data returns the curve as [waist, rate] pairs for a value x axis.
// Non-finite rates are left out, JSON has no encoding for them.
func (c *Curve) Data() []opts.LineData {
	data := make([]opts.LineData, 0, len(c.result.Waists))
	for i, w := range c.result.Waists {
		rate := c.result.Rates[i]
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			continue
		}
		data = append(data, opts.LineData{Value: []interface{}{w, rate}})
	}
	return data
}

// Marker returns a vertical segment at waist x spanning the curve height.
func (c *Curve) Marker(x float64) []opts.LineData {
	return []opts.LineData{
		{Value: []interface{}{x, 0.0}},
		{Value: []interface{}{x, c.Top()}},
	}
}

// Top is the height reference markers are drawn to.
func (c *Curve) Top() float64 {
	top := c.result.Peak.Rate
	if math.IsNaN(top) || math.IsInf(top, 0) || top <= 0 {
		return 1
	}
	return top
}

func FormatWaist(w float64) string {
	return fmt.Sprintf("%.2f µm", w)
}

func (c *Curve) OptimumLabel() string {
	return "Optimum waist " + FormatWaist(c.result.Optimum)
}

func (c *Curve) PeakLabel() string {
	return "Peak waist " + FormatWaist(c.result.Peak.Waist)
}

func (c *Curve) Caption() string {
	return "Peak at waist " + FormatWaist(c.result.Peak.Waist)
}

// Summary returns the two headline lines shown above the plot.
func (c *Curve) Summary() []string {
	return []string{
		"Theoretical optimum waist: " + FormatWaist(c.result.Optimum),
		"Peak waist from simulation: " + FormatWaist(c.result.Peak.Waist),
	}
}
