package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/AnkushinDaniil/spdc/entity"
)

var (
	curveColor   = color.RGBA{B: 255, A: 255}
	optimumColor = color.RGBA{R: 220, A: 255}
	peakColor    = color.RGBA{G: 160, A: 255}
)

// PNG writes a static 10x6 inch plot.
func PNG(w io.Writer, c *entity.Curve) error {
	p, err := NewPlot(c)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(10*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to encode plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

func NewPlot(c *entity.Curve) (*plot.Plot, error) {
	r := c.Result()

	p := plot.New()
	p.Title.Text = Title + "\n" + c.Caption()
	p.X.Label.Text = entity.XAxisName
	p.Y.Label.Text = entity.YAxisName
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	if xys := finite(r.Waists, r.Rates); len(xys) > 1 {
		curve, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to create curve: %w", err)
		}
		curve.LineStyle.Width = vg.Points(2)
		curve.LineStyle.Color = curveColor
		p.Add(curve)
	}

	markers := []struct {
		label  string
		x      float64
		col    color.Color
		dashes []vg.Length
	}{
		{c.OptimumLabel(), r.Optimum, optimumColor, []vg.Length{vg.Points(6), vg.Points(4)}},
		{c.PeakLabel(), r.Peak.Waist, peakColor, []vg.Length{vg.Points(2), vg.Points(3)}},
	}
	for _, m := range markers {
		l, err := plotter.NewLine(plotter.XYs{{X: m.x, Y: 0}, {X: m.x, Y: c.Top()}})
		if err != nil {
			return nil, fmt.Errorf("failed to create marker: %w", err)
		}
		l.LineStyle.Width = vg.Points(2)
		l.LineStyle.Color = m.col
		l.LineStyle.Dashes = m.dashes
		p.Add(l)
		p.Legend.Add(m.label, l)
	}
	return p, nil
}

// finite drops samples gonum cannot draw.
func finite(xs, ys []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: xs[i], Y: ys[i]})
	}
	return xys
}
