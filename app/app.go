package app

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/AnkushinDaniil/spdc/entity"
	"github.com/AnkushinDaniil/spdc/entity/format"
	"github.com/AnkushinDaniil/spdc/entity/parameters"
	"github.com/AnkushinDaniil/spdc/render"
	"github.com/AnkushinDaniil/spdc/spdc"
)

// CurveName labels the rate curve in every output.
const CurveName = "Coincidence rate"

type App struct {
	Output  string
	Formats []format.Format
	Params  parameters.Parameters
	Options []spdc.Option
}

func New(output string, formats []format.Format, params parameters.Parameters, opts ...spdc.Option) *App {
	return &App{
		Output:  output,
		Formats: formats,
		Params:  params,
		Options: opts,
	}
}

// Run simulates the configured setup and writes one file per format.
func (a *App) Run(ctx context.Context) error {
	appTime := time.Now()
	defer func() {
		log.WithField("time", time.Since(appTime)).Debug("App finished")
	}()
	log.WithFields(log.Fields{
		"output":     a.Output,
		"formats":    a.Formats,
		"m2":         a.Params.M2,
		"wavelength": a.Params.Wavelength,
		"focal":      a.Params.FocalLength,
		"diameter":   a.Params.InputDiameter,
		"crystal":    a.Params.CrystalLength,
		"normalized": a.Params.Normalized,
	}).Debug("App started")

	curve, err := Simulate(a.Params, a.Options...)
	if err != nil {
		return fmt.Errorf("failed to simulate curve: %w", err)
	}
	for _, line := range curve.Summary() {
		log.Info(line)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range a.Formats {
		f := f
		g.Go(func() error {
			return a.write(ctx, f, curve)
		})
	}
	return g.Wait()
}

// Simulate runs the computation and wraps the result for rendering.
func Simulate(p parameters.Parameters, opts ...spdc.Option) (*entity.Curve, error) {
	startTime := time.Now()
	res := spdc.Simulate(p, opts...)
	log.WithFields(log.Fields{
		"time":    time.Since(startTime),
		"samples": len(res.Waists),
		"optimum": res.Optimum,
		"peak":    res.Peak.Waist,
		"xi":      res.OptimumXi,
	}).Debug("Curve simulated")

	if res.Degenerate() {
		log.WithFields(log.Fields{
			"reference": res.Reference,
			"xi":        res.OptimumXi,
		}).Warn("Efficiency at the optimum waist vanished, rates are not finite")
	}
	return entity.NewCurve(CurveName, res)
}

func (a *App) write(ctx context.Context, f format.Format, curve *entity.Curve) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r, err := render.For(f)
	if err != nil {
		return err
	}

	path := a.Output + f.Ext()
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	renderTime := time.Now()
	if err := r.Render(file, curve); err != nil {
		return fmt.Errorf("failed to render %s: %w", f, err)
	}
	log.WithFields(log.Fields{
		"path": path,
		"time": time.Since(renderTime),
	}).Info("Chart rendered and saved")
	return nil
}
