package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/AnkushinDaniil/spdc/app"
	"github.com/AnkushinDaniil/spdc/config"
	"github.com/AnkushinDaniil/spdc/entity/mode"
	"github.com/AnkushinDaniil/spdc/server"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.WithError(err).Fatal("Invalid configuration")
	}
	log.SetLevel(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("Run failed")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	log.WithField("mode", cfg.Mode).Debug("Starting")
	switch cfg.Mode {
	case mode.Batch:
		return app.NewBatch(cfg.Input, cfg.Output, cfg.SimulateOptions()...).Run(ctx)
	case mode.Serve:
		return server.New(server.Config{
			Addr:     cfg.Addr,
			Defaults: cfg.Params,
			Simulate: cfg.SimulateOptions(),
		}).Run(ctx)
	default:
		return app.New(cfg.Output, cfg.Formats, cfg.Params, cfg.SimulateOptions()...).Run(ctx)
	}
}
