// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

// Package main is the Vintner command line.
//
// Vintner answers five questions about a wine catalog: which vintages of a
// wine were rated, which wines are most similar to a wine vintage, what one
// vintage or every rated vintage will score in a given year, and what a
// region's weather will be over the coming months.
//
// # Usage
//
//	vintner [global flags] <command> [command flags]
//
// Commands:
//
//	vintages     -wine-id N
//	compare      -wine-id N -vintage YYYY [-nb-wines K]
//	predict      -wine-id N -rating-year YYYY [-batch-vintage YYYY]
//	predict-all  -wine-id N [-rating-year YYYY]
//	forecast     -region-id N -field NAME -months M [-freq MS] [-api-key KEY]
//
// Results are printed to stdout as JSON. Logs go to stderr.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (DATA_DIR, REGRESSOR_URL, FORECAST_API_KEY, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Exit Codes
//
//	0  success
//	1  internal error or data integrity problem
//	2  invalid request or usage
//	3  wine or region not found
//	4  data files, regressor or forecaster unavailable
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomtom215/vintner/internal/cache"
	"github.com/tomtom215/vintner/internal/config"
	"github.com/tomtom215/vintner/internal/database"
	"github.com/tomtom215/vintner/internal/forecast"
	"github.com/tomtom215/vintner/internal/logging"
	"github.com/tomtom215/vintner/internal/metrics"
	"github.com/tomtom215/vintner/internal/rating"
	"github.com/tomtom215/vintner/internal/service"
)

const (
	exitOK          = 0
	exitInternal    = 1
	exitClient      = 2
	exitNotFound    = 3
	exitUnavailable = 4
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	global := flag.NewFlagSet("vintner", flag.ContinueOnError)
	global.Usage = func() { usage(global) }
	timeout := global.Duration("timeout", 2*time.Minute, "overall deadline for the command")
	dumpMetrics := global.Bool("metrics", false, "write pipeline metrics to stderr on exit")
	if err := global.Parse(args); err != nil {
		return exitClient
	}
	if global.NArg() == 0 {
		usage(global)
		return exitClient
	}

	cmd, ok := commands[global.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", global.Arg(0))
		usage(global)
		return exitClient
	}
	call, err := cmd.parse(global.Args()[1:])
	if err != nil {
		return exitClient
	}

	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return exitClient
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	svc, closeAll, err := build(cfg)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize")
		return exitInternal
	}
	defer closeAll()

	result, err := call(ctx, svc)
	if *dumpMetrics {
		if merr := metrics.WriteText(os.Stderr, prometheus.DefaultGatherer); merr != nil {
			logging.Warn().Err(merr).Msg("Failed to write metrics")
		}
	}
	if err != nil {
		return fail(err)
	}
	if err := writeJSON(os.Stdout, result); err != nil {
		logging.Error().Err(err).Msg("Failed to write result")
		return exitInternal
	}
	return exitOK
}

// build wires the service from configuration. The returned func releases
// the database and cache.
func build(cfg *config.Config) (*service.Service, func(), error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}

	store, err := cache.New(&cfg.Cache)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("cache: %w", err)
	}

	closeAll := func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache")
		}
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}

	artifacts := service.NewLazy(func(ctx context.Context) (*service.Artifacts, error) {
		return service.Load(ctx, db, cfg)
	})

	deps := service.Deps{
		Artifacts: artifacts,
		Cache:     store,
		Regressor: rating.NewTFServingClient(&cfg.Regressor),
	}
	if cfg.Forecast.URL != "" {
		deps.Forecaster = forecast.NewFromConfig(&cfg.Forecast)
	}

	svc, err := service.New(cfg, deps)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	logging.Info().
		Str("data_dir", cfg.Data.Dir).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("forecaster_credential", cfg.Forecast.APIKey != "").
		Msg("Configuration loaded")
	return svc, closeAll, nil
}

// fail reports err on stderr and maps its kind onto an exit code.
func fail(err error) int {
	kind := service.Classify(err)
	report := errorReport{Kind: kind.String(), Error: err.Error()}
	if details := validationDetails(err); details != nil {
		report.Details = details
	}
	if werr := writeJSON(os.Stderr, report); werr != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	switch kind {
	case service.KindClient:
		return exitClient
	case service.KindNotFound:
		return exitNotFound
	case service.KindUnavailable:
		return exitUnavailable
	default:
		return exitInternal
	}
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "usage: vintner [global flags] <command> [command flags]")
	fmt.Fprintln(out, "\ncommands:")
	for _, name := range commandOrder {
		fmt.Fprintf(out, "  %-12s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(out, "\nglobal flags:")
	fs.PrintDefaults()
}
