// Command priceshift measures how the tampon price index moved after the
// 5% VAT on tampons was abolished, against related goods and CPI.
//
// It reads the monthly ONS item index extracts and CPI.csv from ONS_data,
// prints the normalised table and t-test results, and writes reports and
// charts under reports/. Parameters come from priceshift.yaml and
// PRICESHIFT_* environment variables; there are no command-line flags.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"priceshift/internal/config"
	apperrors "priceshift/internal/errors"
	"priceshift/internal/infrastructure"
	"priceshift/internal/operations"
)

func main() {
	os.Exit(run(context.Background(), os.Stdout, os.Stderr))
}

// run executes one analysis and returns the process exit status
func run(ctx context.Context, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return apperrors.ExitFailure
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to resolve paths: %v\n", err)
		return apperrors.ExitFailure
	}
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(stderr, "Failed to create required directories: %v\n", err)
		return apperrors.ExitFailure
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging, paths.LogFile)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureRunID(ctx)
	logger.InfoContext(ctx, "Starting price index analysis",
		slog.String("version", config.AppVersion),
		slog.String("data_dir", paths.DataDir),
		slog.String("baseline_month", cfg.Analysis.BaselineMonth),
		slog.Int("ttest_window", cfg.Analysis.TTestWindow),
		slog.Int("change_window", cfg.Analysis.ChangeWindow))
	paths.LogPathResolution(logger)

	telemetry, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, paths.TraceFile, paths.MetricsFile, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize telemetry", slog.String("error", err.Error()))
		return apperrors.ExitFailure
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.ErrorContext(ctx, "Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	registry, err := operations.NewPipeline(operations.Dependencies{
		Config:  cfg,
		Paths:   paths,
		Stdout:  stdout,
		Logger:  logger,
		Metrics: telemetry.Metrics,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build pipeline", slog.String("error", err.Error()))
		return apperrors.ExitFailure
	}

	state, err := operations.NewManager(registry, telemetry, logger).Execute(ctx)
	if err != nil {
		if apperrors.IsDataConsistency(err) {
			fmt.Fprintf(stderr, "Error - missing %s: %v\n", cfg.Dataset.ReferenceName, err)
		} else {
			fmt.Fprintf(stderr, "Analysis failed: %v\n", err)
		}
		return apperrors.ExitCode(err)
	}

	logger.InfoContext(ctx, "Analysis complete",
		slog.Duration("duration", state.Duration()),
		slog.Any("outputs", state.Outputs),
		slog.Int("missing_observations", len(state.Table.Missing)))
	return apperrors.ExitOK
}
