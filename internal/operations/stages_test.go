package operations

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceshift/internal/config"
	apperrors "priceshift/internal/errors"
	"priceshift/internal/infrastructure"
	sharedtest "priceshift/internal/shared/testutil"
)

// fixture writes 24 months of extracts from January 2020. The target
// drops from 100 to 95 after December 2020; every other good rises by one
// index point a month.
func fixture(t *testing.T) (*config.Config, *config.Paths) {
	t.Helper()
	base := t.TempDir()

	cfg := config.Default()
	cfg.Paths.BaseDir = base
	cfg.Chart.Width, cfg.Chart.Height = 6, 4

	paths, err := config.GetPaths(cfg)
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())
	require.NoError(t, os.MkdirAll(paths.DataDir, 0755))

	sharedtest.Dataset{
		Start:  time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		Months: 24,
		Series: cfg.Basket.Names(),
		Value: func(series string, i int) float64 {
			if series == cfg.Basket.Target {
				if i <= 11 {
					return 100
				}
				return 95
			}
			if series == "TOOTHBRUSH" && i == 3 {
				return math.NaN()
			}
			return 100 + float64(i)
		},
	}.Write(t, paths.DataDir)

	return cfg, paths
}

func runPipeline(t *testing.T, cfg *config.Config, paths *config.Paths, stdout *bytes.Buffer) (*OperationState, *infrastructure.Telemetry, error) {
	t.Helper()
	logger, _ := sharedtest.NewTestLogger(t)

	tel, err := infrastructure.InitializeTelemetry(context.Background(), cfg.Telemetry, paths.TraceFile, paths.MetricsFile, logger)
	require.NoError(t, err)

	registry, err := NewPipeline(Dependencies{
		Config:  cfg,
		Paths:   paths,
		Stdout:  stdout,
		Logger:  logger,
		Metrics: tel.Metrics,
	})
	require.NoError(t, err)

	state, runErr := NewManager(registry, tel, logger).Execute(context.Background())
	require.NoError(t, tel.Shutdown(context.Background()))
	return state, tel, runErr
}

func TestPipeline_StepOrder(t *testing.T) {
	cfg, paths := fixture(t)
	registry, err := NewPipeline(Dependencies{Config: cfg, Paths: paths})
	require.NoError(t, err)

	assert.Equal(t, []string{
		StepIDDiscover, StepIDReference, StepIDRead, StepIDExtract, StepIDNormalize,
		StepIDCompare, StepIDSensitivity, StepIDExport, StepIDRender,
	}, registry.ListIDs())
}

func TestPipeline_FullRun(t *testing.T) {
	cfg, paths := fixture(t)
	cfg.Analysis.Sensitivity.Enabled = true

	var stdout bytes.Buffer
	state, tel, err := runPipeline(t, cfg, paths, &stdout)
	require.NoError(t, err)
	assert.Equal(t, OperationStatusCompleted, state.Status)

	require.Len(t, state.Months, 24)
	require.Len(t, state.Normalised.Series, 15)
	assert.Equal(t, cfg.Basket.Target, state.Normalised.Series[0].Name)
	assert.Equal(t, config.DefaultTShirtSeries, state.Normalised.Series[14].Name)
	assert.Len(t, state.Normalised.Missing, 1)

	var target = state.Comparisons[0]
	assert.Equal(t, cfg.Basket.Target, target.Series)
	assert.InDelta(t, -0.05, target.Change, 1e-12)
	assert.True(t, math.IsInf(target.TTest.Statistic, 1))
	assert.Equal(t, 0.0, target.TTest.PValue)
	assert.Len(t, state.Sensitivity, 15)

	out := stdout.String()
	assert.Contains(t, out, "Reading CPI data\n")
	assert.Contains(t, out, "Reading ONS data for 1/2020...\n")
	assert.Contains(t, out, "Final data for export to Excel:\nDate, 01/01/2020, 01/02/2020,")
	assert.Contains(t, out, "\nCPI, ")
	assert.Contains(t, out, "\nTAMPONS-PACK_OF_10-20, 1.0, 1.0,")
	assert.Contains(t, out, "month t-test for TAMPONS-PACK OF 10-20: statistic=inf, pvalue=0.0\n")
	assert.Contains(t, out, "Synthetic 16 month t-test:")

	for _, p := range []string{paths.IndicesCSV, paths.ComparisonCSV, paths.Workbook, paths.BarChart, paths.TimeSeries} {
		assert.FileExists(t, p)
		assert.Contains(t, state.Outputs, p)
	}

	assert.Equal(t, 24.0, testutil.ToFloat64(tel.Metrics.MonthsDiscovered))
	assert.Equal(t, 15.0, testutil.ToFloat64(tel.Metrics.SeriesExtracted))
	assert.Equal(t, 1.0, testutil.ToFloat64(tel.Metrics.MissingObservations.WithLabelValues("TOOTHBRUSH")))

	prom, err := os.ReadFile(paths.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "priceshift_run_success 1")
}

func TestPipeline_OptionalStepsSkipped(t *testing.T) {
	cfg, paths := fixture(t)
	cfg.Chart.Enabled = false

	state, _, err := runPipeline(t, cfg, paths, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, StepStatusSkipped, state.GetStage(StepIDSensitivity).Status)
	assert.Equal(t, StepStatusSkipped, state.GetStage(StepIDRender).Status)
	assert.NoFileExists(t, paths.BarChart)
	assert.FileExists(t, paths.Workbook)
}

func TestPipeline_InconsistentReferenceWritesNothing(t *testing.T) {
	cfg, paths := fixture(t)

	// drop the last month from the reference file
	labels := make([]string, 0, 23)
	values := make([]float64, 0, 23)
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 23; i++ {
		m := start.AddDate(0, i, 0)
		labels = append(labels, sharedtest.MonthLabel(m.Year(), m.Month()))
		values = append(values, 100+float64(i))
	}
	sharedtest.WriteReferenceCSV(t, paths.DataDir, labels, values)

	var stdout bytes.Buffer
	state, _, err := runPipeline(t, cfg, paths, &stdout)
	require.Error(t, err)

	assert.True(t, apperrors.IsDataConsistency(err))
	assert.Equal(t, apperrors.ExitDataConsistency, apperrors.ExitCode(err))
	assert.Equal(t, StepStatusFailed, state.GetStage(StepIDReference).Status)
	for _, id := range []string{StepIDRead, StepIDExtract, StepIDNormalize, StepIDCompare, StepIDExport, StepIDRender} {
		assert.Equal(t, StepStatusSkipped, state.GetStage(id).Status, id)
	}

	assert.Empty(t, state.Outputs)
	assert.NotContains(t, stdout.String(), "Final data for export to Excel")

	entries, err := os.ReadDir(paths.ReportsDir)
	require.NoError(t, err)
	for _, e := range entries {
		name := e.Name()
		assert.True(t, e.IsDir() || strings.HasSuffix(name, ".prom"), "unexpected output %s", filepath.Join(paths.ReportsDir, name))
	}
}
