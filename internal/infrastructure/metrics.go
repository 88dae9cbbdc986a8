package infrastructure

import (
	"context"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RunMetrics holds the gauges describing one analysis run and the OTel
// instruments counting work done by the pipeline steps
type RunMetrics struct {
	MonthsDiscovered    prometheus.Gauge
	SeriesExtracted     prometheus.Gauge
	MissingObservations *prometheus.GaugeVec
	PriceChange         *prometheus.GaugeVec
	TTestStatistic      *prometheus.GaugeVec
	TTestPValue         *prometheus.GaugeVec
	RunDuration         prometheus.Gauge
	RunSuccess          prometheus.Gauge

	FilesParsed    metric.Int64Counter
	RowsScanned    metric.Int64Counter
	StepExecutions metric.Int64Counter
	StepDuration   metric.Float64Histogram
}

// NewRunMetrics registers the run gauges on reg and creates the step
// instruments on meter
func NewRunMetrics(reg prometheus.Registerer, meter metric.Meter) (*RunMetrics, error) {
	m := &RunMetrics{
		MonthsDiscovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "priceshift_months_discovered",
			Help: "Number of monthly index files discovered",
		}),
		SeriesExtracted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "priceshift_series_extracted",
			Help: "Number of series in the analysis table, derived series included",
		}),
		MissingObservations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "priceshift_missing_observations",
			Help: "Months without a value per series",
		}, []string{"series"}),
		PriceChange: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "priceshift_price_change",
			Help: "Mean normalised index after the baseline minus mean before",
		}, []string{"series"}),
		TTestStatistic: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "priceshift_ttest_statistic",
			Help: "Welch t statistic, prior window against subsequent window",
		}, []string{"series"}),
		TTestPValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "priceshift_ttest_pvalue",
			Help: "One-sided p-value for a price fall after the baseline",
		}, []string{"series"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "priceshift_run_duration_seconds",
			Help: "Wall time of the analysis run",
		}),
		RunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "priceshift_run_success",
			Help: "1 if the last run completed, 0 otherwise",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.MonthsDiscovered, m.SeriesExtracted, m.MissingObservations,
		m.PriceChange, m.TTestStatistic, m.TTestPValue, m.RunDuration, m.RunSuccess,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	var err error
	m.FilesParsed, err = meter.Int64Counter(
		"priceshift_files_parsed",
		metric.WithDescription("Monthly and reference files parsed"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, err
	}

	m.RowsScanned, err = meter.Int64Counter(
		"priceshift_rows_scanned",
		metric.WithDescription("Data rows scanned while extracting series"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, err
	}

	m.StepExecutions, err = meter.Int64Counter(
		"priceshift_step_executions",
		metric.WithDescription("Pipeline step executions by status"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return nil, err
	}

	m.StepDuration, err = meter.Float64Histogram(
		"priceshift_step_duration",
		metric.WithDescription("Pipeline step duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordStep counts a step execution and its duration
func (m *RunMetrics) RecordStep(ctx context.Context, stepID, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("step", stepID),
		attribute.String("status", status),
	)
	m.StepExecutions.Add(ctx, 1, attrs)
	m.StepDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordComparison sets the per-series comparison gauges. Undefined
// results are not exported.
func (m *RunMetrics) RecordComparison(series string, change, statistic, pvalue float64) {
	setUnlessNaN(m.PriceChange, series, change)
	setUnlessNaN(m.TTestStatistic, series, statistic)
	setUnlessNaN(m.TTestPValue, series, pvalue)
}

func setUnlessNaN(g *prometheus.GaugeVec, series string, v float64) {
	if math.IsNaN(v) {
		return
	}
	g.WithLabelValues(series).Set(v)
}
