package operations

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"priceshift/internal/analysis"
	"priceshift/internal/chart"
	"priceshift/internal/config"
	"priceshift/internal/dataset"
	apperrors "priceshift/internal/errors"
	"priceshift/internal/exporter"
	"priceshift/internal/infrastructure"
)

// Dependencies are shared by all pipeline steps
type Dependencies struct {
	Config  *config.Config
	Paths   *config.Paths
	Stdout  io.Writer
	Logger  *slog.Logger
	Metrics *infrastructure.RunMetrics
}

// NewPipeline registers the analysis steps in execution order
func NewPipeline(deps Dependencies) (*Registry, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Stdout == nil {
		deps.Stdout = io.Discard
	}

	baseline, err := dataset.ParseMonth(deps.Config.Analysis.BaselineMonth)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid baseline month", err)
	}
	policy, err := time.Parse("2006-01-02", deps.Config.Analysis.PolicyDate)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid policy date", err)
	}

	p := &pipeline{
		Dependencies: deps,
		loader:       dataset.NewLoader(deps.Config.Dataset, deps.Paths.BaseDir, deps.Stdout, deps.Logger),
		baseline:     baseline,
		policyDate:   policy,
	}

	registry := NewRegistry()
	for _, step := range []Step{
		&DiscoverStep{BaseStage: NewBaseStage(StepIDDiscover, StepNameDiscover), p: p},
		&ReferenceStep{BaseStage: NewBaseStage(StepIDReference, StepNameReference), p: p},
		&ReadStep{BaseStage: NewBaseStage(StepIDRead, StepNameRead), p: p},
		&ExtractStep{BaseStage: NewBaseStage(StepIDExtract, StepNameExtract), p: p},
		&NormalizeStep{BaseStage: NewBaseStage(StepIDNormalize, StepNameNormalize), p: p},
		&CompareStep{BaseStage: NewBaseStage(StepIDCompare, StepNameCompare), p: p},
		&SensitivityStep{BaseStage: NewBaseStage(StepIDSensitivity, StepNameSensitivity), p: p},
		&ExportStep{BaseStage: NewBaseStage(StepIDExport, StepNameExport), p: p},
		&RenderStep{BaseStage: NewBaseStage(StepIDRender, StepNameRender), p: p},
	} {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// pipeline holds what the steps share beyond the Dependencies
type pipeline struct {
	Dependencies
	loader     *dataset.Loader
	baseline   dataset.Month
	policyDate time.Time
}

func (p *pipeline) comparatorOptions() analysis.Options {
	return analysis.Options{
		Baseline:     p.baseline,
		TTestWindow:  p.Config.Analysis.TTestWindow,
		ChangeWindow: p.Config.Analysis.ChangeWindow,
	}
}

// DiscoverStep lists the monthly extracts and derives the month list
type DiscoverStep struct {
	BaseStage
	p *pipeline
}

// Execute implements Step
func (s *DiscoverStep) Execute(ctx context.Context, state *OperationState) error {
	months, monthly, err := s.p.loader.Discover(s.p.Paths.DataDir)
	if err != nil {
		return err
	}
	state.Months = months
	state.MonthlyFiles = monthly

	if m := s.p.Metrics; m != nil {
		m.MonthsDiscovered.Set(float64(len(months)))
	}
	infrastructure.AddSpanEvent(ctx, "months_discovered", map[string]interface{}{
		"count": len(months),
		"first": months[0].String(),
		"last":  months[len(months)-1].String(),
	})
	s.p.Logger.InfoContext(ctx, "Monthly files discovered",
		slog.Int("months", len(months)),
		slog.String("first", months[0].String()),
		slog.String("last", months[len(months)-1].String()))
	return nil
}

// ReferenceStep resolves the reference index for every month. An
// unresolved month stops the run before anything is written.
type ReferenceStep struct {
	BaseStage
	p *pipeline
}

// Execute implements Step
func (s *ReferenceStep) Execute(ctx context.Context, state *OperationState) error {
	if len(state.Months) == 0 {
		return NewStateError(s.ID(), "month list")
	}
	ref, err := s.p.loader.LoadReference(ctx, s.p.Paths.ReferenceFile, state.Months)
	if err != nil {
		return err
	}
	state.Reference = ref
	s.p.countFiles(ctx, "reference", 1)
	return nil
}

// ReadStep parses every monthly extract
type ReadStep struct {
	BaseStage
	p *pipeline
}

// Execute implements Step
func (s *ReadStep) Execute(ctx context.Context, state *OperationState) error {
	sheets, err := s.p.loader.ReadMonthly(ctx, state.MonthlyFiles)
	if err != nil {
		return err
	}
	state.Sheets = sheets
	s.p.countFiles(ctx, "monthly", len(sheets))
	return nil
}

// ExtractStep pulls the basket series out of the monthly sheets and
// assembles the analysis table
type ExtractStep struct {
	BaseStage
	p *pipeline
}

// Execute implements Step
func (s *ExtractStep) Execute(ctx context.Context, state *OperationState) error {
	if state.Reference == nil {
		return NewStateError(s.ID(), "reference series")
	}
	basket := s.p.Config.Basket

	series, stats := dataset.Extract(ctx, state.Sheets, basket.Names(), s.p.Logger)
	state.Table = dataset.BuildTable(ctx, state.Months, state.Reference, series, basket, s.p.Logger)

	if m := s.p.Metrics; m != nil {
		m.RowsScanned.Add(ctx, int64(stats.RowsScanned))
		m.SeriesExtracted.Set(float64(len(state.Table.Series)))
		for name, n := range state.Table.MissingBySeries() {
			m.MissingObservations.WithLabelValues(name).Set(float64(n))
		}
	}

	s.p.Logger.InfoContext(ctx, "Series extracted",
		slog.Int("rows_scanned", stats.RowsScanned),
		slog.Int("matched", stats.Matched),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("series", len(state.Table.Series)),
		slog.Int("missing_observations", len(state.Table.Missing)))
	return nil
}

// NormalizeStep rebases every series to the baseline month
type NormalizeStep struct {
	BaseStage
	p *pipeline
}

// Execute implements Step
func (s *NormalizeStep) Execute(ctx context.Context, state *OperationState) error {
	if state.Table == nil {
		return NewStateError(s.ID(), "analysis table")
	}
	norm, bases, err := analysis.Normalize(state.Table, s.p.baseline)
	if err != nil {
		return err
	}
	state.Normalised = norm
	state.Baselines = bases
	return nil
}

// CompareStep computes the windowed change and t-test per series
type CompareStep struct {
	BaseStage
	p *pipeline
}

// Execute implements Step
func (s *CompareStep) Execute(ctx context.Context, state *OperationState) error {
	if state.Normalised == nil {
		return NewStateError(s.ID(), "normalised table")
	}
	results, err := analysis.NewComparator(s.p.comparatorOptions(), s.p.Logger).Compare(ctx, state.Normalised)
	if err != nil {
		return err
	}
	state.Comparisons = results

	if m := s.p.Metrics; m != nil {
		for _, r := range results {
			m.RecordComparison(r.Series, r.Change, r.TTest.Statistic, r.TTest.PValue)
		}
	}
	return nil
}

// SensitivityStep runs the shifted-target sweep when enabled
type SensitivityStep struct {
	BaseStage
	p *pipeline
}

// SkipReason implements Skipper
func (s *SensitivityStep) SkipReason(*OperationState) string {
	if !s.p.Config.Analysis.Sensitivity.Enabled {
		return "sensitivity sweep disabled"
	}
	return ""
}

// Execute implements Step
func (s *SensitivityStep) Execute(ctx context.Context, state *OperationState) error {
	if state.Normalised == nil {
		return NewStateError(s.ID(), "normalised table")
	}
	cfg := s.p.Config.Analysis.Sensitivity
	results, err := analysis.Sensitivity(state.Normalised, analysis.SensitivityOptions{
		Series:    s.p.Config.Basket.Target,
		Baseline:  s.p.baseline,
		Shift:     cfg.Shift,
		MinWindow: cfg.MinWindow,
		MaxWindow: cfg.MaxWindow,
	})
	if err != nil {
		return err
	}
	state.Sensitivity = results
	return nil
}

// ExportStep prints the console report and writes the CSV and XLSX files
type ExportStep struct {
	BaseStage
	p *pipeline
}

// Execute implements Step
func (s *ExportStep) Execute(ctx context.Context, state *OperationState) error {
	if state.Normalised == nil || state.Comparisons == nil {
		return NewStateError(s.ID(), "comparison results")
	}
	paths := s.p.Paths

	console := exporter.NewConsoleReport(s.p.Stdout)
	if err := console.WriteIndices(state.Normalised); err != nil {
		return apperrors.NewStorageError("failed to write console report", err)
	}
	if err := console.WriteTTests(state.Comparisons); err != nil {
		return apperrors.NewStorageError("failed to write console report", err)
	}
	if len(state.Sensitivity) > 0 {
		if err := console.WriteSensitivity(state.Sensitivity); err != nil {
			return apperrors.NewStorageError("failed to write console report", err)
		}
	}

	if err := exporter.NewIndicesExporter(paths, s.p.Logger).ExportIndices(state.Normalised, paths.IndicesCSV); err != nil {
		return err
	}
	state.AddOutput(paths.IndicesCSV)

	if err := exporter.NewComparisonExporter(paths, s.p.Logger).ExportComparison(state.Comparisons, paths.ComparisonCSV); err != nil {
		return err
	}
	state.AddOutput(paths.ComparisonCSV)

	if err := exporter.NewWorkbookExporter(s.p.Logger).ExportWorkbook(state.Normalised, state.Comparisons, paths.Workbook); err != nil {
		return err
	}
	state.AddOutput(paths.Workbook)
	return nil
}

// RenderStep draws the two charts when charts are enabled
type RenderStep struct {
	BaseStage
	p *pipeline
}

// SkipReason implements Skipper
func (s *RenderStep) SkipReason(*OperationState) string {
	if !s.p.Config.Chart.Enabled {
		return "charts disabled"
	}
	return ""
}

// Execute implements Step
func (s *RenderStep) Execute(ctx context.Context, state *OperationState) error {
	if state.Normalised == nil || state.Comparisons == nil {
		return NewStateError(s.ID(), "comparison results")
	}
	renderer := chart.NewRenderer(s.p.Config.Chart, s.p.Logger)
	target := s.p.Config.Basket.Target

	from, to, _ := analysis.NewComparator(s.p.comparatorOptions(), s.p.Logger).ChangeRange(state.Normalised)
	if err := renderer.RenderPriceChanges(chart.PriceChangeChart{
		Results: state.Comparisons,
		Target:  target,
		From:    from,
		To:      to,
	}, s.p.Paths.BarChart); err != nil {
		return err
	}
	state.AddOutput(s.p.Paths.BarChart)

	if err := renderer.RenderIndices(chart.IndicesChart{
		Table:       state.Normalised,
		Target:      target,
		Baseline:    s.p.baseline,
		PolicyDate:  s.p.policyDate,
		PolicyLabel: s.p.Config.Analysis.PolicyLabel,
	}, s.p.Paths.TimeSeries); err != nil {
		return err
	}
	state.AddOutput(s.p.Paths.TimeSeries)
	return nil
}

func (p *pipeline) countFiles(ctx context.Context, kind string, n int) {
	if p.Metrics == nil {
		return
	}
	p.Metrics.FilesParsed.Add(ctx, int64(n), metric.WithAttributes(attribute.String("kind", kind)))
}
