package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	ChartsDir  string
	LogsDir    string

	// Well-known input files
	ReferenceFile string

	// Well-known report files
	IndicesCSV    string
	ComparisonCSV string
	Workbook      string
	BarChart      string
	TimeSeries    string
	LogFile       string
	TraceFile     string
	MetricsFile   string
}

// GetPaths resolves every path in cfg. Relative directories are joined to
// the base directory, which defaults to the current working directory since
// the input data lives next to where the analysis is run.
func GetPaths(cfg *Config) (*Paths, error) {
	base := cfg.Paths.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	dataDir := resolve(cfg.Paths.DataDir)
	reportsDir := resolve(cfg.Paths.ReportsDir)
	chartsDir := resolve(cfg.Paths.ChartsDir)
	logsDir := resolve(cfg.Paths.LogsDir)

	inDir := func(dir, file string) string {
		if filepath.IsAbs(file) {
			return file
		}
		return filepath.Join(dir, file)
	}

	chartExt := "." + cfg.Chart.Format

	return &Paths{
		BaseDir:    base,
		DataDir:    dataDir,
		ReportsDir: reportsDir,
		ChartsDir:  chartsDir,
		LogsDir:    logsDir,

		ReferenceFile: inDir(dataDir, cfg.Dataset.ReferenceFile),

		IndicesCSV:    filepath.Join(reportsDir, "normalised_indices.csv"),
		ComparisonCSV: filepath.Join(reportsDir, "price_changes.csv"),
		Workbook:      filepath.Join(reportsDir, "priceshift.xlsx"),
		BarChart:      filepath.Join(chartsDir, "price_change"+chartExt),
		TimeSeries:    filepath.Join(chartsDir, "normalised_indices"+chartExt),
		LogFile:       inDir(logsDir, cfg.Logging.FilePath),
		TraceFile:     inDir(logsDir, cfg.Telemetry.TraceFile),
		MetricsFile:   inDir(reportsDir, cfg.Telemetry.MetricsFile),
	}, nil
}

// EnsureDirectories creates the output directories if they don't exist.
// The data directory is input only and is never created.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.ReportsDir,
		p.ChartsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetDataPath returns the path for an input file
func (p *Paths) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetChartPath returns the path for a chart file
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("reports", p.ReportsDir),
			slog.String("charts", p.ChartsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("input_files",
			slog.String("reference", p.ReferenceFile),
			slog.Bool("reference_exists", FileExists(p.ReferenceFile)),
		),
		slog.Group("report_files",
			slog.String("indices_csv", p.IndicesCSV),
			slog.String("comparison_csv", p.ComparisonCSV),
			slog.String("workbook", p.Workbook),
			slog.String("bar_chart", p.BarChart),
			slog.String("time_series", p.TimeSeries),
		))
}
