package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the namespace for all environment overrides (PRICESHIFT_*)
const EnvPrefix = "PRICESHIFT"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Chart     ChartConfig     `yaml:"chart" envconfig:"CHART"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`

	// Basket names contain commas, so they can only come from the YAML file
	Basket BasketConfig `yaml:"basket" ignored:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"required,oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"omitempty,eq=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"required,oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration.
// Relative entries are resolved against BaseDir, or the working directory
// when BaseDir is empty.
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	ChartsDir  string `yaml:"charts_dir" envconfig:"CHARTS_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// DatasetConfig describes the layout of the monthly extracts and the
// reference index file
type DatasetConfig struct {
	FilePrefix           string `yaml:"file_prefix" envconfig:"FILE_PREFIX" validate:"required"`
	ReferenceFile        string `yaml:"reference_file" envconfig:"REFERENCE_FILE" validate:"required"`
	DescriptionColumn    string `yaml:"description_column" envconfig:"DESCRIPTION_COLUMN" validate:"required"`
	IndexColumn          string `yaml:"index_column" envconfig:"INDEX_COLUMN" validate:"required"`
	ReferenceLabelColumn string `yaml:"reference_label_column" envconfig:"REFERENCE_LABEL_COLUMN" validate:"required"`
	ReferenceIndexColumn string `yaml:"reference_index_column" envconfig:"REFERENCE_INDEX_COLUMN" validate:"required"`
	ReferenceName        string `yaml:"reference_name" envconfig:"REFERENCE_NAME" validate:"required"`
}

// AnalysisConfig contains the normalisation and comparison parameters
type AnalysisConfig struct {
	BaselineMonth string `yaml:"baseline_month" envconfig:"BASELINE_MONTH" validate:"required,month"`
	PolicyDate    string `yaml:"policy_date" envconfig:"POLICY_DATE" validate:"required,datetime=2006-01-02"`
	PolicyLabel   string `yaml:"policy_label" envconfig:"POLICY_LABEL"`
	TTestWindow   int    `yaml:"ttest_window" envconfig:"TTEST_WINDOW" validate:"min=2"`
	ChangeWindow  int    `yaml:"change_window" envconfig:"CHANGE_WINDOW" validate:"min=1"`

	Sensitivity SensitivityConfig `yaml:"sensitivity" envconfig:"SENSITIVITY"`
}

// SensitivityConfig controls the synthetic price-shift sweep
type SensitivityConfig struct {
	Enabled   bool    `yaml:"enabled" envconfig:"ENABLED"`
	Shift     float64 `yaml:"shift" envconfig:"SHIFT"`
	MinWindow int     `yaml:"min_window" envconfig:"MIN_WINDOW" validate:"min=2"`
	MaxWindow int     `yaml:"max_window" envconfig:"MAX_WINDOW" validate:"gtefield=MinWindow"`
}

// ChartConfig contains chart rendering options
type ChartConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	Format  string  `yaml:"format" envconfig:"FORMAT" validate:"required,oneof=png svg pdf"`
	Width   float64 `yaml:"width" envconfig:"WIDTH" validate:"gt=0"`
	Height  float64 `yaml:"height" envconfig:"HEIGHT" validate:"gt=0"`
	ShowAll bool    `yaml:"show_all" envconfig:"SHOW_ALL"`
	Title   string  `yaml:"title" envconfig:"TITLE" validate:"required"`
}

// TelemetryConfig controls tracing and the metrics textfile
type TelemetryConfig struct {
	TracingEnabled bool   `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	TraceFile      string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
	MetricsFile    string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// BasketConfig lists the goods to extract. Target is the good the policy
// change applies to; it is always first in reports and highlighted in charts.
type BasketConfig struct {
	Target  string          `yaml:"target" validate:"required"`
	Goods   []string        `yaml:"goods" validate:"dive,required"`
	Derived []DerivedSeries `yaml:"derived" validate:"dive"`
}

// DerivedSeries is a synthetic series computed as the unweighted mean of
// its components
type DerivedSeries struct {
	Name       string   `yaml:"name" validate:"required"`
	Components []string `yaml:"components" validate:"min=1,dive,required"`
}

// Load builds the configuration from defaults, then an optional YAML file,
// then PRICESHIFT_* environment variables (highest priority)
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// No default tags: unset variables leave file and default values alone
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and cross-field rules
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("month", validateMonth); err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		return err
	}

	baseline, _ := time.Parse(MonthLayout, c.Analysis.BaselineMonth)
	policy, _ := time.Parse("2006-01-02", c.Analysis.PolicyDate)
	if !policy.After(baseline) {
		return fmt.Errorf("policy date %s must fall after baseline month %s",
			c.Analysis.PolicyDate, c.Analysis.BaselineMonth)
	}

	seen := make(map[string]bool)
	for _, name := range c.Basket.Names() {
		if seen[name] {
			return fmt.Errorf("duplicate basket entry %q", name)
		}
		seen[name] = true
	}
	for _, d := range c.Basket.Derived {
		if seen[d.Name] {
			return fmt.Errorf("derived series %q clashes with a basket entry", d.Name)
		}
		for _, comp := range d.Components {
			if !seen[comp] {
				return fmt.Errorf("derived series %q uses %q which is not in the basket", d.Name, comp)
			}
		}
	}

	// JSON is the only supported log format
	c.Logging.Format = "json"

	return nil
}

func validateMonth(fl validator.FieldLevel) bool {
	_, err := time.Parse(MonthLayout, fl.Field().String())
	return err == nil
}

// Names returns the extraction targets: the target good first, then the
// rest of the basket in configured order
func (b BasketConfig) Names() []string {
	names := make([]string, 0, len(b.Goods)+1)
	names = append(names, b.Target)
	for _, g := range b.Goods {
		if g != b.Target {
			names = append(names, g)
		}
	}
	return names
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}

	locations := []string{
		"priceshift.yaml",
		"configs/priceshift.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "file",
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			ReportsDir: DefaultReportsDir,
			ChartsDir:  DefaultChartsDir,
			LogsDir:    DefaultLogsDir,
		},
		Dataset: DatasetConfig{
			FilePrefix:           DefaultFilePrefix,
			ReferenceFile:        DefaultReferenceFile,
			DescriptionColumn:    DefaultDescriptionColumn,
			IndexColumn:          DefaultIndexColumn,
			ReferenceLabelColumn: DefaultReferenceLabelColumn,
			ReferenceIndexColumn: DefaultReferenceIndexColumn,
			ReferenceName:        DefaultReferenceName,
		},
		Analysis: AnalysisConfig{
			BaselineMonth: DefaultBaselineMonth,
			PolicyDate:    DefaultPolicyDate,
			PolicyLabel:   DefaultPolicyLabel,
			TTestWindow:   DefaultTTestWindow,
			ChangeWindow:  DefaultChangeWindow,
			Sensitivity: SensitivityConfig{
				Enabled:   false,
				Shift:     DefaultSensitivityShift,
				MinWindow: 2,
				MaxWindow: 16,
			},
		},
		Chart: ChartConfig{
			Enabled: true,
			Format:  "png",
			Width:   14,
			Height:  8,
			Title:   DefaultChartTitle,
		},
		Telemetry: TelemetryConfig{
			TracingEnabled: false,
			TraceFile:      DefaultTraceFile,
			MetricsEnabled: true,
			MetricsFile:    DefaultMetricsFile,
		},
		Basket: DefaultBasket(),
	}
}
