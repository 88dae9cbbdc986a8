package exporter

import (
	"log/slog"
	"strconv"

	"priceshift/internal/analysis"
	"priceshift/internal/config"
)

// ComparisonExporter writes the ranked before/after comparison
type ComparisonExporter struct {
	csvWriter *CSVWriter
}

// NewComparisonExporter creates a new comparison exporter
func NewComparisonExporter(paths *config.Paths, logger *slog.Logger) *ComparisonExporter {
	return &ComparisonExporter{csvWriter: NewCSVWriter(paths, logger)}
}

// ExportComparison writes results ranked by ascending change
func (e *ComparisonExporter) ExportComparison(results []analysis.Comparison, filePath string) error {
	ranked := analysis.Rank(results)

	records := make([][]string, 0, len(ranked))
	for i, r := range ranked {
		records = append(records, comparisonToCSVRow(i+1, r))
	}
	return e.csvWriter.WriteSimpleCSV(filePath, comparisonHeaders(), records)
}

func comparisonHeaders() []string {
	return []string{
		"rank",
		"series",
		"derived",
		"prior_mean",
		"subsequent_mean",
		"change",
		"change_percent",
		"prior_n",
		"subsequent_n",
		"t_statistic",
		"p_value",
		"degrees_of_freedom",
	}
}

func comparisonToCSVRow(rank int, r analysis.Comparison) []string {
	return []string{
		strconv.Itoa(rank),
		r.Series,
		strconv.FormatBool(r.Derived),
		formatFloat(r.PriorMean),
		formatFloat(r.SubsequentMean),
		formatFloat(r.Change),
		formatPercent(r.Change),
		strconv.Itoa(r.PriorN),
		strconv.Itoa(r.SubsequentN),
		formatFloat(r.TTest.Statistic),
		formatFloat(r.TTest.PValue),
		formatFloat(r.TTest.DF),
	}
}
