package exporter

import (
	"log/slog"

	"priceshift/internal/config"
	"priceshift/internal/dataset"
)

// IndicesExporter writes the normalised index table in wide format: one
// row per series, one column per month
type IndicesExporter struct {
	csvWriter *CSVWriter
}

// NewIndicesExporter creates a new indices exporter
func NewIndicesExporter(paths *config.Paths, logger *slog.Logger) *IndicesExporter {
	return &IndicesExporter{csvWriter: NewCSVWriter(paths, logger)}
}

// ExportIndices writes t to filePath, reference series first
func (e *IndicesExporter) ExportIndices(t *dataset.Table, filePath string) error {
	return e.csvWriter.WriteSimpleCSV(filePath, indicesHeaders(t), indicesRecords(t))
}

func indicesHeaders(t *dataset.Table) []string {
	headers := make([]string, 0, len(t.Months)+1)
	headers = append(headers, "series")
	for _, m := range t.Months {
		headers = append(headers, m.String())
	}
	return headers
}

func indicesRecords(t *dataset.Table) [][]string {
	all := t.All()
	records := make([][]string, 0, len(all))
	for _, s := range all {
		row := make([]string, 0, len(t.Months)+1)
		row = append(row, s.Name)
		for _, m := range t.Months {
			row = append(row, formatValue(s, m))
		}
		records = append(records, row)
	}
	return records
}
