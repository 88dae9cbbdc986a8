package exporter

import (
	"log/slog"
	"math"

	"github.com/xuri/excelize/v2"

	"priceshift/internal/analysis"
	"priceshift/internal/dataset"
	apperrors "priceshift/internal/errors"
)

const (
	IndicesSheet    = "Indices"
	ComparisonSheet = "Comparison"

	// percentNumFmt is the built-in "0.00%" number format
	percentNumFmt = 10
)

// WorkbookExporter writes the indices and the ranked comparison to one
// XLSX workbook
type WorkbookExporter struct {
	logger *slog.Logger
}

// NewWorkbookExporter creates a new workbook exporter
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{logger: logger}
}

// ExportWorkbook writes the workbook to filePath
func (e *WorkbookExporter) ExportWorkbook(t *dataset.Table, results []analysis.Comparison, filePath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", IndicesSheet); err != nil {
		return apperrors.NewStorageError("failed to create indices sheet", err)
	}
	if err := writeIndicesSheet(f, t); err != nil {
		return apperrors.NewStorageError("failed to write indices sheet", err)
	}

	if _, err := f.NewSheet(ComparisonSheet); err != nil {
		return apperrors.NewStorageError("failed to create comparison sheet", err)
	}
	if err := writeComparisonSheet(f, analysis.Rank(results)); err != nil {
		return apperrors.NewStorageError("failed to write comparison sheet", err)
	}

	if err := f.SaveAs(filePath); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).
			WithContext("path", filePath)
	}

	e.logger.Info("Workbook written",
		slog.String("path", filePath),
		slog.Int("series", len(t.All())),
		slog.Int("months", len(t.Months)))
	return nil
}

func writeIndicesSheet(f *excelize.File, t *dataset.Table) error {
	header := make([]interface{}, 0, len(t.Months)+1)
	header = append(header, "Date")
	for _, m := range t.Months {
		header = append(header, m.Time())
	}
	if err := f.SetSheetRow(IndicesSheet, "A1", &header); err != nil {
		return err
	}

	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("dd/mm/yyyy")})
	if err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(t.Months) + 1)
	if err := f.SetCellStyle(IndicesSheet, "B1", lastCol+"1", dateStyle); err != nil {
		return err
	}

	for i, s := range t.All() {
		row := make([]interface{}, 0, len(t.Months)+1)
		row = append(row, s.Name)
		for _, m := range t.Months {
			if v, ok := s.Value(m); ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(IndicesSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(IndicesSheet, "A", "A", 34)
}

func writeComparisonSheet(f *excelize.File, ranked []analysis.Comparison) error {
	header := []interface{}{
		"Rank", "Series", "Prior mean", "Subsequent mean", "Change",
		"Prior n", "Subsequent n", "t statistic", "p-value",
	}
	if err := f.SetSheetRow(ComparisonSheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range ranked {
		row := []interface{}{
			i + 1, r.Series, cellFloat(r.PriorMean), cellFloat(r.SubsequentMean), cellFloat(r.Change),
			r.PriorN, r.SubsequentN, cellFloat(r.TTest.Statistic), cellFloat(r.TTest.PValue),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ComparisonSheet, cell, &row); err != nil {
			return err
		}
	}

	if len(ranked) > 0 {
		pct, err := f.NewStyle(&excelize.Style{NumFmt: percentNumFmt})
		if err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(5, len(ranked)+1)
		if err := f.SetCellStyle(ComparisonSheet, "E2", last, pct); err != nil {
			return err
		}
	}

	return f.SetColWidth(ComparisonSheet, "B", "B", 34)
}

// cellFloat leaves non-finite values blank; the XLSX format has no NaN
func cellFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func strPtr(s string) *string { return &s }
