package exporter

import (
	"fmt"
	"io"
	"strings"

	"priceshift/internal/analysis"
	"priceshift/internal/dataset"
)

// ConsoleReport prints the end-of-run report: the normalised table in a
// form that pastes straight into a spreadsheet, then the t-test lines
type ConsoleReport struct {
	w io.Writer
}

// NewConsoleReport creates a report writing to w
func NewConsoleReport(w io.Writer) *ConsoleReport {
	return &ConsoleReport{w: w}
}

// WriteIndices prints the "Final data for export to Excel" block
func (c *ConsoleReport) WriteIndices(t *dataset.Table) error {
	var b strings.Builder
	b.WriteString("\nFinal data for export to Excel:\n")

	dates := make([]string, len(t.Months))
	for i, m := range t.Months {
		dates[i] = m.Time().Format(consoleDateLayout)
	}
	b.WriteString("Date, " + strings.Join(dates, ", ") + "\n")

	for _, s := range t.All() {
		values := make([]string, len(t.Months))
		for i, m := range t.Months {
			values[i] = formatValue(s, m)
		}
		b.WriteString(consoleName(s.Name) + ", " + strings.Join(values, ", ") + "\n")
	}

	_, err := io.WriteString(c.w, b.String())
	return err
}

// WriteTTests prints one line per series in table order
func (c *ConsoleReport) WriteTTests(results []analysis.Comparison) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(c.w, "month t-test for %s: statistic=%s, pvalue=%s\n",
			r.Series, formatFloat(r.TTest.Statistic), formatFloat(r.TTest.PValue)); err != nil {
			return err
		}
	}
	return nil
}

// WriteSensitivity prints the shifted-series t-test for each window
func (c *ConsoleReport) WriteSensitivity(results []analysis.SensitivityResult) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(c.w, "Synthetic %d month t-test: statistic=%s, pvalue=%s\n",
			r.Window, formatFloat(r.TTest.Statistic), formatFloat(r.TTest.PValue)); err != nil {
			return err
		}
	}
	return nil
}
