package testutil

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// ItemRow is one row of a monthly item index extract
type ItemRow struct {
	Desc  string
	Index string
}

// Item builds an ItemRow from a float index value
func Item(desc string, index float64) ItemRow {
	return ItemRow{Desc: desc, Index: fmt.Sprintf("%g", index)}
}

// MonthlyFileName returns the extract name for a month
func MonthlyFileName(year int, month time.Month, ext string) string {
	return fmt.Sprintf("upload-itemindices%04d%02d.%s", year, int(month), ext)
}

// MonthLabel returns the reference file label for a month, e.g. "2021 JAN"
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%d %s", year, strings.ToUpper(month.String()[:3]))
}

func monthlyRecords(year int, month time.Month, rows []ItemRow) [][]string {
	records := [][]string{{"INDEX_DATE", "ITEM_ID", "ITEM_DESC", "ALL_GM_INDEX"}}
	date := fmt.Sprintf("%04d%02d", year, int(month))
	for i, r := range rows {
		records = append(records, []string{date, fmt.Sprintf("%d", 210000+i), r.Desc, r.Index})
	}
	return records
}

// WriteCSV writes records to path
func WriteCSV(t *testing.T, path string, records [][]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteMonthlyCSV writes a monthly CSV extract into dir and returns its path
func WriteMonthlyCSV(t *testing.T, dir string, year int, month time.Month, rows []ItemRow) string {
	t.Helper()
	path := filepath.Join(dir, MonthlyFileName(year, month, "csv"))
	WriteCSV(t, path, monthlyRecords(year, month, rows))
	return path
}

// WriteMonthlyXLSX writes a monthly extract as a workbook. The data sits on
// a second sheet after a cover sheet, the way ONS publishes its workbooks.
func WriteMonthlyXLSX(t *testing.T, dir string, year int, month time.Month, rows []ItemRow) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetCellValue("Sheet1", "A1", "Consumer price inflation item indices"); err != nil {
		t.Fatalf("cover sheet: %v", err)
	}
	if _, err := f.NewSheet("data"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	for i, rec := range monthlyRecords(year, month, rows) {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		values := make([]interface{}, len(rec))
		for j, v := range rec {
			values[j] = v
		}
		if err := f.SetSheetRow("data", cell, &values); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}

	path := filepath.Join(dir, MonthlyFileName(year, month, "xlsx"))
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
	return path
}

// WriteReferenceCSV writes CPI.csv with one row per label
func WriteReferenceCSV(t *testing.T, dir string, labels []string, values []float64) string {
	t.Helper()

	records := [][]string{{"Month", "Index"}}
	for i, l := range labels {
		records = append(records, []string{l, fmt.Sprintf("%g", values[i])})
	}
	path := filepath.Join(dir, "CPI.csv")
	WriteCSV(t, path, records)
	return path
}

// Dataset describes a synthetic ONS data directory: Months consecutive
// months starting at Start, with Value(series, i) giving each series' index
// in month i. A NaN value leaves the row out.
type Dataset struct {
	Start  time.Time
	Months int
	Series []string
	Value  func(series string, i int) float64
	CPI    func(i int) float64
}

// Write creates the monthly files and CPI.csv in dir and returns the
// month labels in order
func (d Dataset) Write(t *testing.T, dir string) []string {
	t.Helper()

	labels := make([]string, 0, d.Months)
	cpi := make([]float64, 0, d.Months)
	for i := 0; i < d.Months; i++ {
		m := d.Start.AddDate(0, i, 0)

		var rows []ItemRow
		for _, s := range d.Series {
			v := d.Value(s, i)
			if math.IsNaN(v) {
				continue
			}
			rows = append(rows, Item(s, v))
		}
		WriteMonthlyCSV(t, dir, m.Year(), m.Month(), rows)

		labels = append(labels, MonthLabel(m.Year(), m.Month()))
		if d.CPI != nil {
			cpi = append(cpi, d.CPI(i))
		} else {
			cpi = append(cpi, 100+float64(i))
		}
	}

	WriteReferenceCSV(t, dir, labels, cpi)
	return labels
}
