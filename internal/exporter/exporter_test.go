package exporter

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"priceshift/internal/analysis"
	"priceshift/internal/dataset"
)

var (
	nov = dataset.NewMonth(2020, time.November)
	dec = dataset.NewMonth(2020, time.December)
	jan = dataset.NewMonth(2021, time.January)
)

func sampleTable() *dataset.Table {
	cpi := dataset.NewSeries("CPI")
	cpi.Values[nov], cpi.Values[dec], cpi.Values[jan] = 0.999, 1, 1.0065

	tampons := dataset.NewSeries("TAMPONS-PACK OF 10-20")
	tampons.Values[nov], tampons.Values[dec], tampons.Values[jan] = 1.02, 1, 0.95

	nappies := dataset.NewSeries("DISP NAPPIES, SPEC TYPE, 20-60")
	nappies.Values[nov], nappies.Values[jan] = 0.99, 1.01

	return &dataset.Table{
		Months:    []dataset.Month{nov, dec, jan},
		Reference: cpi,
		Series:    []*dataset.Series{tampons, nappies},
	}
}

func sampleResults() []analysis.Comparison {
	return []analysis.Comparison{
		{
			Series: "TAMPONS-PACK OF 10-20", PriorMean: 1.01, SubsequentMean: 0.95, Change: -0.06,
			PriorN: 2, SubsequentN: 1,
			TTest: analysis.TTestResult{Statistic: 6.6057825907581815, PValue: 3.0171230226419458e-05, DF: 10, PriorN: 6, NextN: 6},
		},
		{
			Series: "DISP NAPPIES, SPEC TYPE, 20-60", PriorMean: 0.99, SubsequentMean: 1.01, Change: 0.02,
			PriorN: 1, SubsequentN: 1,
			TTest: analysis.TTestResult{Statistic: math.NaN(), PValue: math.NaN(), DF: math.NaN(), PriorN: 1, NextN: 1},
		},
	}
}

func TestIndicesExporter_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	tbl := sampleTable()
	path := filepath.Join(dir, "normalised_indices.csv")

	require.NoError(t, NewIndicesExporter(nil, nil).ExportIndices(tbl, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(content, utf8BOM))

	records, err := csv.NewReader(bytes.NewReader(content[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"series", "2020-11", "2020-12", "2021-01"}, records[0])
	assert.Equal(t, "CPI", records[1][0], "reference comes first")

	for _, rec := range records[1:] {
		s, ok := tbl.Lookup(rec[0])
		require.True(t, ok, rec[0])
		for i, m := range tbl.Months {
			want, present := s.Value(m)
			if !present {
				assert.Empty(t, rec[i+1])
				continue
			}
			got, err := strconv.ParseFloat(rec[i+1], 64)
			require.NoError(t, err)
			assert.Equal(t, want, got, "%s %s", s.Name, m)
		}
	}
}

func TestComparisonExporter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "price_changes.csv")

	require.NoError(t, NewComparisonExporter(nil, nil).ExportComparison(sampleResults(), path))

	lines := readLines(t, path)
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(comparisonHeaders(), ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,TAMPONS-PACK OF 10-20,false,1.01,0.95,-0.06,-6.00,2,1,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], `2,"DISP NAPPIES, SPEC TYPE, 20-60",false,`), lines[2])
	assert.True(t, strings.HasSuffix(lines[2], ",nan,nan,nan"), lines[2])
}

func TestConsoleReport_WriteIndices(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleReport(&buf).WriteIndices(sampleTable()))

	expected := "\nFinal data for export to Excel:\n" +
		"Date, 01/11/2020, 01/12/2020, 01/01/2021\n" +
		"CPI, 0.999, 1.0, 1.0065\n" +
		"TAMPONS-PACK_OF_10-20, 1.02, 1.0, 0.95\n" +
		"DISP_NAPPIES_SPEC_TYPE_20-60, 0.99, , 1.01\n"
	assert.Equal(t, expected, buf.String())
}

func TestConsoleReport_WriteTTests(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleReport(&buf).WriteTTests(sampleResults()))

	expected := "month t-test for TAMPONS-PACK OF 10-20: statistic=6.6057825907581815, pvalue=3.0171230226419458e-05\n" +
		"month t-test for DISP NAPPIES, SPEC TYPE, 20-60: statistic=nan, pvalue=nan\n"
	assert.Equal(t, expected, buf.String())
}

func TestConsoleReport_WriteSensitivity(t *testing.T) {
	var buf bytes.Buffer
	results := []analysis.SensitivityResult{
		{Window: 2, TTest: analysis.TTestResult{Statistic: -1.5, PValue: 0.9}},
		{Window: 3, TTest: analysis.TTestResult{Statistic: -2, PValue: 0.95}},
	}
	require.NoError(t, NewConsoleReport(&buf).WriteSensitivity(results))

	assert.Equal(t,
		"Synthetic 2 month t-test: statistic=-1.5, pvalue=0.9\n"+
			"Synthetic 3 month t-test: statistic=-2.0, pvalue=0.95\n",
		buf.String())
}

func TestWorkbookExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "priceshift.xlsx")
	require.NoError(t, NewWorkbookExporter(nil).ExportWorkbook(sampleTable(), sampleResults(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{IndicesSheet, ComparisonSheet}, f.GetSheetList())

	rows, err := f.GetRows(IndicesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Date", "01/11/2020", "01/12/2020", "01/01/2021"}, rows[0])
	assert.Equal(t, "CPI", rows[1][0])
	assert.Equal(t, "DISP NAPPIES, SPEC TYPE, 20-60", rows[3][0])

	raw, err := f.GetCellValue(IndicesSheet, "C4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Empty(t, raw, "missing observations stay blank")

	change, err := f.GetCellValue(ComparisonSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "-6.00%", change)

	series, err := f.GetCellValue(ComparisonSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "TAMPONS-PACK OF 10-20", series)

	pvalue, err := f.GetCellValue(ComparisonSheet, "I3")
	require.NoError(t, err)
	assert.Empty(t, pvalue, "undefined p-values stay blank")
}
