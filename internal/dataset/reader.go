package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "priceshift/internal/errors"
)

// Row is one keyed value from an extract: an item description and its
// index, or a reference label and its index
type Row struct {
	Key   string
	Value float64
}

// Sheet is the parsed content of one file
type Sheet struct {
	Rows    []Row
	Scanned int
	Skipped int
}

// Columns names the key and value columns to read
type Columns struct {
	Key   string
	Value string
}

// Reader parses monthly extracts and the reference file. CSV and XLSX
// are supported, chosen by extension.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a reader
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// ReadFile reads the key and value columns from path
func (r *Reader) ReadFile(path string, cols Columns) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return r.readCSV(path, cols)
	case ".xlsx":
		return r.readXLSX(path, cols)
	default:
		return nil, apperrors.NewParsingError(fmt.Sprintf("unsupported file type %s", filepath.Base(path)), nil)
	}
}

func (r *Reader) readCSV(path string, cols Columns) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", filepath.Base(path)), err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read %s", filepath.Base(path)), err)
	}

	sheet, ok := r.parse(filepath.Base(path), records, cols)
	if !ok {
		return nil, missingColumnsError(path, cols)
	}
	return sheet, nil
}

// readXLSX reads the first sheet whose rows contain both header names
func (r *Reader) readXLSX(path string, cols Columns) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open %s", filepath.Base(path)), err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %s of %s", name, filepath.Base(path)), err)
		}
		if sheet, ok := r.parse(filepath.Base(path), rows, cols); ok {
			r.logger.Debug("Read workbook sheet",
				slog.String("file", filepath.Base(path)),
				slog.String("sheet", name))
			return sheet, nil
		}
	}
	return nil, missingColumnsError(path, cols)
}

// parse locates the header row and reads every row after it. Rows whose
// value is not a finite number are skipped. Keys are kept verbatim.
func (r *Reader) parse(file string, records [][]string, cols Columns) (*Sheet, bool) {
	header := -1
	keyIdx, valIdx := -1, -1
	for i, rec := range records {
		keyIdx, valIdx = columnIndex(rec, cols.Key), columnIndex(rec, cols.Value)
		if keyIdx >= 0 && valIdx >= 0 {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, false
	}

	sheet := &Sheet{}
	for i, rec := range records[header+1:] {
		sheet.Scanned++
		if keyIdx >= len(rec) || valIdx >= len(rec) {
			sheet.Skipped++
			continue
		}

		raw := strings.TrimSpace(rec[valIdx])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			sheet.Skipped++
			r.logger.Debug("Skipping row with non-numeric value",
				slog.String("file", file),
				slog.Int("row", header+i+2),
				slog.String("value", raw))
			continue
		}

		sheet.Rows = append(sheet.Rows, Row{Key: rec[keyIdx], Value: v})
	}
	return sheet, true
}

// columnIndex finds name in a header row, ignoring case, surrounding
// spaces and a UTF-8 byte order mark
func columnIndex(header []string, name string) int {
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func missingColumnsError(path string, cols Columns) error {
	return apperrors.NewParsingError(
		fmt.Sprintf("%s has no header with columns %s and %s", filepath.Base(path), cols.Key, cols.Value), nil).
		WithContext("file", path)
}
