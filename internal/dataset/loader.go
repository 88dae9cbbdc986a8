package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"priceshift/internal/config"
	apperrors "priceshift/internal/errors"
	"priceshift/internal/files"
)

// MonthlySheet pairs a month with its parsed extract
type MonthlySheet struct {
	Month Month
	File  string
	Sheet *Sheet
}

// Loader discovers and reads the monthly extracts and resolves the
// reference index for every discovered month
type Loader struct {
	cfg       config.DatasetConfig
	discovery *files.Discovery
	reader    *Reader
	progress  io.Writer
	logger    *slog.Logger
}

// NewLoader creates a loader. Progress lines go to progress, which may be
// nil to stay quiet.
func NewLoader(cfg config.DatasetConfig, basePath string, progress io.Writer, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Loader{
		cfg:       cfg,
		discovery: files.NewDiscovery(basePath, logger),
		reader:    NewReader(logger),
		progress:  progress,
		logger:    logger,
	}
}

// Discover lists the monthly extracts in dataDir. The month list is
// derived from file names only.
func (l *Loader) Discover(dataDir string) ([]Month, []files.MonthlyFile, error) {
	monthly, err := l.discovery.FindMonthlyFiles(dataDir, l.cfg.FilePrefix)
	if err != nil {
		return nil, nil, err
	}
	if len(monthly) == 0 {
		return nil, nil, apperrors.NewNotFoundError(
			fmt.Sprintf("monthly files with prefix %q in %s", l.cfg.FilePrefix, dataDir))
	}

	months := make([]Month, len(monthly))
	for i, f := range monthly {
		months[i] = NewMonth(f.Year, f.Month)
	}
	return months, monthly, nil
}

// ReadMonthly parses every extract in order. Each file is closed before
// the next one is opened.
func (l *Loader) ReadMonthly(ctx context.Context, monthly []files.MonthlyFile) ([]MonthlySheet, error) {
	cols := Columns{Key: l.cfg.DescriptionColumn, Value: l.cfg.IndexColumn}

	sheets := make([]MonthlySheet, 0, len(monthly))
	for _, f := range monthly {
		fmt.Fprintf(l.progress, "Reading ONS data for %d/%d...\n", int(f.Month), f.Year)

		sheet, err := l.reader.ReadFile(f.Path, cols)
		if err != nil {
			return nil, err
		}

		l.logger.DebugContext(ctx, "Read monthly file",
			slog.String("file", f.Name),
			slog.Int("rows", len(sheet.Rows)),
			slog.Int("skipped", sheet.Skipped))

		sheets = append(sheets, MonthlySheet{
			Month: NewMonth(f.Year, f.Month),
			File:  f.Name,
			Sheet: sheet,
		})
	}
	return sheets, nil
}

// LoadReference reads the reference file and resolves one value per month
// by its label. If any month stays unresolved the data is inconsistent and
// a DataConsistencyError is returned.
func (l *Loader) LoadReference(ctx context.Context, path string, months []Month) (*Series, error) {
	fmt.Fprintf(l.progress, "Reading %s data\n", l.cfg.ReferenceName)

	sheet, err := l.reader.ReadFile(path, Columns{
		Key:   l.cfg.ReferenceLabelColumn,
		Value: l.cfg.ReferenceIndexColumn,
	})
	if err != nil {
		return nil, err
	}

	lookup := make(map[string]float64, len(sheet.Rows))
	for _, row := range sheet.Rows {
		label := normalizeLabel(row.Key)
		if _, ok := lookup[label]; ok {
			l.logger.WarnContext(ctx, "Duplicate reference label, keeping first value",
				slog.String("label", label))
			continue
		}
		lookup[label] = row.Value
	}

	ref := NewSeries(l.cfg.ReferenceName)
	var unresolved []string
	for _, m := range months {
		if v, ok := lookup[m.Label()]; ok {
			ref.Values[m] = v
			continue
		}
		unresolved = append(unresolved, m.Label())
	}

	if len(unresolved) > 0 {
		return nil, apperrors.NewDataConsistencyError(len(ref.Values), len(months), unresolved).
			WithContext("file", path)
	}

	l.logger.InfoContext(ctx, "Reference index resolved",
		slog.String("series", ref.Name),
		slog.Int("months", len(ref.Values)))
	return ref, nil
}

// normalizeLabel upper-cases a label and collapses inner whitespace
func normalizeLabel(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
