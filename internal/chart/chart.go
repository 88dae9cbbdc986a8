package chart

import (
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"priceshift/internal/config"
	apperrors "priceshift/internal/errors"
)

// Renderer draws the run's charts. The output format follows the file
// extension (png, svg or pdf).
type Renderer struct {
	cfg    config.ChartConfig
	logger *slog.Logger
}

// NewRenderer creates a chart renderer
func NewRenderer(cfg config.ChartConfig, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{cfg: cfg, logger: logger}
}

func (r *Renderer) save(p *plot.Plot, path string) error {
	w := vg.Length(r.cfg.Width) * vg.Inch
	h := vg.Length(r.cfg.Height) * vg.Inch
	if err := p.Save(w, h, path); err != nil {
		return apperrors.NewStorageError("failed to save chart", err).
			WithContext("path", path).
			WithContext("format", strings.TrimPrefix(filepath.Ext(path), "."))
	}
	r.logger.Info("Chart written", slog.String("path", path))
	return nil
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// percentTicks labels the wrapped ticker's values as percentages
type percentTicks struct {
	plot.Ticker
}

func (p percentTicks) Ticks(min, max float64) []plot.Tick {
	ticks := p.Ticker.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		pct := math.Round(ticks[i].Value*100*1e6) / 1e6
		ticks[i].Label = strconv.FormatFloat(pct, 'f', -1, 64) + "%"
	}
	return ticks
}

// maxMonthLabels bounds the labelled ticks on a monthly axis; the other
// months get unlabelled minor ticks
const maxMonthLabels = 24

// monthTicks places a tick on the first of every month. Values are Unix
// seconds.
type monthTicks struct{}

func (monthTicks) Ticks(min, max float64) []plot.Tick {
	first := time.Unix(int64(math.Ceil(min)), 0).UTC()
	m := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	if m.Before(first) {
		m = m.AddDate(0, 1, 0)
	}

	var months []time.Time
	for ; float64(m.Unix()) <= max; m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}

	step := (len(months) + maxMonthLabels - 1) / maxMonthLabels
	if step < 1 {
		step = 1
	}

	ticks := make([]plot.Tick, len(months))
	for i, t := range months {
		ticks[i].Value = float64(t.Unix())
		if i%step == 0 {
			// TimeTicks replaces any non-empty label with the formatted date
			ticks[i].Label = t.Format(time.RFC3339)
		}
	}
	return ticks
}

func unixX(t time.Time) float64 {
	return float64(t.Unix())
}
