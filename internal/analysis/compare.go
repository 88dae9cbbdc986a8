package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"priceshift/internal/dataset"
	apperrors "priceshift/internal/errors"
)

// Comparison is the before/after result for one series
type Comparison struct {
	Series  string
	Derived bool

	PriorMean      float64
	SubsequentMean float64
	Change         float64
	PriorN         int
	SubsequentN    int

	TTest TTestResult
}

// Options configures a Comparator
type Options struct {
	Baseline     dataset.Month
	TTestWindow  int
	ChangeWindow int
}

// Comparator computes windowed price changes and t-tests around the
// baseline month
type Comparator struct {
	opts   Options
	logger *slog.Logger
}

// NewComparator creates a comparator
func NewComparator(opts Options, logger *slog.Logger) *Comparator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Comparator{opts: opts, logger: logger}
}

// Window holds the values found in a run of months. Months without a
// value are skipped, so len(Values) may be smaller than len(Months).
type Window struct {
	Months []dataset.Month
	Values []float64
}

// Split returns the last width months up to and including the baseline
// and the first width months after it, counted in positions of the
// table's month list
func Split(t *dataset.Table, s *dataset.Series, baselineIdx, width int) (prior, subsequent Window) {
	start := baselineIdx + 1 - width
	if start < 0 {
		start = 0
	}
	end := baselineIdx + 1 + width
	if end > len(t.Months) {
		end = len(t.Months)
	}

	prior = collect(t.Months[start:baselineIdx+1], s)
	subsequent = collect(t.Months[baselineIdx+1:end], s)
	return prior, subsequent
}

func collect(months []dataset.Month, s *dataset.Series) Window {
	w := Window{Months: months}
	for _, m := range months {
		if v, ok := s.Value(m); ok {
			w.Values = append(w.Values, v)
		}
	}
	return w
}

// Compare runs the comparison for every non-reference series in t, in
// table order
func (c *Comparator) Compare(ctx context.Context, t *dataset.Table) ([]Comparison, error) {
	idx := t.Index(c.opts.Baseline)
	if idx < 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("baseline month %s", c.opts.Baseline))
	}
	if idx == len(t.Months)-1 {
		c.logger.WarnContext(ctx, "No months after the baseline",
			slog.String("baseline", c.opts.Baseline.String()))
	}

	results := make([]Comparison, 0, len(t.Series))
	for _, s := range t.Series {
		r := c.CompareSeries(t, s, idx)
		if !r.TTest.Defined() {
			c.logger.WarnContext(ctx, "Too few observations for t-test",
				slog.String("series", s.Name),
				slog.Int("prior_n", r.TTest.PriorN),
				slog.Int("subsequent_n", r.TTest.NextN))
		}
		results = append(results, r)
	}
	return results, nil
}

// CompareSeries computes the comparison for s with the baseline at
// position baselineIdx
func (c *Comparator) CompareSeries(t *dataset.Table, s *dataset.Series, baselineIdx int) Comparison {
	prior, next := Split(t, s, baselineIdx, c.opts.ChangeWindow)
	tPrior, tNext := Split(t, s, baselineIdx, c.opts.TTestWindow)

	r := Comparison{
		Series:         s.Name,
		Derived:        s.Derived,
		PriorMean:      mean(prior.Values),
		SubsequentMean: mean(next.Values),
		PriorN:         len(prior.Values),
		SubsequentN:    len(next.Values),
		TTest:          WelchGreater(tPrior.Values, tNext.Values),
	}
	r.Change = r.SubsequentMean - r.PriorMean
	return r
}

// ChangeRange returns the months bounding the change window, clamped to
// the month list
func (c *Comparator) ChangeRange(t *dataset.Table) (from, to dataset.Month, ok bool) {
	idx := t.Index(c.opts.Baseline)
	if idx < 0 || len(t.Months) == 0 {
		return dataset.Month{}, dataset.Month{}, false
	}
	lo := idx - c.opts.ChangeWindow
	if lo < 0 {
		lo = 0
	}
	hi := idx + c.opts.ChangeWindow
	if hi > len(t.Months)-1 {
		hi = len(t.Months) - 1
	}
	return t.Months[lo], t.Months[hi], true
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(v, nil)
}

// Rank returns the comparisons sorted by ascending change. Undefined
// changes sort last; ties are broken by name.
func Rank(results []Comparison) []Comparison {
	ranked := append([]Comparison(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		aNaN, bNaN := math.IsNaN(a.Change), math.IsNaN(b.Change)
		switch {
		case aNaN != bNaN:
			return bNaN
		case !aNaN && a.Change != b.Change:
			return a.Change < b.Change
		default:
			return a.Series < b.Series
		}
	})
	return ranked
}
