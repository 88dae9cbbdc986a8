package analysis

import (
	"math"
	"time"

	"priceshift/internal/dataset"
)

var start = dataset.NewMonth(2020, time.June)

// makeTable builds a table of consecutive months from start with one
// series per entry of values. NaN entries are left out.
func makeTable(ref []float64, values map[string][]float64, order ...string) *dataset.Table {
	n := len(ref)
	months := make([]dataset.Month, n)
	for i := range months {
		months[i] = start.AddMonths(i)
	}

	toSeries := func(name string, vals []float64) *dataset.Series {
		s := dataset.NewSeries(name)
		for i, v := range vals {
			if !math.IsNaN(v) {
				s.Values[months[i]] = v
			}
		}
		return s
	}

	t := &dataset.Table{Months: months, Reference: toSeries("CPI", ref)}
	for _, name := range order {
		t.Series = append(t.Series, toSeries(name, values[name]))
	}
	return t
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
