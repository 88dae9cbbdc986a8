package dataset

import (
	"sort"
)

// Series is a named index series keyed by month. A month without a key is
// a missing observation.
type Series struct {
	Name    string
	Values  map[Month]float64
	Derived bool
}

// NewSeries creates an empty series
func NewSeries(name string) *Series {
	return &Series{Name: name, Values: make(map[Month]float64)}
}

// Value returns the value for m and whether it is present
func (s *Series) Value(m Month) (float64, bool) {
	v, ok := s.Values[m]
	return v, ok
}

// Clone returns a deep copy of s
func (s *Series) Clone() *Series {
	c := &Series{Name: s.Name, Derived: s.Derived, Values: make(map[Month]float64, len(s.Values))}
	for m, v := range s.Values {
		c.Values[m] = v
	}
	return c
}

// MissingObservation is a (series, month) pair without a value
type MissingObservation struct {
	Series string
	Month  Month
}

// Table is the analysis dataset: the month list, the reference index and
// the extracted series in display order. A Table is not modified after it
// is built; transformations return a new Table.
type Table struct {
	Months    []Month
	Reference *Series
	Series    []*Series
	Missing   []MissingObservation
}

// Lookup returns the series with the given name, the reference included
func (t *Table) Lookup(name string) (*Series, bool) {
	if t.Reference != nil && t.Reference.Name == name {
		return t.Reference, true
	}
	for _, s := range t.Series {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Index returns the position of m in the month list, or -1
func (t *Table) Index(m Month) int {
	i := sort.Search(len(t.Months), func(i int) bool { return !t.Months[i].Before(m) })
	if i < len(t.Months) && t.Months[i] == m {
		return i
	}
	return -1
}

// All returns the reference followed by the series in display order
func (t *Table) All() []*Series {
	all := make([]*Series, 0, len(t.Series)+1)
	if t.Reference != nil {
		all = append(all, t.Reference)
	}
	return append(all, t.Series...)
}

// MissingBySeries counts missing observations per series
func (t *Table) MissingBySeries() map[string]int {
	counts := make(map[string]int)
	for _, m := range t.Missing {
		counts[m.Series]++
	}
	return counts
}

// Clone returns a deep copy of t
func (t *Table) Clone() *Table {
	c := &Table{
		Months:  append([]Month(nil), t.Months...),
		Missing: append([]MissingObservation(nil), t.Missing...),
		Series:  make([]*Series, len(t.Series)),
	}
	if t.Reference != nil {
		c.Reference = t.Reference.Clone()
	}
	for i, s := range t.Series {
		c.Series[i] = s.Clone()
	}
	return c
}

// collectMissing lists every month without a value for each series
func collectMissing(months []Month, series []*Series) []MissingObservation {
	var missing []MissingObservation
	for _, s := range series {
		for _, m := range months {
			if _, ok := s.Values[m]; !ok {
				missing = append(missing, MissingObservation{Series: s.Name, Month: m})
			}
		}
	}
	return missing
}
