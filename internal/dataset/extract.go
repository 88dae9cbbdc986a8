package dataset

import (
	"context"
	"log/slog"
	"sort"

	"priceshift/internal/config"
)

// ExtractStats summarises one extraction pass
type ExtractStats struct {
	RowsScanned int
	Matched     int
	Duplicates  int
}

// Extract scans each monthly sheet once and records, for every target, the
// value of the first row whose description equals it exactly. Later rows
// for a target already seen that month are ignored with a warning.
func Extract(ctx context.Context, sheets []MonthlySheet, targets []string, logger *slog.Logger) ([]*Series, ExtractStats) {
	if logger == nil {
		logger = slog.Default()
	}

	series := make([]*Series, len(targets))
	byName := make(map[string]*Series, len(targets))
	for i, name := range targets {
		series[i] = NewSeries(name)
		byName[name] = series[i]
	}

	var stats ExtractStats
	for _, ms := range sheets {
		for _, row := range ms.Sheet.Rows {
			stats.RowsScanned++

			s, ok := byName[row.Key]
			if !ok {
				continue
			}
			if _, seen := s.Values[ms.Month]; seen {
				stats.Duplicates++
				logger.WarnContext(ctx, "Duplicate item row ignored",
					slog.String("series", s.Name),
					slog.String("month", ms.Month.String()),
					slog.String("file", ms.File),
					slog.Float64("ignored_value", row.Value))
				continue
			}
			s.Values[ms.Month] = row.Value
			stats.Matched++
		}
	}

	return series, stats
}

// Derive builds a series as the unweighted mean of its components. A month
// where any component is missing is missing in the result.
func Derive(name string, components []*Series, months []Month) *Series {
	d := NewSeries(name)
	d.Derived = true
	if len(components) == 0 {
		return d
	}

	for _, m := range months {
		var sum float64
		complete := true
		for _, c := range components {
			v, ok := c.Values[m]
			if !ok {
				complete = false
				break
			}
			sum += v
		}
		if complete {
			d.Values[m] = sum / float64(len(components))
		}
	}
	return d
}

// BuildTable assembles the analysis table: the target first, the other
// goods alphabetically, derived series last in configured order. Missing
// observations are collected and logged, one warning per pair.
func BuildTable(ctx context.Context, months []Month, reference *Series, extracted []*Series, basket config.BasketConfig, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}

	byName := make(map[string]*Series, len(extracted))
	var goods []*Series
	var target *Series
	for _, s := range extracted {
		byName[s.Name] = s
		if s.Name == basket.Target {
			target = s
			continue
		}
		goods = append(goods, s)
	}
	sort.SliceStable(goods, func(i, j int) bool { return goods[i].Name < goods[j].Name })

	ordered := make([]*Series, 0, len(extracted)+len(basket.Derived))
	if target != nil {
		ordered = append(ordered, target)
	}
	ordered = append(ordered, goods...)

	for _, def := range basket.Derived {
		comps := make([]*Series, 0, len(def.Components))
		for _, name := range def.Components {
			if c, ok := byName[name]; ok {
				comps = append(comps, c)
			}
		}
		if len(comps) != len(def.Components) {
			logger.WarnContext(ctx, "Derived series has components that were not extracted",
				slog.String("series", def.Name),
				slog.Any("components", def.Components))
			comps = nil
		}
		ordered = append(ordered, Derive(def.Name, comps, months))
	}

	t := &Table{
		Months:    append([]Month(nil), months...),
		Reference: reference,
		Series:    ordered,
		Missing:   collectMissing(months, ordered),
	}

	for _, m := range t.Missing {
		logger.WarnContext(ctx, "Missing observation",
			slog.String("series", m.Series),
			slog.String("month", m.Month.String()))
	}

	return t
}
