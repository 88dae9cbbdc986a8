package exporter

import (
	"math"
	"strconv"
	"strings"

	"priceshift/internal/dataset"
)

const (
	// consoleDateLayout is the day-first date used in the console block
	consoleDateLayout = "02/01/2006"
)

// formatFloat renders a value the way an interactive interpreter echoes
// it: the shortest round-tripping form, always with a fractional part or
// an exponent, "nan" and "inf" for non-finite values
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	if f != 0 {
		sci := strconv.FormatFloat(f, 'e', -1, 64)
		exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
		if exp < -4 || exp >= 16 {
			return sci
		}
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// formatValue formats an observation; missing observations are empty
func formatValue(s *dataset.Series, m dataset.Month) string {
	v, ok := s.Value(m)
	if !ok {
		return ""
	}
	return formatFloat(v)
}

// formatPercent formats a fraction as a percentage with two decimals
func formatPercent(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f*100, 'f', 2, 64)
}

// consoleName strips commas and replaces spaces so a name fits a
// comma-separated row
func consoleName(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, ",", ""), " ", "_")
}
