package exporter

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"priceshift/internal/dataset"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"baseline", 1.0, "1.0"},
		{"zero", 0, "0.0"},
		{"integer", 123, "123.0"},
		{"negative integer", -456, "-456.0"},
		{"shortest round trip", 1.0123456789, "1.0123456789"},
		{"short decimal", 0.98, "0.98"},
		{"negative decimal", -0.05, "-0.05"},
		{"small but fixed", 0.0001, "0.0001"},
		{"small exponent", 0.00001, "1e-05"},
		{"small mantissa exponent", 3.0171230226419458e-05, "3.0171230226419458e-05"},
		{"large fixed", 1234567890123456, "1234567890123456.0"},
		{"large exponent", 1.5e16, "1.5e+16"},
		{"nan", math.NaN(), "nan"},
		{"positive infinity", math.Inf(1), "inf"},
		{"negative infinity", math.Inf(-1), "-inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "-5.00", formatPercent(-0.05))
	assert.Equal(t, "1.25", formatPercent(0.0125))
	assert.Equal(t, "", formatPercent(math.NaN()))
}

func TestFormatValue(t *testing.T) {
	m := dataset.NewMonth(2021, time.January)
	s := dataset.NewSeries("X")
	s.Values[m] = 0.975

	assert.Equal(t, "0.975", formatValue(s, m))
	assert.Equal(t, "", formatValue(s, m.AddMonths(1)))
}

func TestConsoleName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"TAMPONS-PACK OF 10-20", "TAMPONS-PACK_OF_10-20"},
		{"DISP NAPPIES, SPEC TYPE, 20-60", "DISP_NAPPIES_SPEC_TYPE_20-60"},
		{"CPI", "CPI"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, consoleName(tt.input))
		})
	}
}
