package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "priceshift/internal/errors"
)

func TestNormalize(t *testing.T) {
	nan := math.NaN()
	tbl := makeTable(
		[]float64{105.1, 107.3, 108.9},
		map[string][]float64{
			"A": {97.3, 101.9, 88.4},
			"B": {nan, 3.7, 4.1},
		},
		"A", "B",
	)
	baseline := start.AddMonths(1)

	norm, bases, err := Normalize(tbl, baseline)
	require.NoError(t, err)

	for _, s := range norm.All() {
		v, ok := s.Value(baseline)
		require.True(t, ok)
		assert.Equal(t, 1.0, v, "series %s must be exactly 1 at the baseline", s.Name)
	}

	assert.Equal(t, Baselines{"CPI": 107.3, "A": 101.9, "B": 3.7}, bases)

	for _, orig := range tbl.All() {
		ns, ok := norm.Lookup(orig.Name)
		require.True(t, ok)
		assert.Len(t, ns.Values, len(orig.Values), "gaps are preserved")
		for m, raw := range orig.Values {
			got, ok := bases.Reconstruct(orig.Name, ns.Values[m])
			require.True(t, ok)
			assert.InDelta(t, raw, got, 1e-9)
			assert.Equal(t, raw/bases[orig.Name], ns.Values[m])
		}
	}

	a, _ := tbl.Lookup("A")
	assert.Equal(t, 97.3, a.Values[start], "input table is not modified")
}

func TestNormalize_Errors(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name     string
		values   []float64
		baseline int
		wantType apperrors.ErrorType
	}{
		{"baseline month absent", []float64{1, 2, 3}, 5, apperrors.ErrTypeNotFound},
		{"series missing at baseline", []float64{1, nan, 3}, 1, apperrors.ErrTypeValidation},
		{"zero baseline", []float64{1, 0, 3}, 1, apperrors.ErrTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := makeTable([]float64{1, 1, 1}, map[string][]float64{"A": tt.values}, "A")
			_, _, err := Normalize(tbl, start.AddMonths(tt.baseline))
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestBaselines_ReconstructUnknown(t *testing.T) {
	_, ok := Baselines{}.Reconstruct("X", 1)
	assert.False(t, ok)
}
