package analysis

import (
	"fmt"

	"priceshift/internal/dataset"
	apperrors "priceshift/internal/errors"
)

// Baselines holds the raw value of every series at the baseline month,
// keyed by series name. raw = normalised * baseline.
type Baselines map[string]float64

// Normalize rebases every series, the reference included, to 1.0 at the
// baseline month by dividing by its own baseline value. The input table is
// left untouched.
func Normalize(t *dataset.Table, baseline dataset.Month) (*dataset.Table, Baselines, error) {
	if t.Index(baseline) < 0 {
		return nil, nil, apperrors.NewNotFoundError(fmt.Sprintf("baseline month %s", baseline)).
			WithContext("first_month", firstMonth(t)).
			WithContext("last_month", lastMonth(t))
	}

	out := t.Clone()
	bases := make(Baselines, len(out.Series)+1)

	for _, s := range out.All() {
		base, ok := s.Value(baseline)
		if !ok {
			return nil, nil, apperrors.NewAppValidationError(
				fmt.Sprintf("series %q has no value at baseline month %s", s.Name, baseline)).
				WithContext("series", s.Name)
		}
		if base == 0 {
			return nil, nil, apperrors.NewAppValidationError(
				fmt.Sprintf("series %q is zero at baseline month %s", s.Name, baseline)).
				WithContext("series", s.Name)
		}

		for m, v := range s.Values {
			s.Values[m] = v / base
		}
		bases[s.Name] = base
	}

	return out, bases, nil
}

// Reconstruct returns the raw value of a normalised one
func (b Baselines) Reconstruct(series string, normalised float64) (float64, bool) {
	base, ok := b[series]
	if !ok {
		return 0, false
	}
	return normalised * base, true
}

func firstMonth(t *dataset.Table) string {
	if len(t.Months) == 0 {
		return ""
	}
	return t.Months[0].String()
}

func lastMonth(t *dataset.Table) string {
	if len(t.Months) == 0 {
		return ""
	}
	return t.Months[len(t.Months)-1].String()
}
