package analysis

import (
	"fmt"

	"priceshift/internal/dataset"
	apperrors "priceshift/internal/errors"
)

// SensitivityResult is the t-test of the shifted series for one window
type SensitivityResult struct {
	Window int
	TTest  TTestResult
}

// SensitivityOptions configures a synthetic shift sweep
type SensitivityOptions struct {
	Series    string
	Baseline  dataset.Month
	Shift     float64
	MinWindow int
	MaxWindow int
}

// Sensitivity adds a fixed shift to every value of a series after the
// baseline and runs the t-test for each window from MinWindow to
// MaxWindow. It shows how large a window must be before a price move of
// that size registers.
func Sensitivity(t *dataset.Table, opts SensitivityOptions) ([]SensitivityResult, error) {
	s, ok := t.Lookup(opts.Series)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("series %q", opts.Series))
	}
	idx := t.Index(opts.Baseline)
	if idx < 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("baseline month %s", opts.Baseline))
	}
	if opts.MinWindow < 2 || opts.MaxWindow < opts.MinWindow {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("invalid sensitivity windows %d..%d", opts.MinWindow, opts.MaxWindow))
	}

	shifted := s.Clone()
	shifted.Name = s.Name + " (shifted)"
	for _, m := range t.Months[idx+1:] {
		if v, ok := shifted.Values[m]; ok {
			shifted.Values[m] = v + opts.Shift
		}
	}

	results := make([]SensitivityResult, 0, opts.MaxWindow-opts.MinWindow+1)
	for w := opts.MinWindow; w <= opts.MaxWindow; w++ {
		prior, next := Split(t, shifted, idx, w)
		results = append(results, SensitivityResult{
			Window: w,
			TTest:  WelchGreater(prior.Values, next.Values),
		})
	}
	return results, nil
}
