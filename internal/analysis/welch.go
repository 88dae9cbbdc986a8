package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TTestResult is the outcome of a one-sided Welch t-test
type TTestResult struct {
	Statistic float64
	PValue    float64
	DF        float64
	PriorN    int
	NextN     int
}

// Defined reports whether both samples were large enough for a test
func (r TTestResult) Defined() bool {
	return r.PriorN >= 2 && r.NextN >= 2
}

// WelchGreater tests whether the mean of prior exceeds the mean of next
// without assuming equal variances. The p-value is the upper tail of
// Student's t at the Welch-Satterthwaite degrees of freedom. When both
// variances are zero the degrees of freedom fall back to 1. Samples with
// fewer than two values give NaN results.
func WelchGreater(prior, next []float64) TTestResult {
	r := TTestResult{PriorN: len(prior), NextN: len(next)}
	if !r.Defined() {
		r.Statistic, r.PValue, r.DF = math.NaN(), math.NaN(), math.NaN()
		return r
	}

	m1, v1 := stat.MeanVariance(prior, nil)
	m2, v2 := stat.MeanVariance(next, nil)
	n1, n2 := float64(len(prior)), float64(len(next))

	se1, se2 := v1/n1, v2/n2
	r.Statistic = (m1 - m2) / math.Sqrt(se1+se2)

	r.DF = (se1 + se2) * (se1 + se2) / (se1*se1/(n1-1) + se2*se2/(n2-1))
	if math.IsNaN(r.DF) {
		r.DF = 1
	}

	switch {
	case math.IsNaN(r.Statistic):
		r.PValue = math.NaN()
	case math.IsInf(r.Statistic, 1):
		r.PValue = 0
	case math.IsInf(r.Statistic, -1):
		r.PValue = 1
	default:
		r.PValue = distuv.StudentsT{Mu: 0, Sigma: 1, Nu: r.DF}.Survival(r.Statistic)
	}
	return r
}
