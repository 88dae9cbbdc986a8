// Package analysis rebases index series to a baseline month and compares
// the months before and after it.
//
// Normalize divides each series by its own baseline value. Comparator
// takes windows counted in positions of the month list around the
// baseline, reports the difference of window means and runs a one-sided
// Welch t-test (prior mean greater than subsequent mean). Rank orders the
// results for reporting and Sensitivity sweeps the t-test window over a
// synthetically shifted series.
package analysis
