// Package operations runs the price index analysis as a sequence of steps.
//
// Manager executes the steps held in a Registry in registration order,
// wrapping each in a trace span and recording its status and duration.
// A failed step ends the run: the remaining steps are marked skipped, so a
// data consistency failure in the reference step leaves no report, chart or
// console block behind. Steps that implement Skipper may also opt out, as
// the sensitivity sweep and chart rendering do when disabled.
//
// NewPipeline builds the registry for a full run:
//
//	discover -> reference -> read -> extract -> normalize ->
//	compare -> sensitivity -> export -> render
//
// Steps share an OperationState, which carries the month list, the parsed
// sheets, the analysis table and the comparison results between them.
package operations
