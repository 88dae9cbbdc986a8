// Package dataset loads ONS item index extracts into an analysis Table.
//
// A run discovers one extract per month, reads the description and index
// columns from each (CSV or XLSX), resolves the CPI reference value for
// every month by its label ("2021 JAN"), and extracts the basket series.
// Values are keyed by Month, so a gap in one series never shifts another.
// Months without a value are kept as MissingObservation diagnostics.
package dataset
