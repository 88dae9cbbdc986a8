// Package exporter writes the results of a run.
//
// CSVWriter is the shared CSV layer, with optional UTF-8 BOM for
// spreadsheet compatibility. IndicesExporter writes the normalised table in
// wide format and ComparisonExporter the ranked price changes.
// WorkbookExporter puts both into one XLSX file. ConsoleReport prints the
// table and t-test lines to standard output.
package exporter
