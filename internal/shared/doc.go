// Package shared holds helpers used by more than one package.
//
// testutil captures slog output for assertions and writes synthetic ONS
// monthly extracts, workbooks and CPI reference files for tests.
package shared
