package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceshift/internal/config"
	apperrors "priceshift/internal/errors"
)

func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	tempDir := t.TempDir()
	writer := NewCSVWriter(&config.Paths{
		BaseDir:    tempDir,
		ReportsDir: filepath.Join(tempDir, "reports"),
	}, nil)

	return writer, tempDir
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	content = bytes.TrimPrefix(content, utf8BOM)
	return strings.Split(strings.TrimSpace(string(content)), "\n")
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, filePath string)
	}{
		{
			name:     "headers and records",
			filePath: "basic.csv",
			options: WriteOptions{
				Headers: []string{"series", "2020-12"},
				Records: [][]string{{"CPI", "1.0"}, {"TOOTHBRUSH", "0.98"}},
			},
			validate: func(t *testing.T, filePath string) {
				assert.Equal(t, []string{"series,2020-12", "CPI,1.0", "TOOTHBRUSH,0.98"}, readLines(t, filePath))
			},
		},
		{
			name:     "BOM prefix",
			filePath: "bom.csv",
			options: WriteOptions{
				Headers:   []string{"series"},
				Records:   [][]string{{"CPI"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)
				assert.True(t, bytes.HasPrefix(content, utf8BOM))
			},
		},
		{
			name:     "names with commas are quoted",
			filePath: "quoted.csv",
			options: WriteOptions{
				Records: [][]string{{"DISP NAPPIES, SPEC TYPE, 20-60", "1.0"}},
			},
			validate: func(t *testing.T, filePath string) {
				assert.Equal(t, []string{`"DISP NAPPIES, SPEC TYPE, 20-60",1.0`}, readLines(t, filePath))
			},
		},
		{
			name:     "empty records",
			filePath: "empty.csv",
			options: WriteOptions{
				Headers: []string{"Col1", "Col2"},
			},
			validate: func(t *testing.T, filePath string) {
				assert.Equal(t, []string{"Col1,Col2"}, readLines(t, filePath))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, writer.WriteCSV(tt.filePath, tt.options))
			tt.validate(t, filepath.Join(tempDir, "reports", tt.filePath))
		})
	}
}

func TestCSVWriter_Append(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	require.NoError(t, writer.WriteSimpleCSV("append.csv", []string{"a", "b"}, [][]string{{"1", "2"}}))
	require.NoError(t, writer.WriteCSV("append.csv", WriteOptions{
		Headers: []string{"ignored", "header"},
		Records: [][]string{{"3", "4"}},
		Append:  true,
	}))

	lines := readLines(t, filepath.Join(tempDir, "reports", "append.csv"))
	assert.Equal(t, []string{"a,b", "1,2", "3,4"}, lines)
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	writer, _ := setupTestEnv(t)
	abs := filepath.Join(t.TempDir(), "nested", "abs.csv")

	require.NoError(t, writer.WriteSimpleCSV(abs, []string{"x"}, nil))
	assert.FileExists(t, abs)
}

func TestCSVWriter_OpenError(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	dir := filepath.Join(tempDir, "reports", "is_a_dir.csv")
	require.NoError(t, os.MkdirAll(dir, 0755))

	err := writer.WriteSimpleCSV("is_a_dir.csv", []string{"x"}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}
