package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "priceshift/internal/errors"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// MonthlyFile is an index extract whose month is encoded in its name
type MonthlyFile struct {
	FileInfo
	Year  int
	Month time.Month
	Ext   string
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
	logger   *slog.Logger
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{basePath: basePath, logger: logger}
}

// monthlyPattern builds the regex for <prefix><YYYY><MM>.csv|xlsx
func monthlyPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(\d{4})(\d{2})\.(?i:(csv|xlsx))$`)
}

// FindMonthlyFiles returns the monthly extracts in dir sorted by month.
// Names with an impossible month are skipped with a warning; two files for
// the same month are an error.
func (d *Discovery) FindMonthlyFiles(dir, prefix string) ([]MonthlyFile, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read directory %s", fullPath), err)
	}

	re := monthlyPattern(prefix)
	seen := make(map[string]string)

	var files []MonthlyFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			d.logger.Warn("Skipping file with invalid month",
				slog.String("file", name),
				slog.Int("month", month))
			continue
		}

		key := m[1] + m[2]
		if prev, ok := seen[key]; ok {
			return nil, apperrors.NewAppValidationError(
				fmt.Sprintf("duplicate monthly files for %s-%s", m[1], m[2])).
				WithContext("files", []string{prev, name})
		}
		seen[key] = name

		info, err := entry.Info()
		if err != nil {
			return nil, apperrors.NewStorageError(fmt.Sprintf("failed to stat %s", name), err)
		}

		files = append(files, MonthlyFile{
			FileInfo: FileInfo{
				Path:    filepath.Join(fullPath, name),
				Name:    name,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			},
			Year:  year,
			Month: time.Month(month),
			Ext:   strings.ToLower(m[3]),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Year != files[j].Year {
			return files[i].Year < files[j].Year
		}
		return files[i].Month < files[j].Month
	})

	d.logger.Debug("Discovered monthly files",
		slog.String("dir", fullPath),
		slog.Int("count", len(files)))

	return files, nil
}

// resolve joins relative directories to the base path
func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}
