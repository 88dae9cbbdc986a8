package dataset

import (
	"fmt"
	"strings"
	"time"
)

// monthLayout is the ISO form used in configuration and report headers
const monthLayout = "2006-01"

// Month is a calendar month. Its zero value is not a valid month.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth returns the month for year and m
func NewMonth(year int, m time.Month) Month {
	return Month{Year: year, Month: m}
}

// MonthOf returns the month containing t
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses the ISO form, e.g. "2020-12"
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// Time returns the first instant of the month in UTC
func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Label returns the reference file form, e.g. "2021 JAN"
func (m Month) Label() string {
	return fmt.Sprintf("%d %s", m.Year, strings.ToUpper(m.Month.String()[:3]))
}

// String returns the ISO form, e.g. "2021-01"
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Before reports whether m is earlier than o
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// AddMonths returns the month n months after m
func (m Month) AddMonths(n int) Month {
	return MonthOf(m.Time().AddDate(0, n, 0))
}
