package schema

import (
	"cmp"
	"fmt"
	"time"
)

// WeekKey is the canonical identity of an ISO 8601 week.
type WeekKey struct {
	Year      int `json:"year"`
	WeekIndex int `json:"weekIndex"`
}

// String renders the key as YYYY-Www.
func (k WeekKey) String() string {
	return fmt.Sprintf("%04d-W%02d", k.Year, k.WeekIndex)
}

// Compare orders keys chronologically.
func (k WeekKey) Compare(other WeekKey) int {
	if c := cmp.Compare(k.Year, other.Year); c != 0 {
		return c
	}
	return cmp.Compare(k.WeekIndex, other.WeekIndex)
}

// IsZero reports whether the key is unset.
func (k WeekKey) IsZero() bool {
	return k.Year == 0 && k.WeekIndex == 0
}

// MonthFilter selects either every week or the weeks starting in one calendar month.
type MonthFilter struct {
	All   bool       `json:"all"`
	Year  int        `json:"year,omitempty"`
	Month time.Month `json:"month,omitempty"`
}

// AllMonths is the sentinel filter that includes every week.
var AllMonths = MonthFilter{All: true}

// ForMonth builds a filter for a single calendar month.
func ForMonth(year int, month time.Month) MonthFilter {
	return MonthFilter{Year: year, Month: month}
}

// String renders the filter as "all" or YYYY-MM.
func (f MonthFilter) String() string {
	if f.All {
		return "all"
	}
	return fmt.Sprintf("%04d-%02d", f.Year, int(f.Month))
}

// Includes reports whether a week starting on weekStart belongs to the filter.
func (f MonthFilter) Includes(weekStart time.Time) bool {
	if f.All {
		return true
	}
	return weekStart.Year() == f.Year && weekStart.Month() == f.Month
}
