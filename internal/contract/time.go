package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/snapcal/schema"
)

// MonthLayout is the layout of a single-month filter.
const MonthLayout = "2006-01"

// ParseMonthFilter parses "all" (or an empty string) and "YYYY-MM" month filters.
func ParseMonthFilter(s string) (schema.MonthFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return schema.AllMonths, nil
	}
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return schema.MonthFilter{}, fmt.Errorf("invalid month '%s'. Expected 'all' or YYYY-MM", s)
	}
	return schema.ForMonth(t.Year(), t.Month()), nil
}

// ParseNow resolves the reference time of a run. It accepts an empty string or
// "now" (meaning clock), a YYYY-MM-DD date, an RFC3339 timestamp or "N [units] ago".
func ParseNow(s string, clock time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "now") {
		return clock, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateTimeFormat, s); err == nil {
		return t, nil
	}
	if t, err := ParseRelativeTime(s, clock); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid now '%s'. Expected YYYY-MM-DD, RFC3339 or 'N [units] ago'", s)
}

// Define the regular expression to capture "N [units] ago"
// e.g., "2 years ago", "3 months ago", "1 week ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day)s?\s+ago$`)

// ParseRelativeTime converts strings like "2 weeks ago" into a time.Time in the past.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	matches := relativeTimeRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	// 1: Value (e.g., "2")
	// 2: Unit (e.g., "week")
	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid relative time value: %w", err)
	}

	switch matches[2] {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	case "week":
		return now.AddDate(0, 0, -7*value), nil
	default:
		return now.AddDate(0, 0, -value), nil
	}
}

// ParseMemberList splits a comma separated member list into unique name keys.
func ParseMemberList(s string) []string {
	var members []string
	seen := make(map[string]struct{})
	for part := range strings.SplitSeq(s, ",") {
		key := schema.NameKey(part)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		members = append(members, key)
	}
	return members
}
