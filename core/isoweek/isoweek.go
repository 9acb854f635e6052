// Package isoweek maps calendar dates to ISO 8601 week keys and back.
package isoweek

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/snapcal/schema"
)

const daysPerWeek = 7

// ToWeekKey returns the ISO week containing the civil date of t in t's own location.
// Dates in late December or early January can belong to the adjacent ISO year.
func ToWeekKey(t time.Time) schema.WeekKey {
	year, week := t.ISOWeek()
	return schema.WeekKey{Year: year, WeekIndex: week}
}

// Day returns the calendar day of t, in t's own location, as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MondayOf returns the Monday (00:00 UTC) of the ISO week that contains t.
func MondayOf(t time.Time) time.Time {
	d := Day(t)
	offset := (int(d.Weekday()) + 6) % daysPerWeek
	return d.AddDate(0, 0, -offset)
}

// WeekStart returns the Monday (00:00 UTC) of the given week.
// Week 1 is the week containing January 4th.
func WeekStart(key schema.WeekKey) time.Time {
	jan4 := time.Date(key.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	return MondayOf(jan4).AddDate(0, 0, (key.WeekIndex-1)*daysPerWeek)
}

// WeekKeyToDateRange returns the Monday and Sunday (both 00:00 UTC) of the given week.
func WeekKeyToDateRange(key schema.WeekKey) (start, end time.Time) {
	start = WeekStart(key)
	return start, start.AddDate(0, 0, daysPerWeek-1)
}

// Contains reports whether the civil date of t falls inside the given week.
func Contains(key schema.WeekKey, t time.Time) bool {
	start, end := WeekKeyToDateRange(key)
	d := Day(t)
	return !d.Before(start) && !d.After(end)
}

// WeeksInYear returns 52 or 53, the number of ISO weeks in an ISO year.
// December 28th always falls in the last week.
func WeeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// Valid reports whether the key names an existing ISO week.
func Valid(key schema.WeekKey) bool {
	return key.WeekIndex >= 1 && key.WeekIndex <= WeeksInYear(key.Year)
}

// AddWeeks moves a key n weeks forward, or backward when n is negative.
func AddWeeks(key schema.WeekKey, n int) schema.WeekKey {
	return ToWeekKey(WeekStart(key).AddDate(0, 0, n*daysPerWeek))
}

// Window returns n consecutive week keys ending with the week that contains now,
// ordered oldest to newest.
func Window(now time.Time, n int) []schema.WeekKey {
	if n <= 0 {
		return nil
	}
	anchor := MondayOf(now)
	keys := make([]schema.WeekKey, n)
	for i := range n {
		keys[i] = ToWeekKey(anchor.AddDate(0, 0, -(n-1-i)*daysPerWeek))
	}
	return keys
}

// ParseWeekKey parses keys like "2025-W01" (the "W" is case-insensitive).
func ParseWeekKey(s string) (schema.WeekKey, error) {
	yearStr, weekStr, ok := strings.Cut(strings.ToUpper(strings.TrimSpace(s)), "-W")
	if !ok || len(yearStr) != 4 || len(weekStr) == 0 || len(weekStr) > 2 {
		return schema.WeekKey{}, fmt.Errorf("invalid week key %q: expected YYYY-Www", s)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return schema.WeekKey{}, fmt.Errorf("invalid week key year %q: %w", yearStr, err)
	}
	week, err := strconv.Atoi(weekStr)
	if err != nil {
		return schema.WeekKey{}, fmt.Errorf("invalid week key number %q: %w", weekStr, err)
	}
	key := schema.WeekKey{Year: year, WeekIndex: week}
	if !Valid(key) {
		return schema.WeekKey{}, fmt.Errorf("week %d does not exist in ISO year %d", week, year)
	}
	return key, nil
}
