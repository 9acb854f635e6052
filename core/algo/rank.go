// Package algo has the scoring, ranking and quantization rules shared by all aggregations.
package algo

import (
	"sort"

	"github.com/huangsam/snapcal/schema"
)

// RankEntries sorts entries by focus score in descending order, breaking ties
// by name in ascending order. The slice is sorted in place and returned.
func RankEntries(entries []schema.FocusEntry) []schema.FocusEntry {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].FocusScore != entries[j].FocusScore {
			return entries[i].FocusScore > entries[j].FocusScore
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// LimitEntries returns the top 'limit' entries. If limit is zero or greater
// than the number of entries, all entries are returned.
func LimitEntries(entries []schema.FocusEntry, limit int) []schema.FocusEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

// LimitWeeks returns copies of weeks whose initiative and member lists are
// trimmed to limit. Totals are left as computed.
func LimitWeeks(weeks []schema.WeekAggregation, limit int) []schema.WeekAggregation {
	out := make([]schema.WeekAggregation, len(weeks))
	for i, week := range weeks {
		week.Initiatives = LimitEntries(week.Initiatives, limit)
		week.Members = LimitEntries(week.Members, limit)
		out[i] = week
	}
	return out
}

// LimitSummary trims the four leaderboards of s to limit.
func LimitSummary(s schema.RangeSummaries, limit int) schema.RangeSummaries {
	s.Project.Entries = LimitEntries(s.Project.Entries, limit)
	s.Module.Entries = LimitEntries(s.Module.Entries, limit)
	s.Feature.Entries = LimitEntries(s.Feature.Entries, limit)
	s.Member.Entries = LimitEntries(s.Member.Entries, limit)
	return s
}

// TotalFocus sums the focus scores of entries.
func TotalFocus(entries []schema.FocusEntry) int {
	total := 0
	for _, e := range entries {
		total += e.FocusScore
	}
	return total
}

// TotalDone sums the done task counts of entries.
func TotalDone(entries []schema.FocusEntry) int {
	total := 0
	for _, e := range entries {
		total += e.DoneTaskCount
	}
	return total
}
