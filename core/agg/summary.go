package agg

import (
	"slices"

	"github.com/huangsam/snapcal/core/algo"
	"github.com/huangsam/snapcal/core/isoweek"
	"github.com/huangsam/snapcal/schema"
)

// SummarizeRange runs Aggregator.SummarizeRange with the default focus function.
func SummarizeRange(facts []schema.RawSnapshot, filter schema.MonthFilter) schema.RangeSummaries {
	return defaultAggregator.SummarizeRange(facts, filter)
}

// SummarizeRange merges every week included by filter into project, module,
// feature and member leaderboards. A week is included when its Monday falls in
// the filtered month, so each week lands in exactly one month bucket.
func (ag *Aggregator) SummarizeRange(facts []schema.RawSnapshot, filter schema.MonthFilter) schema.RangeSummaries {
	included := FilterByMonth(facts, filter)

	weekSet := make(map[schema.WeekKey]struct{})
	for _, f := range included {
		weekSet[f.Key()] = struct{}{}
	}

	return schema.RangeSummaries{
		Filter:  filter,
		Weeks:   sortedWeekKeys(weekSet),
		Project: ag.summarize(included, schema.ProjectDimension),
		Module:  ag.summarize(included, schema.ModuleDimension),
		Feature: ag.summarize(included, schema.FeatureDimension),
		Member:  ag.summarize(included, schema.MemberDimension),
	}
}

func (ag *Aggregator) summarize(facts []schema.RawSnapshot, dim schema.Dimension) schema.RangeSummary {
	entries := ag.groupAndRank(facts, DimensionKey(dim))
	return schema.RangeSummary{
		Dimension:  dim,
		Entries:    entries,
		TotalFocus: algo.TotalFocus(entries),
		TotalDone:  algo.TotalDone(entries),
	}
}

// FilterByMonth keeps the facts whose week starts inside the filtered month.
func FilterByMonth(facts []schema.RawSnapshot, filter schema.MonthFilter) []schema.RawSnapshot {
	if filter.All {
		return facts
	}
	var out []schema.RawSnapshot
	for _, f := range facts {
		if filter.Includes(isoweek.WeekStart(f.Key())) {
			out = append(out, f)
		}
	}
	return out
}

// MonthOf returns the month bucket a week belongs to.
func MonthOf(key schema.WeekKey) schema.MonthFilter {
	start := isoweek.WeekStart(key)
	return schema.ForMonth(start.Year(), start.Month())
}

// MonthsCovered lists the month buckets present in facts, oldest first.
func MonthsCovered(facts []schema.RawSnapshot) []schema.MonthFilter {
	seen := make(map[schema.MonthFilter]struct{})
	for _, f := range facts {
		seen[MonthOf(f.Key())] = struct{}{}
	}
	months := make([]schema.MonthFilter, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	slices.SortFunc(months, func(a, b schema.MonthFilter) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}
		return int(a.Month) - int(b.Month)
	})
	return months
}

// SummarizeByMonth summarizes every covered month separately, oldest first.
func (ag *Aggregator) SummarizeByMonth(facts []schema.RawSnapshot) []schema.RangeSummaries {
	months := MonthsCovered(facts)
	out := make([]schema.RangeSummaries, 0, len(months))
	for _, m := range months {
		out = append(out, ag.SummarizeRange(facts, m))
	}
	return out
}

// SummarizeByMonth runs Aggregator.SummarizeByMonth with the default focus function.
func SummarizeByMonth(facts []schema.RawSnapshot) []schema.RangeSummaries {
	return defaultAggregator.SummarizeByMonth(facts)
}
