package agg

import (
	"slices"

	"github.com/huangsam/snapcal/core/algo"
	"github.com/huangsam/snapcal/core/isoweek"
	"github.com/huangsam/snapcal/schema"
)

// AggregateByWeek runs Aggregator.AggregateByWeek with the default focus function.
func AggregateByWeek(facts []schema.RawSnapshot, dim schema.Dimension) []schema.WeekAggregation {
	return defaultAggregator.AggregateByWeek(facts, dim)
}

// AggregateByWeek groups facts by ISO week and ranks initiatives along dim and
// members within each week. Weeks are returned in ascending order and weeks
// without facts are omitted.
func (ag *Aggregator) AggregateByWeek(facts []schema.RawSnapshot, dim schema.Dimension) []schema.WeekAggregation {
	if _, ok := schema.ValidInitiativeDimensions[dim]; !ok {
		dim = schema.ProjectDimension
	}

	byWeek := groupByWeek(facts)
	keys := sortedWeekKeys(byWeek)

	weeks := make([]schema.WeekAggregation, 0, len(keys))
	for _, key := range keys {
		group := byWeek[key]
		initiatives := ag.groupAndRank(group, DimensionKey(dim))
		members := ag.groupAndRank(group, DimensionKey(schema.MemberDimension))
		start, end := isoweek.WeekKeyToDateRange(key)

		weeks = append(weeks, schema.WeekAggregation{
			Key:                  key,
			Start:                start,
			End:                  end,
			Dimension:            dim,
			Initiatives:          initiatives,
			Members:              members,
			TotalInitiativeFocus: algo.TotalFocus(initiatives),
			TotalMemberFocus:     algo.TotalFocus(members),
		})
	}
	return weeks
}

// groupByWeek buckets facts by their week key, keeping input order within a bucket.
func groupByWeek(facts []schema.RawSnapshot) map[schema.WeekKey][]schema.RawSnapshot {
	byWeek := make(map[schema.WeekKey][]schema.RawSnapshot)
	for _, f := range facts {
		byWeek[f.Key()] = append(byWeek[f.Key()], f)
	}
	return byWeek
}

// sortedWeekKeys returns the keys of a week map in chronological order.
func sortedWeekKeys[V any](m map[schema.WeekKey]V) []schema.WeekKey {
	keys := make([]schema.WeekKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, schema.WeekKey.Compare)
	return keys
}
