// Package agg has the aggregation logic for weekly snapshot facts.
package agg

import (
	"github.com/huangsam/snapcal/core/algo"
	"github.com/huangsam/snapcal/schema"
)

// KeyFunc extracts the entity name a fact is grouped under.
type KeyFunc func(schema.RawSnapshot) string

// DimensionKey returns the KeyFunc for a grouping dimension.
func DimensionKey(dim schema.Dimension) KeyFunc {
	switch dim {
	case schema.ModuleDimension:
		return func(s schema.RawSnapshot) string { return s.Module }
	case schema.FeatureDimension:
		return func(s schema.RawSnapshot) string { return s.Feature }
	case schema.MemberDimension:
		return func(s schema.RawSnapshot) string { return s.MemberName }
	default:
		return func(s schema.RawSnapshot) string { return s.Project }
	}
}

// Aggregator computes rankings using a pluggable focus function.
type Aggregator struct {
	focus algo.FocusFunc
}

// New creates an Aggregator. A nil focus function falls back to algo.TaskPoints.
func New(focus algo.FocusFunc) *Aggregator {
	if focus == nil {
		focus = algo.TaskPoints
	}
	return &Aggregator{focus: focus}
}

var defaultAggregator = New(algo.TaskPoints)

// accumulator merges focus per entity, keyed by schema.NameKey.
type accumulator struct {
	entries map[string]*schema.FocusEntry
}

func newAccumulator() *accumulator {
	return &accumulator{entries: make(map[string]*schema.FocusEntry)}
}

// add credits score and done tasks to the entity called name.
// The displayed name is the smallest cleaned variant seen, so the result
// does not depend on the order facts arrive in.
func (a *accumulator) add(name string, score, done int) {
	display := schema.DisplayName(name)
	key := schema.NameKey(display)
	e, ok := a.entries[key]
	if !ok {
		e = &schema.FocusEntry{Name: display}
		a.entries[key] = e
	} else if display < e.Name {
		e.Name = display
	}
	e.FocusScore += score
	e.DoneTaskCount += done
}

// ranked returns the merged entries ordered by algo.RankEntries.
func (a *accumulator) ranked() []schema.FocusEntry {
	out := make([]schema.FocusEntry, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, *e)
	}
	return algo.RankEntries(out)
}

// groupAndRank groups facts by the entity name that key extracts and ranks the result.
func (ag *Aggregator) groupAndRank(facts []schema.RawSnapshot, key KeyFunc) []schema.FocusEntry {
	acc := newAccumulator()
	for _, f := range facts {
		acc.add(key(f), ag.focus(f.PastWeekTasks), f.DoneCount())
	}
	return acc.ranked()
}
