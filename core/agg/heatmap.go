package agg

import (
	"sort"
	"time"

	"github.com/huangsam/snapcal/core/algo"
	"github.com/huangsam/snapcal/core/isoweek"
	"github.com/huangsam/snapcal/schema"
)

// BuildTeamHeatmap returns the 52-week team heatmap ending with the week that
// contains now, oldest first. Each cell counts the done tasks of the week and
// its level is relative to the busiest week in the window.
func BuildTeamHeatmap(facts []schema.RawSnapshot, now time.Time) []schema.HeatmapCell {
	counts := make(map[schema.WeekKey]int)
	for _, f := range facts {
		counts[f.Key()] += f.DoneCount()
	}
	cells, _ := buildRow(counts, now)
	return cells
}

// BuildMemberHeatmaps returns one heatmap row per member found in facts, ordered
// by member name. Each row is scaled against that member's own maximum.
func BuildMemberHeatmaps(facts []schema.RawSnapshot, now time.Time) []schema.MemberHeatmap {
	type memberCounts struct {
		name   string
		counts map[schema.WeekKey]int
	}
	byMember := make(map[string]*memberCounts)
	for _, f := range facts {
		display := schema.DisplayName(f.MemberName)
		key := schema.NameKey(display)
		mc, ok := byMember[key]
		if !ok {
			mc = &memberCounts{name: display, counts: make(map[schema.WeekKey]int)}
			byMember[key] = mc
		} else if display < mc.name {
			mc.name = display
		}
		mc.counts[f.Key()] += f.DoneCount()
	}

	rows := make([]schema.MemberHeatmap, 0, len(byMember))
	for _, mc := range byMember {
		cells, maxValue := buildRow(mc.counts, now)
		rows = append(rows, schema.MemberHeatmap{Member: mc.name, Max: maxValue, Cells: cells})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Member < rows[j].Member
	})
	return rows
}

// buildRow lays counts over the window ending at now and quantizes them
// against the window maximum, which it also returns.
func buildRow(counts map[schema.WeekKey]int, now time.Time) ([]schema.HeatmapCell, int) {
	return rowCells(isoweek.Window(now, schema.HeatmapWeeks), counts, now)
}

// rowCells builds the cells of an arbitrary window. The heatmap window ends
// with the current week, so Future only flips for windows padded past now.
func rowCells(window []schema.WeekKey, counts map[schema.WeekKey]int, now time.Time) ([]schema.HeatmapCell, int) {
	today := isoweek.Day(now)

	values := make([]int, len(window))
	for i, key := range window {
		values[i] = counts[key]
	}
	levels := algo.Levels(values)

	cells := make([]schema.HeatmapCell, len(window))
	maxValue := 0
	for i, key := range window {
		start := isoweek.WeekStart(key)
		cells[i] = schema.HeatmapCell{
			WeekKey: key,
			Start:   start,
			Value:   values[i],
			Level:   levels[i],
			Future:  start.After(today),
		}
		maxValue = max(maxValue, values[i])
	}
	return cells, maxValue
}
