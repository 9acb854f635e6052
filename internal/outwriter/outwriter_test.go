package outwriter

import (
	"time"

	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/schema"
)

var weekStart = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func textConfig() *contract.Config {
	return &contract.Config{
		Output:       schema.TextOut,
		Precision:    1,
		Width:        120,
		CacheBackend: schema.NoneBackend,
	}
}

func sampleWeeks() []schema.WeekAggregation {
	return []schema.WeekAggregation{{
		Key:       schema.WeekKey{Year: 2025, WeekIndex: 2},
		Start:     weekStart,
		End:       weekStart.AddDate(0, 0, 6),
		Dimension: schema.ProjectDimension,
		Initiatives: []schema.FocusEntry{
			{Name: "Alpha", FocusScore: 300, DoneTaskCount: 1},
			{Name: "Beta", FocusScore: 100},
		},
		Members: []schema.FocusEntry{
			{Name: "Kim", FocusScore: 250, DoneTaskCount: 1},
			{Name: "Lee", FocusScore: 150},
		},
		TotalInitiativeFocus: 400,
		TotalMemberFocus:     400,
	}}
}

func sampleSummary() schema.RangeSummaries {
	return schema.RangeSummaries{
		Filter:  schema.AllMonths,
		Weeks:   []schema.WeekKey{{Year: 2025, WeekIndex: 2}},
		Project: schema.RangeSummary{Dimension: schema.ProjectDimension, Entries: []schema.FocusEntry{{Name: "Alpha", FocusScore: 300, DoneTaskCount: 1}, {Name: "Beta", FocusScore: 100}}, TotalFocus: 400, TotalDone: 1},
		Module:  schema.RangeSummary{Dimension: schema.ModuleDimension, Entries: []schema.FocusEntry{{Name: "Core", FocusScore: 400, DoneTaskCount: 1}}, TotalFocus: 400, TotalDone: 1},
		Feature: schema.RangeSummary{Dimension: schema.FeatureDimension, Entries: []schema.FocusEntry{{Name: schema.UnassignedName, FocusScore: 400, DoneTaskCount: 1}}, TotalFocus: 400, TotalDone: 1},
		Member:  schema.RangeSummary{Dimension: schema.MemberDimension, Entries: []schema.FocusEntry{{Name: "Kim", FocusScore: 250, DoneTaskCount: 1}, {Name: "Lee", FocusScore: 150}}, TotalFocus: 400, TotalDone: 1},
	}
}

// sampleCells returns n weekly cells starting at weekStart with the given values.
func sampleCells(values ...int) []schema.HeatmapCell {
	maxValue := 0
	for _, v := range values {
		maxValue = max(maxValue, v)
	}
	cells := make([]schema.HeatmapCell, len(values))
	for i, v := range values {
		start := weekStart.AddDate(0, 0, 7*i)
		y, w := start.ISOWeek()
		level := 0
		if v > 0 {
			level = min(max((v*schema.MaxHeatLevel+maxValue-1)/maxValue, 1), schema.MaxHeatLevel)
		}
		cells[i] = schema.HeatmapCell{WeekKey: schema.WeekKey{Year: y, WeekIndex: w}, Start: start, Value: v, Level: level}
	}
	return cells
}
