package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekKeyString(t *testing.T) {
	assert.Equal(t, "2025-W01", WeekKey{Year: 2025, WeekIndex: 1}.String())
	assert.Equal(t, "2020-W53", WeekKey{Year: 2020, WeekIndex: 53}.String())
}

func TestWeekKeyCompare(t *testing.T) {
	a := WeekKey{Year: 2024, WeekIndex: 52}
	b := WeekKey{Year: 2025, WeekIndex: 1}
	c := WeekKey{Year: 2025, WeekIndex: 2}

	assert.Negative(t, a.Compare(b))
	assert.Negative(t, b.Compare(c))
	assert.Positive(t, c.Compare(a))
	assert.Zero(t, b.Compare(WeekKey{Year: 2025, WeekIndex: 1}))
	assert.True(t, WeekKey{}.IsZero())
	assert.False(t, a.IsZero())
}

func TestMonthFilter(t *testing.T) {
	jan := ForMonth(2024, time.January)
	assert.Equal(t, "2024-01", jan.String())
	assert.Equal(t, "all", AllMonths.String())

	assert.True(t, jan.Includes(time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, jan.Includes(time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)))
	assert.False(t, jan.Includes(time.Date(2023, 1, 30, 0, 0, 0, 0, time.UTC)))
	assert.True(t, AllMonths.Includes(time.Date(1999, 12, 27, 0, 0, 0, 0, time.UTC)))
}

func TestTaskDoneAndDoneCount(t *testing.T) {
	s := RawSnapshot{PastWeekTasks: []Task{{Progress: 100}, {Progress: 99}, {Progress: 0}, {Progress: 100}}}
	assert.Equal(t, 2, s.DoneCount())
	assert.True(t, Task{Progress: 100}.Done())
	assert.False(t, Task{Progress: 50}.Done())
}

func TestRangeSummariesByDimension(t *testing.T) {
	r := RangeSummaries{
		Project: RangeSummary{Dimension: ProjectDimension},
		Module:  RangeSummary{Dimension: ModuleDimension},
		Feature: RangeSummary{Dimension: FeatureDimension},
		Member:  RangeSummary{Dimension: MemberDimension},
	}
	for _, dim := range []Dimension{ProjectDimension, ModuleDimension, FeatureDimension, MemberDimension} {
		assert.Equal(t, dim, r.ByDimension(dim).Dimension)
	}
}

func TestShare(t *testing.T) {
	assert.Equal(t, 0.0, Share(10, 0))
	assert.InDelta(t, 0.25, Share(1, 4), 1e-9)
}
