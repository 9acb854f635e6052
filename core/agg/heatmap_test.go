package agg

import (
	"testing"
	"time"

	"github.com/huangsam/snapcal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var heatmapNow = time.Date(2025, 1, 8, 15, 0, 0, 0, time.UTC) // Wednesday of 2025-W02

func TestBuildTeamHeatmapWindow(t *testing.T) {
	cells := BuildTeamHeatmap(nil, heatmapNow)

	require.Len(t, cells, schema.HeatmapWeeks)
	assert.Equal(t, schema.WeekKey{Year: 2024, WeekIndex: 3}, cells[0].WeekKey)
	assert.Equal(t, schema.WeekKey{Year: 2025, WeekIndex: 2}, cells[len(cells)-1].WeekKey)
	assert.Equal(t, utcDate(2025, 1, 6), cells[len(cells)-1].Start)
	for i, c := range cells {
		assert.Equal(t, 0, c.Value)
		assert.Equal(t, 0, c.Level)
		assert.False(t, c.Future)
		if i > 0 {
			assert.Equal(t, 7*24*time.Hour, c.Start.Sub(cells[i-1].Start))
		}
	}
}

func TestBuildTeamHeatmapRelativeScaling(t *testing.T) {
	facts := []schema.RawSnapshot{
		fact("Kim", 2024, 52, "Alpha", 3, 0),
		fact("Lee", 2024, 52, "Alpha", 1, 5),
		fact("Kim", 2025, 1, "Alpha", 2, 0),
		fact("Lee", 2025, 2, "Beta", 8, 0),
		fact("Kim", 2023, 40, "Alpha", 50, 0), // outside the window
	}

	cells := BuildTeamHeatmap(facts, heatmapNow)

	tail := cells[len(cells)-5:]
	values := make([]int, len(tail))
	levels := make([]int, len(tail))
	for i, c := range tail {
		values[i] = c.Value
		levels[i] = c.Level
	}
	assert.Equal(t, []int{0, 0, 4, 2, 8}, values)
	assert.Equal(t, []int{0, 0, 2, 1, 4}, levels)
}

func TestBuildMemberHeatmapsPerMemberScale(t *testing.T) {
	facts := []schema.RawSnapshot{
		fact("Kim", 2025, 1, "Alpha", 10, 0),
		fact("Kim", 2025, 2, "Alpha", 5, 0),
		fact("lee", 2025, 1, "Alpha", 1, 0),
		fact("Lee", 2025, 2, "Alpha", 0, 3),
		fact("Ann", 2020, 1, "Alpha", 2, 0), // only outside the window
	}

	rows := BuildMemberHeatmaps(facts, heatmapNow)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Ann", "Kim", "Lee"}, []string{rows[0].Member, rows[1].Member, rows[2].Member})

	ann := rows[0]
	assert.Equal(t, 0, ann.Max)
	require.Len(t, ann.Cells, schema.HeatmapWeeks)
	for _, c := range ann.Cells {
		assert.Equal(t, 0, c.Level)
	}

	kim := rows[1]
	assert.Equal(t, 10, kim.Max)
	assert.Equal(t, 4, kim.Cells[50].Level)
	assert.Equal(t, 2, kim.Cells[51].Level)

	// Lee's single done task is Lee's own peak.
	lee := rows[2]
	assert.Equal(t, 1, lee.Max)
	assert.Equal(t, 4, lee.Cells[50].Level)
	assert.Equal(t, 0, lee.Cells[51].Level)
}

func TestBuildHeatmapFutureFlag(t *testing.T) {
	// Monday 00:30 in Tokyo is still Sunday in UTC; the window follows the local day.
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2025, 1, 6, 0, 30, 0, 0, tokyo)

	cells := BuildTeamHeatmap(nil, now)
	last := cells[len(cells)-1]
	assert.Equal(t, schema.WeekKey{Year: 2025, WeekIndex: 2}, last.WeekKey)
	assert.False(t, last.Future)
}

func TestHeatmapWindowNeverFuture(t *testing.T) {
	// The current week's Monday is never after today, whatever the weekday.
	for day := 0; day < 7; day++ {
		now := utcDate(2025, 1, 6).AddDate(0, 0, day)
		for _, cell := range BuildTeamHeatmap(sampleFacts(), now) {
			assert.False(t, cell.Future, "%s as of %s", cell.WeekKey, now.Format(time.DateOnly))
		}
	}
}

func TestRowCellsFutureFlag(t *testing.T) {
	now := utcDate(2025, 1, 8)
	window := []schema.WeekKey{
		{Year: 2025, WeekIndex: 1},
		{Year: 2025, WeekIndex: 2},
		{Year: 2025, WeekIndex: 3},
	}
	counts := map[schema.WeekKey]int{{Year: 2025, WeekIndex: 3}: 2}

	cells, maxValue := rowCells(window, counts, now)

	require.Len(t, cells, 3)
	assert.Equal(t, 2, maxValue)
	assert.False(t, cells[0].Future)
	assert.False(t, cells[1].Future)
	assert.True(t, cells[2].Future)
	assert.Equal(t, schema.MaxHeatLevel, cells[2].Level)
}

func TestHeatmapDeterministic(t *testing.T) {
	facts := sampleFacts()
	now := utcDate(2024, 3, 1)
	assert.Equal(t, BuildMemberHeatmaps(facts, now), BuildMemberHeatmaps(facts, now))
	assert.Equal(t, BuildTeamHeatmap(facts, now), BuildTeamHeatmap(facts, now))
}
