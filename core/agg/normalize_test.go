package agg

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/huangsam/snapcal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFlattensInitiatives(t *testing.T) {
	records := []schema.SourceRecord{
		{
			Member: "  Kim ",
			Date:   "2025-01-02",
			Domain: "Platform",
			Initiatives: []schema.SourceInitiative{
				{Project: "Alpha", Module: "API", Feature: "Auth", Tasks: []schema.SourceTask{
					{Title: "login", Progress: 100},
					{Title: "logout", Progress: 40.6},
				}},
				{Project: "Beta", Domain: "Data", Tasks: []schema.SourceTask{{Title: "etl", Progress: "100"}}},
				{Project: "Gamma"},
			},
			Risk:          "none",
			Collaborators: []string{"Lee"},
		},
	}

	facts, report := Normalize(records)

	require.Len(t, facts, 2)
	assert.Equal(t, schema.NormalizeReport{Records: 1, Facts: 2, SkippedByReason: map[schema.SkipReason]int{}}, report)

	alpha := facts[0]
	assert.Equal(t, "Kim", alpha.MemberName)
	assert.Equal(t, schema.WeekKey{Year: 2025, WeekIndex: 1}, alpha.Key())
	assert.Equal(t, "Platform", alpha.Domain)
	assert.Equal(t, "API", alpha.Module)
	assert.Equal(t, "Auth", alpha.Feature)
	assert.Equal(t, []schema.Task{{Title: "login", Progress: 100}, {Title: "logout", Progress: 41}}, alpha.PastWeekTasks)

	beta := facts[1]
	assert.Equal(t, "Data", beta.Domain)
	assert.Equal(t, 1, beta.DoneCount())
}

func TestNormalizeWeekResolution(t *testing.T) {
	tasks := []schema.SourceInitiative{{Project: "Alpha", Tasks: []schema.SourceTask{{Progress: 10}}}}

	tests := []struct {
		name   string
		record schema.SourceRecord
		want   schema.WeekKey
		ok     bool
	}{
		{"date only", schema.SourceRecord{Date: "2024-12-31"}, schema.WeekKey{Year: 2025, WeekIndex: 1}, true},
		{"rfc3339", schema.SourceRecord{Date: "2021-01-01T10:00:00Z"}, schema.WeekKey{Year: 2020, WeekIndex: 53}, true},
		{"year and week", schema.SourceRecord{Year: 2020, Week: 53}, schema.WeekKey{Year: 2020, WeekIndex: 53}, true},
		{"bad date falls back to year and week", schema.SourceRecord{Date: "soon", Year: 2024, Week: 3}, schema.WeekKey{Year: 2024, WeekIndex: 3}, true},
		{"date wins over year and week", schema.SourceRecord{Date: "2024-01-29", Year: 2024, Week: 40}, schema.WeekKey{Year: 2024, WeekIndex: 5}, true},
		{"week 53 in a 52 week year", schema.SourceRecord{Year: 2025, Week: 53}, schema.WeekKey{}, false},
		{"week zero", schema.SourceRecord{Year: 2025}, schema.WeekKey{}, false},
		{"nothing", schema.SourceRecord{}, schema.WeekKey{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.record
			r.Member = "Kim"
			r.Initiatives = tasks
			facts, report := Normalize([]schema.SourceRecord{r})
			if !tt.ok {
				assert.Empty(t, facts)
				assert.Equal(t, 1, report.SkippedByReason[schema.SkipMissingWeek])
				return
			}
			require.Len(t, facts, 1)
			assert.Equal(t, tt.want, facts[0].Key())
		})
	}
}

func TestNormalizeSkipsMalformedRecords(t *testing.T) {
	good := schema.SourceRecord{
		Member:      "Lee",
		Year:        2025,
		Week:        2,
		Initiatives: []schema.SourceInitiative{{Project: "Alpha", Tasks: []schema.SourceTask{{Progress: 100}}}},
	}
	records := []schema.SourceRecord{
		good,
		{Member: "   ", Year: 2025, Week: 2, Initiatives: good.Initiatives},
		{Member: "Kim", Initiatives: good.Initiatives},
		{Member: "Kim", Year: 2025, Week: 2, Initiatives: []schema.SourceInitiative{
			{Project: "Alpha", Tasks: []schema.SourceTask{{Progress: 100}}},
			{Project: "Beta", Tasks: []schema.SourceTask{{Progress: "lots"}}},
		}},
		{Member: "Kim", Year: 2025, Week: 2, Initiatives: []schema.SourceInitiative{
			{Project: "Alpha", Tasks: []schema.SourceTask{{Progress: nil}}},
		}},
	}

	facts, report := Normalize(records)

	require.Len(t, facts, 1)
	assert.Equal(t, "Lee", facts[0].MemberName)
	assert.Equal(t, 5, report.Records)
	assert.Equal(t, 1, report.Facts)
	assert.Equal(t, 4, report.Skipped)
	assert.Equal(t, map[schema.SkipReason]int{
		schema.SkipMissingMember: 1,
		schema.SkipMissingWeek:   1,
		schema.SkipBadProgress:   2,
	}, report.SkippedByReason)
}

func TestNormalizeNoPhantomFacts(t *testing.T) {
	records := []schema.SourceRecord{
		{Member: "Kim", Year: 2025, Week: 1},
		{Member: "Lee", Year: 2025, Week: 1, Initiatives: []schema.SourceInitiative{{Project: "Alpha"}}},
	}
	facts, report := Normalize(records)
	assert.Empty(t, facts)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 2, report.Records)
}

func TestNormalizeBundleCountsMalformed(t *testing.T) {
	bundle := &schema.SourceBundle{
		Records: []schema.SourceRecord{
			{Member: "Kim", Year: 2025, Week: 2, Initiatives: []schema.SourceInitiative{
				{Project: "Alpha", Tasks: []schema.SourceTask{{Title: "a", Progress: 100}}},
			}},
			{Member: "", Year: 2025, Week: 2},
		},
		Malformed: 2,
	}

	facts, report := NormalizeBundle(bundle)

	require.Len(t, facts, 1)
	assert.Equal(t, 4, report.Records)
	assert.Equal(t, 3, report.Skipped)
	assert.Equal(t, map[schema.SkipReason]int{
		schema.SkipMissingMember: 1,
		schema.SkipMalformed:     2,
	}, report.SkippedByReason)
}

func TestNormalizeEmpty(t *testing.T) {
	facts, report := Normalize(nil)
	assert.Empty(t, facts)
	assert.Equal(t, 0, report.Records)
	assert.NotNil(t, report.SkippedByReason)
}

func TestParseProgress(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
		ok   bool
	}{
		{"int", 50, 50, true},
		{"int64", int64(75), 75, true},
		{"float rounds", 49.5, 50, true},
		{"float rounds down", 49.4, 49, true},
		{"clamp high", 150, 100, true},
		{"clamp low", -20, 0, true},
		{"numeric string", " 80 ", 80, true},
		{"percent string", "80%", 80, true},
		{"json number", json.Number("99.6"), 100, true},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"text", "half", 0, false},
		{"bad json number", json.Number("x"), 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseProgress(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
