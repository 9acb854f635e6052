//go:build integration

// Package integration contains integration tests for snapcal.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type board struct {
	Entries []struct {
		Name          string `json:"name"`
		FocusScore    int    `json:"focusScore"`
		DoneTaskCount int    `json:"doneTaskCount"`
	} `json:"entries"`
	TotalFocus int `json:"totalFocus"`
	TotalDone  int `json:"totalDone"`
}

type summary struct {
	Filter  string   `json:"filter"`
	Weeks   []string `json:"weeks"`
	Project board    `json:"project"`
	Member  board    `json:"member"`
}

type heatRow struct {
	Name  string `json:"name"`
	Max   int    `json:"max"`
	Total int    `json:"total"`
	Cells []struct {
		WeekKey string `json:"weekKey"`
		Value   int    `json:"value"`
		Level   int    `json:"level"`
		Future  bool   `json:"future"`
	} `json:"cells"`
}

type report struct {
	Mode  string `json:"mode"`
	Weeks []struct {
		Key                  string `json:"key"`
		TotalInitiativeFocus int    `json:"totalInitiativeFocus"`
		TotalMemberFocus     int    `json:"totalMemberFocus"`
	} `json:"weeks"`
	Summary  summary `json:"summary"`
	Heatmaps struct {
		Team    heatRow   `json:"team"`
		Members []heatRow `json:"members"`
	} `json:"heatmaps"`
	Normalize struct {
		Records int `json:"records"`
		Facts   int `json:"facts"`
		Skipped int `json:"skipped"`
	} `json:"normalize"`
}

func baseArgs(source string) []string {
	return []string{"--source", source, "--now", "2025-02-05", "--cache-backend", "none", "--output", "json"}
}

// TestReportVerification checks the report against totals computed by hand from the snapshot.
func TestReportVerification(t *testing.T) {
	source := writeSnapshot(t)

	out, err := runSnapcal(t, append([]string{"report"}, baseArgs(source)...)...)
	require.NoError(t, err)

	var r report
	require.NoError(t, json.Unmarshal([]byte(out), &r))

	assert.Equal(t, "project", r.Mode)
	assert.Equal(t, 5, r.Normalize.Records)
	assert.Equal(t, 5, r.Normalize.Facts)
	assert.Equal(t, 1, r.Normalize.Skipped)

	require.Len(t, r.Weeks, 2)
	assert.Equal(t, "2025-W02", r.Weeks[0].Key)
	assert.Equal(t, 660, r.Weeks[0].TotalInitiativeFocus)
	assert.Equal(t, "2025-W06", r.Weeks[1].Key)
	assert.Equal(t, 400, r.Weeks[1].TotalInitiativeFocus)

	// Focus is conserved between the weekly rankings and the range summary
	weekTotal := 0
	for _, w := range r.Weeks {
		assert.Equal(t, w.TotalInitiativeFocus, w.TotalMemberFocus)
		weekTotal += w.TotalInitiativeFocus
	}
	assert.Equal(t, weekTotal, r.Summary.Project.TotalFocus)
	assert.Equal(t, weekTotal, r.Summary.Member.TotalFocus)
	require.NotEmpty(t, r.Summary.Project.Entries)
	assert.Equal(t, "Alpha", r.Summary.Project.Entries[0].Name)
	assert.Equal(t, 550, r.Summary.Project.Entries[0].FocusScore)

	assert.Len(t, r.Heatmaps.Team.Cells, 52)
	assert.Equal(t, 2, r.Heatmaps.Team.Max)
	assert.Equal(t, 4, r.Heatmaps.Team.Total)
	require.Len(t, r.Heatmaps.Members, 2)
	for _, row := range r.Heatmaps.Members {
		assert.Equal(t, 2, row.Total, "done tasks for %s", row.Name)
		assert.Equal(t, 1, row.Max)
	}
}

// TestMonthSummariesAddUp checks that month summaries partition the full range.
func TestMonthSummariesAddUp(t *testing.T) {
	source := writeSnapshot(t)

	totalFor := func(month string) int {
		out, err := runSnapcal(t, append([]string{"summary", "--month", month}, baseArgs(source)...)...)
		require.NoError(t, err)
		var summaries []summary
		require.NoError(t, json.Unmarshal([]byte(out), &summaries))
		require.Len(t, summaries, 1)
		return summaries[0].Project.TotalFocus
	}

	all := totalFor("all")
	assert.Equal(t, 1060, all)
	assert.Equal(t, all, totalFor("2025-01")+totalFor("2025-02"))

	out, err := runSnapcal(t, append([]string{"summary", "--by-month"}, baseArgs(source)...)...)
	require.NoError(t, err)
	var byMonth []summary
	require.NoError(t, json.Unmarshal([]byte(out), &byMonth))
	require.Len(t, byMonth, 2)
	assert.Equal(t, "2025-01", byMonth[0].Filter)
	assert.Equal(t, "2025-02", byMonth[1].Filter)
}

// TestDeterministicOutput runs the same report twice and expects identical bytes.
func TestDeterministicOutput(t *testing.T) {
	source := writeSnapshot(t)
	args := append([]string{"report"}, baseArgs(source)...)

	first, err := runSnapcal(t, args...)
	require.NoError(t, err)
	second, err := runSnapcal(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestSourceCommands covers the schema and check subcommands.
func TestSourceCommands(t *testing.T) {
	out, err := runSnapcal(t, "source", "schema")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, out, "initiatives")

	source := writeSnapshot(t)
	out, err = runSnapcal(t, "source", "check", "--source", source, "--output", "csv", "--cache-backend", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "missing_member,1")
}
