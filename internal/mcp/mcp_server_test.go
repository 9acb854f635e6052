package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/snapcal/internal/contract"
	mcp_internal "github.com/huangsam/snapcal/internal/mcp"
	"github.com/huangsam/snapcal/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testBundle() *schema.SourceBundle {
	return &schema.SourceBundle{
		Path:   "team.json",
		Format: "json",
		Digest: "feed",
		Records: []schema.SourceRecord{
			{
				Member: "Kim", Date: "2025-01-08", Domain: "Platform",
				Initiatives: []schema.SourceInitiative{{
					Project: "Alpha", Module: "Core", Feature: "Sync",
					Tasks: []schema.SourceTask{{Title: "a", Progress: 100}, {Title: "b", Progress: 50}},
				}},
			},
			{
				Member: "Lee", Date: "2025-01-09", Domain: "Growth",
				Initiatives: []schema.SourceInitiative{
					{Project: "Beta", Tasks: []schema.SourceTask{{Title: "c", Progress: 100}}},
					{Project: "Gamma", Tasks: []schema.SourceTask{{Title: "d", Progress: 10}}},
				},
			},
			{
				Member: "Lee", Date: "2025-02-04", Domain: "Growth",
				Initiatives: []schema.SourceInitiative{{
					Project: "Beta",
					Tasks:   []schema.SourceTask{{Title: "e", Progress: 100}},
				}},
			},
		},
	}
}

func newTestServer(t *testing.T, loadErr error) *server.MCPServer {
	t.Helper()
	loader := &contract.MockSourceLoader{}
	loader.On("Load", mock.Anything, mock.Anything).Return(testBundle(), loadErr)
	baseCfg := &contract.Config{
		SourcePath:   "team.json",
		Mode:         schema.ProjectDimension,
		Month:        schema.AllMonths,
		Now:          time.Date(2025, 2, 5, 12, 0, 0, 0, time.UTC),
		Workers:      2,
		ResultLimit:  contract.DefaultResultLimit,
		CacheBackend: schema.NoneBackend,
	}
	return mcp_internal.NewMCPServer(baseCfg, loader, nil)
}

// call invokes a registered tool and returns its first text content.
func call(t *testing.T, s *server.MCPServer, name string, args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res, res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerTools(t *testing.T) {
	s := newTestServer(t, nil)
	for _, name := range []string{"get_week_aggregations", "get_range_summary", "get_team_heatmap", "get_member_heatmaps", "get_report"} {
		assert.NotNil(t, s.GetTool(name), "Tool %s should exist", name)
	}
}

func TestGetWeekAggregations(t *testing.T) {
	s := newTestServer(t, nil)

	res, text := call(t, s, "get_week_aggregations", map[string]any{"limit": 1.0})
	require.False(t, res.IsError, text)

	var weeks []schema.WeekAggregation
	require.NoError(t, json.Unmarshal([]byte(text), &weeks))
	require.Len(t, weeks, 2)
	assert.Equal(t, schema.WeekKey{Year: 2025, WeekIndex: 2}, weeks[0].Key)
	require.Len(t, weeks[0].Initiatives, 1)
	assert.Equal(t, "Alpha", weeks[0].Initiatives[0].Name)
	assert.Equal(t, 350, weeks[0].Initiatives[0].FocusScore)
	assert.Equal(t, 660, weeks[0].TotalInitiativeFocus, "totals are kept when entries are trimmed")
	require.Len(t, weeks[0].Members, 1)
}

func TestGetRangeSummary(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("single range", func(t *testing.T) {
		res, text := call(t, s, "get_range_summary", map[string]any{"month": "2025-01"})
		require.False(t, res.IsError, text)

		var summaries []schema.RangeSummaries
		require.NoError(t, json.Unmarshal([]byte(text), &summaries))
		require.Len(t, summaries, 1)
		assert.Equal(t, schema.ForMonth(2025, time.January), summaries[0].Filter)
		require.NotEmpty(t, summaries[0].Project.Entries)
		assert.Equal(t, "Alpha", summaries[0].Project.Entries[0].Name)
	})

	t.Run("by month", func(t *testing.T) {
		res, text := call(t, s, "get_range_summary", map[string]any{"by_month": true})
		require.False(t, res.IsError, text)

		var summaries []schema.RangeSummaries
		require.NoError(t, json.Unmarshal([]byte(text), &summaries))
		assert.Len(t, summaries, 2)
	})
}

func TestGetHeatmaps(t *testing.T) {
	s := newTestServer(t, nil)

	res, text := call(t, s, "get_team_heatmap", nil)
	require.False(t, res.IsError, text)
	var team struct {
		Cells []schema.HeatmapCell `json:"cells"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &team))
	assert.Len(t, team.Cells, schema.HeatmapWeeks)

	res, text = call(t, s, "get_member_heatmaps", map[string]any{"member": "lee"})
	require.False(t, res.IsError, text)
	var members struct {
		Members []schema.MemberHeatmap `json:"members"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &members))
	require.Len(t, members.Members, 1)
	assert.Equal(t, "Lee", members.Members[0].Member)
}

func TestGetReport(t *testing.T) {
	s := newTestServer(t, nil)

	res, text := call(t, s, "get_report", map[string]any{"mode": "module"})
	require.False(t, res.IsError, text)

	var report schema.Report
	require.NoError(t, json.Unmarshal([]byte(text), &report))
	assert.Equal(t, schema.ModuleDimension, report.Mode)
	assert.Len(t, report.MemberHeatmaps, 2)
}

func TestMCPServerHandlers_Errors(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		loadErr error
		want    string
	}{
		{"invalid mode", "get_week_aggregations", map[string]any{"mode": "epic"}, nil, "invalid mode"},
		{"invalid month", "get_range_summary", map[string]any{"month": "2025-13"}, nil, "invalid parameters"},
		{"invalid now", "get_team_heatmap", map[string]any{"now": "someday"}, nil, "invalid parameters"},
		{"unknown member", "get_report", map[string]any{"member": "nobody"}, nil, contract.ErrNoFacts.Error()},
		{"load failure", "get_member_heatmaps", nil, errors.New("disk on fire"), "disk on fire"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.loadErr)
			res, text := call(t, s, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, text, tt.want)
		})
	}
}
