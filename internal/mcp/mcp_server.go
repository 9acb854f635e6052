// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/snapcal/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// filterOptions are the parameters shared by every snapcal tool.
func filterOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("source", mcp.Description("Path to the team source file (defaults to the configured source).")),
		mcp.WithString("mode", mcp.Description("Initiative dimension (project, module, feature). Defaults to 'project'."), mcp.Enum("project", "module", "feature")),
		mcp.WithString("month", mcp.Description("Month filter as 'YYYY-MM' or 'all'.")),
		mcp.WithString("now", mcp.Description("Reference date (YYYY-MM-DD, RFC3339 or a relative value like '2 weeks ago').")),
		mcp.WithString("member", mcp.Description("Comma-separated member names to keep.")),
		mcp.WithString("domain", mcp.Description("Only keep records from this domain.")),
	}
}

// NewMCPServer initializes and configures the snapcal MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, loader contract.SourceLoader, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Snapcal Calendar Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		loader:  loader,
		mgr:     mgr,
	}

	// --- 1. Tool: get_week_aggregations ---
	weekOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Rank initiatives and members by focus score for every ISO week with activity."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of entries per ranking.")),
	}, filterOptions()...)
	s.AddTool(mcp.NewTool("get_week_aggregations", weekOpts...), h.handleGetWeekAggregations)

	// --- 2. Tool: get_range_summary ---
	summaryOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Build project, module, feature and member leaderboards over the filtered range."),
		mcp.WithBoolean("by_month", mcp.Description("Return one set of leaderboards per month instead of one for the range.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of entries per leaderboard.")),
	}, filterOptions()...)
	s.AddTool(mcp.NewTool("get_range_summary", summaryOpts...), h.handleGetRangeSummary)

	// --- 3. Tool: get_team_heatmap ---
	teamOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Count distinct active members per week over the last 52 weeks."),
	}, filterOptions()...)
	s.AddTool(mcp.NewTool("get_team_heatmap", teamOpts...), h.handleGetTeamHeatmap)

	// --- 4. Tool: get_member_heatmaps ---
	memberOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Count completed tasks per member per week over the last 52 weeks."),
	}, filterOptions()...)
	s.AddTool(mcp.NewTool("get_member_heatmaps", memberOpts...), h.handleGetMemberHeatmaps)

	// --- 5. Tool: get_report ---
	reportOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Return every view of a single pipeline pass: weeks, summary and heatmaps."),
	}, filterOptions()...)
	s.AddTool(mcp.NewTool("get_report", reportOpts...), h.handleGetReport)

	return s
}

// StartMCPServer starts the snapcal MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, loader contract.SourceLoader, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, loader, mgr)
	return server.ServeStdio(s)
}
