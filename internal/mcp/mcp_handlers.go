package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/snapcal/core"
	"github.com/huangsam/snapcal/core/algo"
	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	loader  contract.SourceLoader
	mgr     contract.CacheManager
}

// heatmapResult is the payload of the heatmap tools.
type heatmapResult struct {
	Now     time.Time              `json:"now"`
	Cells   []schema.HeatmapCell   `json:"cells,omitempty"`
	Members []schema.MemberHeatmap `json:"members,omitempty"`
}

// requestConfig overlays the tool arguments on the server defaults.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("source", ""); p != "" {
		cfg.SourcePath = p
	}
	if m := request.GetString("mode", ""); m != "" {
		mode := schema.Dimension(strings.ToLower(strings.TrimSpace(m)))
		if _, ok := schema.ValidInitiativeDimensions[mode]; !ok {
			return nil, fmt.Errorf("invalid mode '%s'. must be project, module, feature", m)
		}
		cfg.Mode = mode
	}
	if m := request.GetString("month", ""); m != "" {
		month, err := contract.ParseMonthFilter(m)
		if err != nil {
			return nil, err
		}
		cfg.Month = month
	}
	if n := request.GetString("now", ""); n != "" {
		now, err := contract.ParseNow(n, time.Now())
		if err != nil {
			return nil, err
		}
		cfg.Now = now
	}
	if m := request.GetString("member", ""); m != "" {
		cfg.Members = contract.ParseMemberList(m)
	}
	if d := request.GetString("domain", ""); d != "" {
		cfg.Domain = schema.NameKey(d)
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	cfg.ByMonth = request.GetBool("by_month", cfg.ByMonth)
	return cfg, nil
}

// jsonResult renders v as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// report runs the pipeline for the request. A non-nil result is an error to hand back to the client.
func (h *toolHandler) report(ctx context.Context, request mcp.CallToolRequest) (*schema.Report, *contract.Config, *mcp.CallToolResult) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err))
	}
	report, _, err := core.RunReport(ctx, cfg, h.loader, h.mgr)
	if err != nil {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err))
	}
	return report, cfg, nil
}

func (h *toolHandler) handleGetWeekAggregations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, cfg, failure := h.report(ctx, request)
	if failure != nil {
		return failure, nil
	}
	return jsonResult(algo.LimitWeeks(report.Weeks, cfg.ResultLimit))
}

func (h *toolHandler) handleGetRangeSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	summaries, _, err := core.RunSummaries(ctx, cfg, h.loader, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	for i := range summaries {
		summaries[i] = algo.LimitSummary(summaries[i], cfg.ResultLimit)
	}
	return jsonResult(summaries)
}

func (h *toolHandler) handleGetTeamHeatmap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, _, failure := h.report(ctx, request)
	if failure != nil {
		return failure, nil
	}
	return jsonResult(heatmapResult{Now: report.Now, Cells: report.TeamHeatmap})
}

func (h *toolHandler) handleGetMemberHeatmaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, _, failure := h.report(ctx, request)
	if failure != nil {
		return failure, nil
	}
	return jsonResult(heatmapResult{Now: report.Now, Members: report.MemberHeatmaps})
}

func (h *toolHandler) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, _, failure := h.report(ctx, request)
	if failure != nil {
		return failure, nil
	}
	return jsonResult(report)
}
