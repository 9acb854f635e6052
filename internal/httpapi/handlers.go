package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/snapcal/core"
	"github.com/huangsam/snapcal/core/algo"
	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/schema"
)

// apiResponse wraps every JSON body.
type apiResponse struct {
	Success bool             `json:"success"`
	Data    any              `json:"data,omitempty"`
	Meta    *schema.RunStats `json:"meta,omitempty"`
	Error   *apiError        `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// heatmapResponse is the body of the heatmap endpoints.
type heatmapResponse struct {
	Now     time.Time              `json:"now"`
	Cells   []schema.HeatmapCell   `json:"cells,omitempty"`
	Members []schema.MemberHeatmap `json:"members,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any, meta *schema.RunStats) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
		Meta:    meta,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		contract.LogWarn("Failed to encode response", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{Error: &apiError{Code: code, Message: message}}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		contract.LogWarn("Failed to encode error response", err)
	}
}

// respondRunError maps pipeline errors to HTTP statuses.
func respondRunError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contract.ErrNoFacts):
		respondError(w, http.StatusNotFound, "no_facts", err.Error())
	case errors.Is(err, contract.ErrNoSource), errors.Is(err, contract.ErrEmptySource):
		respondError(w, http.StatusServiceUnavailable, "no_source", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

// requestConfig overlays the query parameters of r on the server defaults.
// Supported parameters: mode, month, now, member, domain, limit and by_month.
func (s *Server) requestConfig(r *http.Request) (*contract.Config, error) {
	cfg := s.cfg.Clone()
	q := r.URL.Query()

	if v := q.Get("mode"); v != "" {
		mode := schema.Dimension(strings.ToLower(strings.TrimSpace(v)))
		if _, ok := schema.ValidInitiativeDimensions[mode]; !ok {
			return nil, fmt.Errorf("invalid mode '%s'. must be project, module, feature", v)
		}
		cfg.Mode = mode
	}
	if q.Has("month") {
		month, err := contract.ParseMonthFilter(q.Get("month"))
		if err != nil {
			return nil, err
		}
		cfg.Month = month
	}
	if q.Has("now") {
		now, err := contract.ParseNow(q.Get("now"), time.Now())
		if err != nil {
			return nil, err
		}
		cfg.Now = now
	}
	if q.Has("member") {
		cfg.Members = contract.ParseMemberList(strings.Join(q["member"], ","))
	}
	if q.Has("domain") {
		cfg.Domain = schema.NameKey(q.Get("domain"))
	}
	if q.Has("limit") {
		limit, err := strconv.Atoi(strings.TrimSpace(q.Get("limit")))
		if err != nil || limit <= 0 || limit > contract.MaxResultLimit {
			return nil, fmt.Errorf("invalid limit '%s'. must be between 1 and %d", q.Get("limit"), contract.MaxResultLimit)
		}
		cfg.ResultLimit = limit
	}
	if q.Has("by_month") {
		byMonth, err := contract.ParseBoolString(q.Get("by_month"))
		if err != nil {
			return nil, fmt.Errorf("invalid by_month value: %w", err)
		}
		cfg.ByMonth = byMonth
	}
	return cfg, nil
}

// report runs the pipeline for r, writing an error response on failure.
func (s *Server) report(w http.ResponseWriter, r *http.Request) (*schema.Report, *schema.RunStats, bool) {
	cfg, err := s.requestConfig(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", err.Error())
		return nil, nil, false
	}
	report, stats, err := core.RunReport(r.Context(), cfg, s.loader, s.mgr)
	if err != nil {
		respondRunError(w, err)
		return nil, nil, false
	}

	// Trim a copy for display; the computed report may be shared with the cache.
	limited := *report
	limited.Weeks = algo.LimitWeeks(report.Weeks, cfg.ResultLimit)
	limited.Summary = algo.LimitSummary(report.Summary, cfg.ResultLimit)
	return &limited, &stats, true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, nil)
}

func (s *Server) handleWeeks(w http.ResponseWriter, r *http.Request) {
	report, stats, ok := s.report(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, report.Weeks, stats)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.requestConfig(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	summaries, stats, err := core.RunSummaries(r.Context(), cfg, s.loader, s.mgr)
	if err != nil {
		respondRunError(w, err)
		return
	}
	for i := range summaries {
		summaries[i] = algo.LimitSummary(summaries[i], cfg.ResultLimit)
	}
	respondJSON(w, http.StatusOK, summaries, &stats)
}

func (s *Server) handleTeamHeatmap(w http.ResponseWriter, r *http.Request) {
	report, stats, ok := s.report(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, heatmapResponse{Now: report.Now, Cells: report.TeamHeatmap}, stats)
}

func (s *Server) handleMemberHeatmaps(w http.ResponseWriter, r *http.Request) {
	report, stats, ok := s.report(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, heatmapResponse{Now: report.Now, Members: report.MemberHeatmaps}, stats)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, stats, ok := s.report(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, report, stats)
}
