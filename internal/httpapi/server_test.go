package httpapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testBundle() *schema.SourceBundle {
	return &schema.SourceBundle{
		Path:   "team.yaml",
		Format: "yaml",
		Digest: "abc",
		Records: []schema.SourceRecord{
			{
				Member: "Kim", Date: "2025-01-08", Domain: "Platform",
				Initiatives: []schema.SourceInitiative{{
					Project: "Alpha", Module: "Core",
					Tasks: []schema.SourceTask{{Title: "a", Progress: 100}, {Title: "b", Progress: 50}},
				}},
			},
			{
				Member: "Lee", Date: "2025-02-04", Domain: "Growth",
				Initiatives: []schema.SourceInitiative{{
					Project: "Beta",
					Tasks:   []schema.SourceTask{{Title: "c", Progress: 100}},
				}},
			},
		},
	}
}

func newTestServer(t *testing.T, bundle *schema.SourceBundle, loadErr error) *Server {
	t.Helper()
	loader := &contract.MockSourceLoader{}
	loader.On("Load", mock.Anything, "team.yaml").Return(bundle, loadErr)
	cfg := &contract.Config{
		SourcePath:   "team.yaml",
		Mode:         schema.ProjectDimension,
		Month:        schema.AllMonths,
		Now:          time.Date(2025, 2, 5, 12, 0, 0, 0, time.UTC),
		Workers:      2,
		CacheBackend: schema.NoneBackend,
	}
	return NewServer(cfg, loader, nil)
}

// get performs a request and decodes the response envelope.
func get(t *testing.T, s *Server, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealth(t *testing.T) {
	code, body := get(t, newTestServer(t, testBundle(), nil), "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "healthy", body["data"].(map[string]any)["status"])
}

func TestWeeks(t *testing.T) {
	s := newTestServer(t, testBundle(), nil)

	code, body := get(t, s, "/api/weeks")
	require.Equal(t, http.StatusOK, code)
	weeks := body["data"].([]any)
	require.Len(t, weeks, 2)
	first := weeks[0].(map[string]any)
	assert.Equal(t, "project", first["dimension"])
	assert.InDelta(t, 350, first["totalInitiativeFocus"], 0)

	meta := body["meta"].(map[string]any)
	assert.InDelta(t, 2, meta["facts"], 0)
	assert.Equal(t, false, meta["cacheHit"])

	code, body = get(t, s, "/api/weeks?month=2025-01&mode=module")
	require.Equal(t, http.StatusOK, code)
	weeks = body["data"].([]any)
	require.Len(t, weeks, 1)
	assert.Equal(t, "module", weeks[0].(map[string]any)["dimension"])
}

func TestSummary(t *testing.T) {
	s := newTestServer(t, testBundle(), nil)

	code, body := get(t, s, "/api/summary")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["data"].([]any), 1)

	code, body = get(t, s, "/api/summary?by_month=yes")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"].([]any), 2)

	code, body = get(t, s, "/api/summary?member=lee")
	require.Equal(t, http.StatusOK, code)
	summary := body["data"].([]any)[0].(map[string]any)
	assert.InDelta(t, 200, summary["member"].(map[string]any)["totalFocus"], 0)
}

func TestHeatmaps(t *testing.T) {
	s := newTestServer(t, testBundle(), nil)

	code, body := get(t, s, "/api/heatmap/team")
	require.Equal(t, http.StatusOK, code)
	cells := body["data"].(map[string]any)["cells"].([]any)
	assert.Len(t, cells, schema.HeatmapWeeks)

	code, body = get(t, s, "/api/heatmap/members?now=2025-03-01")
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "2025-03-01T00:00:00Z", data["now"])
	members := data["members"].([]any)
	require.Len(t, members, 2)
	assert.Equal(t, "Kim", members[0].(map[string]any)["member"])
}

func TestReport(t *testing.T) {
	code, body := get(t, newTestServer(t, testBundle(), nil), "/api/report?domain=growth")
	require.Equal(t, http.StatusOK, code)
	report := body["data"].(map[string]any)
	assert.Equal(t, "project", report["mode"])
	assert.Len(t, report["memberHeatmaps"].([]any), 1)
}

func TestLimit(t *testing.T) {
	bundle := testBundle()
	bundle.Records = append(bundle.Records, schema.SourceRecord{
		Member: "Lee", Date: "2025-01-09", Domain: "Growth",
		Initiatives: []schema.SourceInitiative{
			{Project: "Gamma", Tasks: []schema.SourceTask{{Title: "d", Progress: 10}}},
			{Project: "Delta", Tasks: []schema.SourceTask{{Title: "e", Progress: 0}}},
		},
	})
	s := newTestServer(t, bundle, nil)

	code, body := get(t, s, "/api/weeks?limit=1")
	require.Equal(t, http.StatusOK, code)
	week := body["data"].([]any)[0].(map[string]any)
	initiatives := week["initiatives"].([]any)
	require.Len(t, initiatives, 1)
	assert.Equal(t, "Alpha", initiatives[0].(map[string]any)["name"])
	assert.Len(t, week["members"].([]any), 1)
	assert.InDelta(t, 560, week["totalInitiativeFocus"], 0, "totals still count every entry")

	code, body = get(t, s, "/api/summary?limit=2")
	require.Equal(t, http.StatusOK, code)
	project := body["data"].([]any)[0].(map[string]any)["project"].(map[string]any)
	assert.Len(t, project["entries"].([]any), 2)
	assert.InDelta(t, 760, project["totalFocus"], 0)

	code, body = get(t, s, "/api/report?limit=1")
	require.Equal(t, http.StatusOK, code)
	report := body["data"].(map[string]any)
	summary := report["summary"].(map[string]any)
	assert.Len(t, summary["project"].(map[string]any)["entries"].([]any), 1)

	code, body = get(t, s, "/api/weeks")
	require.Equal(t, http.StatusOK, code)
	week = body["data"].([]any)[0].(map[string]any)
	assert.Len(t, week["initiatives"].([]any), 3, "a trimmed response leaves later requests untouched")
}

func TestErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, testBundle(), nil).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/weeks?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"bad_request","message":"invalid limit '0'. must be between 1 and 1000"}}`, rec.Body.String())
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		loadErr error
		status  int
		code    string
	}{
		{"bad mode", "/api/weeks?mode=member", nil, http.StatusBadRequest, "bad_request"},
		{"bad month", "/api/summary?month=2025-13", nil, http.StatusBadRequest, "bad_request"},
		{"bad now", "/api/heatmap/team?now=tomorrow", nil, http.StatusBadRequest, "bad_request"},
		{"bad by_month", "/api/summary?by_month=maybe", nil, http.StatusBadRequest, "bad_request"},
		{"zero limit", "/api/weeks?limit=0", nil, http.StatusBadRequest, "bad_request"},
		{"huge limit", "/api/summary?limit=1001", nil, http.StatusBadRequest, "bad_request"},
		{"text limit", "/api/report?limit=ten", nil, http.StatusBadRequest, "bad_request"},
		{"no facts", "/api/report?member=ann", nil, http.StatusNotFound, "no_facts"},
		{"no source", "/api/report", contract.ErrNoSource, http.StatusServiceUnavailable, "no_source"},
		{"load failure", "/api/report", assert.AnError, http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var bundle *schema.SourceBundle
			if tt.loadErr == nil {
				bundle = testBundle()
			}
			status, body := get(t, newTestServer(t, bundle, tt.loadErr), tt.target)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.code, body["error"].(map[string]any)["code"])
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, testBundle(), nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/weeks", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListenAndServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer(t, testBundle(), nil).ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
