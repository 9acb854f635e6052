package iocache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/snapcal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHistory(t *testing.T) {
	store := newTestHistoryStore(t)
	start := time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, schema.RunParams{Mode: schema.ProjectDimension})
	require.NoError(t, err)
	require.NoError(t, store.RecordHeatmap(runID, schema.TeamScope, "", testCells(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 1, 2)))
	require.NoError(t, store.EndRun(runID, start.Add(time.Second), 4, 0))

	base := filepath.Join(t.TempDir(), "history")
	var out bytes.Buffer
	require.NoError(t, ExportHistory(store, base, &out))

	for _, suffix := range []string{".report_runs.parquet", ".heatmap_cells.parquet"} {
		info, err := os.Stat(base + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Contains(t, out.String(), "Exported 1 report runs")
	assert.Contains(t, out.String(), "Exported 2 heatmap cells")
}

func TestExportHistoryErrors(t *testing.T) {
	var out bytes.Buffer

	assert.ErrorContains(t, ExportHistory(&MockHistoryStore{}, "", &out), "--output-file")
	assert.ErrorContains(t, ExportHistory(nil, "out", &out), "not configured")

	empty := &MockHistoryStore{}
	empty.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite", Connected: true}, nil)
	assert.ErrorContains(t, ExportHistory(empty, "out", &out), "no run history")
	empty.AssertExpectations(t)

	broken := &MockHistoryStore{}
	broken.On("GetStatus").Return(schema.HistoryStatus{TotalRuns: 1}, nil)
	broken.On("GetAllRuns").Return(nil, errors.New("boom"))
	assert.ErrorContains(t, ExportHistory(broken, "out", &out), "boom")
	broken.AssertExpectations(t)
}
