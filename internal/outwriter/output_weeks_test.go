package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/snapcal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWeeksText(t *testing.T) {
	var buf bytes.Buffer
	stats := schema.RunStats{Duration: 5 * time.Millisecond, Facts: 3, Skipped: 1}
	require.NoError(t, NewOutWriterTo(&buf).WriteWeeks(sampleWeeks(), textConfig(), stats))

	output := buf.String()
	assert.Contains(t, output, "2025-W02 (2025-01-06 .. 2025-01-12)")
	assert.Contains(t, output, "Alpha")
	assert.Contains(t, output, "75.0%")
	assert.Contains(t, output, "Dominant")
	assert.Contains(t, output, "Showing 2 of 2 (total focus: 400)")
	assert.Contains(t, output, "Report computed in 5ms from 3 facts (1 records skipped). Cache backend: none")
}

func TestWriteWeeksTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewOutWriterTo(&buf).WriteWeeks(nil, textConfig(), schema.RunStats{}))
	assert.Contains(t, buf.String(), "No weeks with activity.")
}

func TestWriteWeeksLimitKeepsTotals(t *testing.T) {
	cfg := textConfig()
	cfg.ResultLimit = 1

	var buf bytes.Buffer
	require.NoError(t, NewOutWriterTo(&buf).WriteWeeks(sampleWeeks(), cfg, schema.RunStats{}))
	output := buf.String()
	assert.Contains(t, output, "Showing 1 of 2 (total focus: 400)")
	assert.NotContains(t, output, "Beta")
}

func TestWriteWeeksCSV(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.CSVOut

	var buf bytes.Buffer
	require.NoError(t, NewOutWriterTo(&buf).WriteWeeks(sampleWeeks(), cfg, schema.RunStats{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"week", "week_start", "dimension", "kind", "rank", "name", "focus", "share", "done", "label"}, records[0])
	assert.Equal(t, []string{"2025-W02", "2025-01-06", "project", "initiative", "1", "Alpha", "300", "0.750", "1", "Dominant"}, records[1])
	assert.Equal(t, "member", records[3][3])
	assert.Equal(t, "Kim", records[3][5])
}

func TestWriteWeeksJSON(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.JSONOut

	var buf bytes.Buffer
	require.NoError(t, NewOutWriterTo(&buf).WriteWeeks(sampleWeeks(), cfg, schema.RunStats{}))

	var out []jsonWeek
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "2025-W02", out[0].Key)
	assert.Equal(t, "2025-01-12", out[0].End)
	require.Len(t, out[0].Initiatives, 2)
	assert.Equal(t, 1, out[0].Initiatives[0].Rank)
	assert.Equal(t, 0.75, out[0].Initiatives[0].Share)
	assert.Equal(t, "Major", out[0].Members[1].Label)
}

func TestWriteWeeksParquetRequiresFile(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.ParquetOut

	var buf bytes.Buffer
	err := NewOutWriterTo(&buf).WriteWeeks(sampleWeeks(), cfg, schema.RunStats{})
	assert.ErrorContains(t, err, "--output-file")
}
