// Package parquet provides row types and writers for exporting snapcal
// reports and run history using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/snapcal/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRun maps to the snapcal_report_runs history table.
type ReportRun struct {
	RunID          int64      `parquet:"run_id,snappy"`
	RunUUID        string     `parquet:"run_uuid,snappy"`
	StartTime      time.Time  `parquet:"start_time,snappy"`
	EndTime        *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs  *int32     `parquet:"run_duration_ms,optional,snappy"`
	TotalFacts     int32      `parquet:"total_facts,snappy"`
	SkippedRecords int32      `parquet:"skipped_records,snappy"`
	ConfigParams   *string    `parquet:"config_params,optional,snappy"`
}

// HistoryCell maps to the snapcal_heatmap_cells history table.
type HistoryCell struct {
	RunID     int64     `parquet:"run_id,snappy"`
	Scope     string    `parquet:"scope,dict,snappy"`
	Member    string    `parquet:"member,dict,snappy"`
	WeekKey   string    `parquet:"week_key,snappy"`
	WeekStart time.Time `parquet:"week_start,snappy"`
	Value     int32     `parquet:"value,snappy"`
	Level     int32     `parquet:"level,snappy"`
}

// WeekEntry is one ranked row of a per-week ranking.
// Kind separates initiative rankings from member rankings.
type WeekEntry struct {
	WeekKey       string    `parquet:"week_key,dict,snappy"`
	WeekStart     time.Time `parquet:"week_start,snappy"`
	Dimension     string    `parquet:"dimension,dict,snappy"`
	Kind          string    `parquet:"kind,dict,snappy"`
	Rank          int32     `parquet:"rank,snappy"`
	Name          string    `parquet:"name,snappy"`
	FocusScore    int32     `parquet:"focus_score,snappy"`
	DoneTaskCount int32     `parquet:"done_task_count,snappy"`
	Share         float64   `parquet:"share,snappy"`
}

// SummaryEntry is one ranked row of a range leaderboard.
type SummaryEntry struct {
	Filter        string  `parquet:"filter,dict,snappy"`
	Dimension     string  `parquet:"dimension,dict,snappy"`
	Rank          int32   `parquet:"rank,snappy"`
	Name          string  `parquet:"name,snappy"`
	FocusScore    int32   `parquet:"focus_score,snappy"`
	DoneTaskCount int32   `parquet:"done_task_count,snappy"`
	Share         float64 `parquet:"share,snappy"`
}

// HeatmapCell is one cell of a team or member heatmap row.
type HeatmapCell struct {
	Scope     string    `parquet:"scope,dict,snappy"`
	Member    string    `parquet:"member,dict,snappy"`
	WeekKey   string    `parquet:"week_key,snappy"`
	WeekStart time.Time `parquet:"week_start,snappy"`
	Value     int32     `parquet:"value,snappy"`
	Level     int32     `parquet:"level,snappy"`
	Future    bool      `parquet:"future,snappy"`
}

// WriteRows writes rows to w as a single Parquet file whose schema is inferred from T.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile creates outputPath and writes rows to it.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteReportRunsParquet writes report runs to a Parquet file.
func WriteReportRunsParquet(data []ReportRun, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteHistoryCellsParquet writes recorded heatmap cells to a Parquet file.
func WriteHistoryCellsParquet(data []HistoryCell, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ConvertReportRunRecords converts history rows to Parquet rows.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	result := make([]ReportRun, len(records))
	for i, record := range records {
		result[i] = ReportRun{
			RunID:          record.RunID,
			RunUUID:        record.RunUUID,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			RunDurationMs:  record.RunDurationMs,
			TotalFacts:     record.TotalFacts,
			SkippedRecords: record.SkippedRecords,
			ConfigParams:   record.ConfigParams,
		}
	}
	return result
}

// ConvertHeatmapCellRecords converts history rows to Parquet rows.
func ConvertHeatmapCellRecords(records []schema.HeatmapCellRecord) []HistoryCell {
	result := make([]HistoryCell, len(records))
	for i, record := range records {
		result[i] = HistoryCell{
			RunID:     record.RunID,
			Scope:     record.Scope,
			Member:    record.Member,
			WeekKey:   record.WeekKey,
			WeekStart: record.WeekStart,
			Value:     record.Value,
			Level:     record.Level,
		}
	}
	return result
}

// ConvertWeekAggregations flattens per-week rankings, initiatives first, in rank order.
func ConvertWeekAggregations(weeks []schema.WeekAggregation) []WeekEntry {
	var result []WeekEntry
	for _, week := range weeks {
		add := func(kind string, dim schema.Dimension, entries []schema.FocusEntry, total int) {
			for i, entry := range entries {
				result = append(result, WeekEntry{
					WeekKey:       week.Key.String(),
					WeekStart:     week.Start,
					Dimension:     string(dim),
					Kind:          kind,
					Rank:          int32(i + 1),
					Name:          entry.Name,
					FocusScore:    int32(entry.FocusScore),
					DoneTaskCount: int32(entry.DoneTaskCount),
					Share:         schema.Share(entry.FocusScore, total),
				})
			}
		}
		add("initiative", week.Dimension, week.Initiatives, week.TotalInitiativeFocus)
		add("member", schema.MemberDimension, week.Members, week.TotalMemberFocus)
	}
	return result
}

// ConvertRangeSummaries flattens the four leaderboards of each summary.
func ConvertRangeSummaries(summaries ...schema.RangeSummaries) []SummaryEntry {
	var result []SummaryEntry
	for _, summary := range summaries {
		for _, dim := range []schema.Dimension{schema.ProjectDimension, schema.ModuleDimension, schema.FeatureDimension, schema.MemberDimension} {
			board := summary.ByDimension(dim)
			for i, entry := range board.Entries {
				result = append(result, SummaryEntry{
					Filter:        summary.Filter.String(),
					Dimension:     string(dim),
					Rank:          int32(i + 1),
					Name:          entry.Name,
					FocusScore:    int32(entry.FocusScore),
					DoneTaskCount: int32(entry.DoneTaskCount),
					Share:         schema.Share(entry.FocusScore, board.TotalFocus),
				})
			}
		}
	}
	return result
}

// ConvertHeatmaps flattens the team row and every member row into cells.
func ConvertHeatmaps(team []schema.HeatmapCell, members []schema.MemberHeatmap) []HeatmapCell {
	result := make([]HeatmapCell, 0, len(team)*(len(members)+1))
	add := func(scope, member string, cells []schema.HeatmapCell) {
		for _, cell := range cells {
			result = append(result, HeatmapCell{
				Scope:     scope,
				Member:    member,
				WeekKey:   cell.WeekKey.String(),
				WeekStart: cell.Start,
				Value:     int32(cell.Value),
				Level:     int32(cell.Level),
				Future:    cell.Future,
			})
		}
	}
	add(schema.TeamScope, "", team)
	for _, row := range members {
		add(schema.MemberScope, row.Member, row.Cells)
	}
	return result
}
