// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"os"

	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/schema"
)

// OutWriter provides a unified interface for all output operations.
// Results go to the configured output file, or to its stdout when none is set.
type OutWriter struct {
	stdout io.Writer
	stderr io.Writer
}

// NewOutWriter creates a writer bound to the process stdout and stderr.
func NewOutWriter() *OutWriter {
	return &OutWriter{stdout: os.Stdout, stderr: os.Stderr}
}

// NewOutWriterTo creates a writer that prints to w and drops file notices.
func NewOutWriterTo(w io.Writer) *OutWriter {
	return &OutWriter{stdout: w, stderr: io.Discard}
}

// WriteWeeks prints per-week rankings using the configured output format.
func (ow *OutWriter) WriteWeeks(weeks []schema.WeekAggregation, cfg *contract.Config, stats schema.RunStats) error {
	return ow.printWeekResults(weeks, cfg, stats)
}

// WriteSummaries prints one or more range leaderboards using the configured output format.
func (ow *OutWriter) WriteSummaries(summaries []schema.RangeSummaries, cfg *contract.Config, stats schema.RunStats) error {
	return ow.printSummaryResults(summaries, cfg, stats)
}

// WriteHeatmaps prints the team heatmap and the member heatmaps using the configured output format.
func (ow *OutWriter) WriteHeatmaps(team []schema.HeatmapCell, members []schema.MemberHeatmap, cfg *contract.Config, stats schema.RunStats) error {
	return ow.printHeatmapResults(team, members, cfg, stats)
}

// WriteReport prints a full report using the configured output format.
func (ow *OutWriter) WriteReport(report *schema.Report, cfg *contract.Config, stats schema.RunStats) error {
	return ow.printReportResults(report, cfg, stats)
}

// WriteNormalizeReport prints what the normalizer kept and skipped.
func (ow *OutWriter) WriteNormalizeReport(bundle *schema.SourceBundle, report schema.NormalizeReport, cfg *contract.Config) error {
	return ow.printNormalizeReport(bundle, report, cfg)
}
