package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/internal/parquet"
	"github.com/huangsam/snapcal/schema"
)

// Sibling file suffixes used when a report is split into flat tables.
const (
	weeksSuffix   = ".weeks"
	summarySuffix = ".summary"
	heatmapSuffix = ".heatmap"
)

// jsonReport is a full report as written by JSON output.
type jsonReport struct {
	Now       string                 `json:"now"`
	Mode      schema.Dimension       `json:"mode"`
	Month     string                 `json:"month"`
	Weeks     []jsonWeek             `json:"weeks"`
	Summary   jsonSummary            `json:"summary"`
	Heatmaps  jsonHeatmaps           `json:"heatmaps"`
	Normalize schema.NormalizeReport `json:"normalize"`
}

// printReportResults dispatches a full report based on the output format configured.
// Flat formats write one sibling file per table next to the output file.
func (ow *OutWriter) printReportResults(report *schema.Report, cfg *contract.Config, stats schema.RunStats) error {
	fmtPct, fmtShare := createFormatters(cfg.Precision)
	summaries := []schema.RangeSummaries{report.Summary}

	switch cfg.Output {
	case schema.JSONOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, jsonReport{
				Now:       report.Now.Format(contract.DateTimeFormat),
				Mode:      report.Mode,
				Month:     report.Month.String(),
				Weeks:     toJSONWeeks(report.Weeks, cfg),
				Summary:   toJSONSummaries(summaries, cfg)[0],
				Heatmaps:  toJSONHeatmaps(report.TeamHeatmap, report.MemberHeatmaps),
				Normalize: report.Normalize,
			})
		}, "Wrote JSON")
	case schema.CSVOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("csv report output requires --output-file")
		}
		if err := ow.writeWithFile(cfg.OutputFile+weeksSuffix+".csv", func(w io.Writer) error {
			return writeWeeksCSV(w, report.Weeks, cfg, fmtShare)
		}, "Wrote CSV"); err != nil {
			return err
		}
		if err := ow.writeWithFile(cfg.OutputFile+summarySuffix+".csv", func(w io.Writer) error {
			return writeSummaryCSV(w, summaries, cfg, fmtShare)
		}, "Wrote CSV"); err != nil {
			return err
		}
		return ow.writeWithFile(cfg.OutputFile+heatmapSuffix+".csv", func(w io.Writer) error {
			return writeHeatmapCSV(w, report.TeamHeatmap, report.MemberHeatmaps)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		if err := writeParquetFile(ow, cfg.OutputFile+weeksSuffix+".parquet",
			parquet.ConvertWeekAggregations(limitWeeks(report.Weeks, cfg)), "Wrote Parquet"); err != nil {
			return err
		}
		if err := writeParquetFile(ow, cfg.OutputFile+summarySuffix+".parquet",
			parquet.ConvertRangeSummaries(limitSummaries(summaries, cfg)...), "Wrote Parquet"); err != nil {
			return err
		}
		return writeParquetFile(ow, cfg.OutputFile+heatmapSuffix+".parquet",
			parquet.ConvertHeatmaps(report.TeamHeatmap, report.MemberHeatmaps), "Wrote Parquet")
	default:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, "Report as of %s (mode: %s, month: %s)\n",
				report.Now.Format(dateLayout), report.Mode, report.Month); err != nil {
				return err
			}
			if err := writeWeeksTable(w, report.Weeks, cfg, fmtPct); err != nil {
				return err
			}
			if err := writeSummaryTable(w, report.Summary, cfg, fmtPct); err != nil {
				return err
			}
			if err := writeHeatmapGrid(w, report.TeamHeatmap, report.MemberHeatmaps, cfg); err != nil {
				return err
			}
			return writeStats(w, cfg, stats)
		}, "Wrote table")
	}
}

// sortedReasons returns the skip reasons of a report in a stable order.
func sortedReasons(report schema.NormalizeReport) []schema.SkipReason {
	reasons := make([]schema.SkipReason, 0, len(report.SkippedByReason))
	for reason := range report.SkippedByReason {
		reasons = append(reasons, reason)
	}
	slices.Sort(reasons)
	return reasons
}

// printNormalizeReport writes what the normalizer kept and skipped for a source.
func (ow *OutWriter) printNormalizeReport(bundle *schema.SourceBundle, report schema.NormalizeReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				Path   string `json:"path"`
				Format string `json:"format"`
				Digest string `json:"digest"`
				schema.NormalizeReport
			}{bundle.Path, bundle.Format, bundle.Digest, report})
		}, "Wrote JSON")
	case schema.CSVOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"reason", "count"}, func(cw *csv.Writer) error {
				for _, reason := range sortedReasons(report) {
					if err := cw.Write([]string{string(reason), strconv.Itoa(report.SkippedByReason[reason])}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for source checks")
	default:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, "Source %s (%s, digest %s)\n", bundle.Path, bundle.Format, shortDigest(bundle.Digest)); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "Records: %d, facts: %d, skipped: %d\n", report.Records, report.Facts, report.Skipped); err != nil {
				return err
			}
			for _, reason := range sortedReasons(report) {
				if _, err := fmt.Fprintf(w, "  %-16s %d\n", reason, report.SkippedByReason[reason]); err != nil {
					return err
				}
			}
			return nil
		}, "Wrote check")
	}
}

// shortDigest abbreviates a hex digest for display.
func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
