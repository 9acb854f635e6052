package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/internal/parquet"
	"github.com/huangsam/snapcal/schema"
)

// summaryDimensions is the order leaderboards are printed in.
var summaryDimensions = []schema.Dimension{
	schema.ProjectDimension,
	schema.ModuleDimension,
	schema.FeatureDimension,
	schema.MemberDimension,
}

// jsonBoard is one leaderboard with presentation data added.
type jsonBoard struct {
	Entries    []schema.EnrichedFocusEntry `json:"entries"`
	TotalFocus int                         `json:"totalFocus"`
	TotalDone  int                         `json:"totalDone"`
}

// jsonSummary is a range summary as written by JSON output.
type jsonSummary struct {
	Filter  string    `json:"filter"`
	Weeks   []string  `json:"weeks"`
	Project jsonBoard `json:"project"`
	Module  jsonBoard `json:"module"`
	Feature jsonBoard `json:"feature"`
	Member  jsonBoard `json:"member"`
}

// printSummaryResults dispatches range leaderboards based on the output format configured.
func (ow *OutWriter) printSummaryResults(summaries []schema.RangeSummaries, cfg *contract.Config, stats schema.RunStats) error {
	fmtPct, fmtShare := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, toJSONSummaries(summaries, cfg))
		}, "Wrote JSON")
	case schema.CSVOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryCSV(w, summaries, cfg, fmtShare)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(ow, cfg.OutputFile, parquet.ConvertRangeSummaries(limitSummaries(summaries, cfg)...), "Wrote Parquet")
	default:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			for _, summary := range summaries {
				if err := writeSummaryTable(w, summary, cfg, fmtPct); err != nil {
					return err
				}
			}
			return writeStats(w, cfg, stats)
		}, "Wrote table")
	}
}

// limitSummaries returns copies with every leaderboard trimmed to the result limit.
func limitSummaries(summaries []schema.RangeSummaries, cfg *contract.Config) []schema.RangeSummaries {
	out := make([]schema.RangeSummaries, len(summaries))
	for i, s := range summaries {
		s.Project.Entries = limitEntries(s.Project.Entries, cfg)
		s.Module.Entries = limitEntries(s.Module.Entries, cfg)
		s.Feature.Entries = limitEntries(s.Feature.Entries, cfg)
		s.Member.Entries = limitEntries(s.Member.Entries, cfg)
		out[i] = s
	}
	return out
}

func toJSONBoard(board schema.RangeSummary, cfg *contract.Config) jsonBoard {
	return jsonBoard{
		Entries:    schema.EnrichEntries(limitEntries(board.Entries, cfg), board.TotalFocus),
		TotalFocus: board.TotalFocus,
		TotalDone:  board.TotalDone,
	}
}

func toJSONSummaries(summaries []schema.RangeSummaries, cfg *contract.Config) []jsonSummary {
	output := make([]jsonSummary, len(summaries))
	for i, s := range summaries {
		weeks := make([]string, len(s.Weeks))
		for j, k := range s.Weeks {
			weeks[j] = k.String()
		}
		output[i] = jsonSummary{
			Filter:  s.Filter.String(),
			Weeks:   weeks,
			Project: toJSONBoard(s.Project, cfg),
			Module:  toJSONBoard(s.Module, cfg),
			Feature: toJSONBoard(s.Feature, cfg),
			Member:  toJSONBoard(s.Member, cfg),
		}
	}
	return output
}

// writeSummaryCSV writes one row per leaderboard entry.
func writeSummaryCSV(w io.Writer, summaries []schema.RangeSummaries, cfg *contract.Config, fmtShare func(float64) string) error {
	header := []string{"filter", "dimension", "rank", "name", "focus", "share", "done", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range parquet.ConvertRangeSummaries(limitSummaries(summaries, cfg)...) {
			rec := []string{
				row.Filter,
				row.Dimension,
				strconv.Itoa(int(row.Rank)),
				row.Name,
				strconv.Itoa(int(row.FocusScore)),
				fmtShare(row.Share),
				strconv.Itoa(int(row.DoneTaskCount)),
				schema.GetPlainLabel(row.Share),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeSummaryTable renders the four leaderboards of one range.
func writeSummaryTable(w io.Writer, summary schema.RangeSummaries, cfg *contract.Config, fmtPct func(float64) string) error {
	if _, err := fmt.Fprintf(w, "Summary for %s (%d weeks)\n", summary.Filter, len(summary.Weeks)); err != nil {
		return err
	}
	for _, dim := range summaryDimensions {
		board := summary.ByDimension(dim)
		if err := writeFocusTable(w, dimensionTitle(dim), board.Entries, board.TotalFocus, cfg, fmtPct); err != nil {
			return err
		}
	}
	return nil
}
