package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/internal/parquet"
	"github.com/huangsam/snapcal/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// jsonWeek is a week aggregation with rank, share and label added to every entry.
type jsonWeek struct {
	Key                  string                      `json:"key"`
	Start                string                      `json:"start"`
	End                  string                      `json:"end"`
	Dimension            schema.Dimension            `json:"dimension"`
	Initiatives          []schema.EnrichedFocusEntry `json:"initiatives"`
	Members              []schema.EnrichedFocusEntry `json:"members"`
	TotalInitiativeFocus int                         `json:"totalInitiativeFocus"`
	TotalMemberFocus     int                         `json:"totalMemberFocus"`
}

// printWeekResults dispatches per-week rankings based on the output format configured.
func (ow *OutWriter) printWeekResults(weeks []schema.WeekAggregation, cfg *contract.Config, stats schema.RunStats) error {
	fmtPct, fmtShare := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, toJSONWeeks(weeks, cfg))
		}, "Wrote JSON")
	case schema.CSVOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeeksCSV(w, weeks, cfg, fmtShare)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(ow, cfg.OutputFile, parquet.ConvertWeekAggregations(limitWeeks(weeks, cfg)), "Wrote Parquet")
	default:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeWeeksTable(w, weeks, cfg, fmtPct); err != nil {
				return err
			}
			return writeStats(w, cfg, stats)
		}, "Wrote table")
	}
}

// limitWeeks returns copies of the weeks with their lists trimmed to the result limit.
// Totals keep counting every entry.
func limitWeeks(weeks []schema.WeekAggregation, cfg *contract.Config) []schema.WeekAggregation {
	out := make([]schema.WeekAggregation, len(weeks))
	for i, week := range weeks {
		week.Initiatives = limitEntries(week.Initiatives, cfg)
		week.Members = limitEntries(week.Members, cfg)
		out[i] = week
	}
	return out
}

func toJSONWeeks(weeks []schema.WeekAggregation, cfg *contract.Config) []jsonWeek {
	output := make([]jsonWeek, len(weeks))
	for i, week := range weeks {
		output[i] = jsonWeek{
			Key:                  week.Key.String(),
			Start:                week.Start.Format(dateLayout),
			End:                  week.End.Format(dateLayout),
			Dimension:            week.Dimension,
			Initiatives:          schema.EnrichEntries(limitEntries(week.Initiatives, cfg), week.TotalInitiativeFocus),
			Members:              schema.EnrichEntries(limitEntries(week.Members, cfg), week.TotalMemberFocus),
			TotalInitiativeFocus: week.TotalInitiativeFocus,
			TotalMemberFocus:     week.TotalMemberFocus,
		}
	}
	return output
}

// writeWeeksCSV writes one row per ranked entry, initiatives before members.
func writeWeeksCSV(w io.Writer, weeks []schema.WeekAggregation, cfg *contract.Config, fmtShare func(float64) string) error {
	header := []string{"week", "week_start", "dimension", "kind", "rank", "name", "focus", "share", "done", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range parquet.ConvertWeekAggregations(limitWeeks(weeks, cfg)) {
			rec := []string{
				row.WeekKey,
				row.WeekStart.Format(dateLayout),
				row.Dimension,
				row.Kind,
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

// writeWeeksTable renders a heading and two tables per week.
func writeWeeksTable(w io.Writer, weeks []schema.WeekAggregation, cfg *contract.Config, fmtPct func(float64) string) error {
	if len(weeks) == 0 {
		_, err := fmt.Fprintln(w, "No weeks with activity.")
		return err
	}
	for _, week := range weeks {
		if _, err := fmt.Fprintf(w, "%s (%s .. %s)\n", week.Key, week.Start.Format(dateLayout), week.End.Format(dateLayout)); err != nil {
			return err
		}
		if err := writeFocusTable(w, dimensionTitle(week.Dimension), week.Initiatives, week.TotalInitiativeFocus, cfg, fmtPct); err != nil {
			return err
		}
		if err := writeFocusTable(w, dimensionTitle(schema.MemberDimension), week.Members, week.TotalMemberFocus, cfg, fmtPct); err != nil {
			return err
		}
	}
	return nil
}

// writeFocusTable renders one ranked list with share bars.
func writeFocusTable(w io.Writer, title string, entries []schema.FocusEntry, total int, cfg *contract.Config, fmtPct func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", title, "Focus", "Share", "Done", "Label", ""})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg, barWidth+40)
	var data [][]string
	for i, e := range limitEntries(entries, cfg) {
		share := schema.Share(e.FocusScore, total)
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(e.Name, nameWidth),
			strconv.Itoa(e.FocusScore),
			fmtPct(share),
			strconv.Itoa(e.DoneTaskCount),
			labelFor(share, cfg),
			shareBar(share),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d of %d (total focus: %d)\n", len(data), len(entries), total)
	return err
}
