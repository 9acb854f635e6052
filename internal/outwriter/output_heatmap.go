package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/internal/parquet"
	"github.com/huangsam/snapcal/schema"
)

// teamRowName labels the team row of the heatmap grid.
const teamRowName = "Team"

// jsonHeatmaps is the heatmap bundle written by JSON output.
type jsonHeatmaps struct {
	Team    jsonHeatRow   `json:"team"`
	Members []jsonHeatRow `json:"members"`
}

// jsonHeatRow is one heatmap row as written by JSON output.
type jsonHeatRow struct {
	Name  string         `json:"name"`
	Max   int            `json:"max"`
	Total int            `json:"total"`
	Cells []jsonHeatCell `json:"cells"`
}

type jsonHeatCell struct {
	WeekKey string `json:"weekKey"`
	Start   string `json:"start"`
	Value   int    `json:"value"`
	Level   int    `json:"level"`
	Label   string `json:"label"`
	Future  bool   `json:"future"`
}

// printHeatmapResults dispatches heatmaps based on the output format configured.
func (ow *OutWriter) printHeatmapResults(team []schema.HeatmapCell, members []schema.MemberHeatmap, cfg *contract.Config, stats schema.RunStats) error {
	switch cfg.Output {
	case schema.JSONOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, toJSONHeatmaps(team, members))
		}, "Wrote JSON")
	case schema.CSVOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHeatmapCSV(w, team, members)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(ow, cfg.OutputFile, parquet.ConvertHeatmaps(team, members), "Wrote Parquet")
	default:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeHeatmapGrid(w, team, members, cfg); err != nil {
				return err
			}
			return writeStats(w, cfg, stats)
		}, "Wrote heatmap")
	}
}

// rowMax returns the largest value of a row.
func rowMax(cells []schema.HeatmapCell) int {
	m := 0
	for _, c := range cells {
		m = max(m, c.Value)
	}
	return m
}

// rowTotal returns the sum of a row's values.
func rowTotal(cells []schema.HeatmapCell) int {
	total := 0
	for _, c := range cells {
		total += c.Value
	}
	return total
}

func toJSONHeatRow(name string, maxValue int, cells []schema.HeatmapCell) jsonHeatRow {
	out := jsonHeatRow{Name: name, Max: maxValue, Total: rowTotal(cells), Cells: make([]jsonHeatCell, len(cells))}
	for i, c := range cells {
		out.Cells[i] = jsonHeatCell{
			WeekKey: c.WeekKey.String(),
			Start:   c.Start.Format(dateLayout),
			Value:   c.Value,
			Level:   c.Level,
			Label:   schema.GetHeatLabel(c.Level),
			Future:  c.Future,
		}
	}
	return out
}

func toJSONHeatmaps(team []schema.HeatmapCell, members []schema.MemberHeatmap) jsonHeatmaps {
	output := jsonHeatmaps{
		Team:    toJSONHeatRow(teamRowName, rowMax(team), team),
		Members: make([]jsonHeatRow, len(members)),
	}
	for i, m := range members {
		output.Members[i] = toJSONHeatRow(m.Member, m.Max, m.Cells)
	}
	return output
}

// writeHeatmapCSV writes one row per cell, team cells first.
func writeHeatmapCSV(w io.Writer, team []schema.HeatmapCell, members []schema.MemberHeatmap) error {
	header := []string{"scope", "member", "week", "week_start", "value", "level", "future"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range parquet.ConvertHeatmaps(team, members) {
			rec := []string{
				row.Scope,
				row.Member,
				row.WeekKey,
				row.WeekStart.Format(dateLayout),
				strconv.Itoa(int(row.Value)),
				strconv.Itoa(int(row.Level)),
				strconv.FormatBool(row.Future),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// monthAxis labels the column where each month starts, oldest to newest.
func monthAxis(cells []schema.HeatmapCell) string {
	axis := []rune(strings.Repeat(" ", len(cells)))
	lastMonth := -1
	nextFree := 0
	for i, c := range cells {
		month := int(c.Start.Month())
		if month == lastMonth {
			continue
		}
		lastMonth = month
		label := []rune(c.Start.Month().String()[:3])
		if i < nextFree || i+len(label) > len(axis) {
			continue
		}
		copy(axis[i:], label)
		nextFree = i + len(label) + 1
	}
	return strings.TrimRight(string(axis), " ")
}

// writeHeatRow writes a padded name followed by one glyph per week.
func writeHeatRow(w io.Writer, name string, nameWidth int, cells []schema.HeatmapCell, cfg *contract.Config) error {
	var sb strings.Builder
	for _, c := range cells {
		sb.WriteString(glyphFor(c, cfg))
	}
	_, err := fmt.Fprintf(w, "%-*s %s  %d\n", nameWidth, contract.TruncateName(name, nameWidth), sb.String(), rowTotal(cells))
	return err
}

// writeHeatmapGrid renders the team row and every member row as a week grid.
func writeHeatmapGrid(w io.Writer, team []schema.HeatmapCell, members []schema.MemberHeatmap, cfg *contract.Config) error {
	nameWidth := len(teamRowName)
	for _, m := range limitMembers(members, cfg) {
		nameWidth = max(nameWidth, len([]rune(m.Member)))
	}
	nameWidth = min(nameWidth, getMaxTableNameWidth(cfg, len(team)+8))

	if len(team) > 0 {
		if _, err := fmt.Fprintf(w, "Heatmap %s .. %s\n", team[0].WeekKey, team[len(team)-1].WeekKey); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%-*s %s\n", nameWidth, "", monthAxis(team)); err != nil {
		return err
	}
	if err := writeHeatRow(w, teamRowName, nameWidth, team, cfg); err != nil {
		return err
	}
	shown := limitMembers(members, cfg)
	for _, m := range shown {
		if err := writeHeatRow(w, m.Member, nameWidth, m.Cells, cfg); err != nil {
			return err
		}
	}

	legend := make([]string, 0, schema.MaxHeatLevel+1)
	for level := 0; level <= schema.MaxHeatLevel; level++ {
		legend = append(legend, glyphFor(schema.HeatmapCell{Level: level}, cfg))
	}
	if _, err := fmt.Fprintf(w, "%-*s Less %s More\n", nameWidth, "", strings.Join(legend, " ")); err != nil {
		return err
	}
	if len(shown) < len(members) {
		if _, err := fmt.Fprintf(w, "Showing %d of %d members\n", len(shown), len(members)); err != nil {
			return err
		}
	}
	return nil
}

// limitMembers trims member rows to the result limit for display.
func limitMembers(members []schema.MemberHeatmap, cfg *contract.Config) []schema.MemberHeatmap {
	if cfg.ResultLimit > 0 && len(members) > cfg.ResultLimit {
		return members[:cfg.ResultLimit]
	}
	return members
}
