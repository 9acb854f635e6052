package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/snapcal/core/algo"
	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/internal/parquet"
	"github.com/huangsam/snapcal/schema"
)

const (
	barWidth   = 20            // cells of a full-share bar in text tables
	dateLayout = time.DateOnly // week start and end dates
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// An empty outputFile writes to the writer's stdout.
func (ow *OutWriter) writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	if outputFile == "" {
		return writer(ow.stdout)
	}

	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if err := writer(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(ow.stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}

// writeParquetFile writes rows to outputFile, which parquet output always requires.
func writeParquetFile[T any](ow *OutWriter, outputFile string, rows []T, successMsg string) error {
	if outputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return ow.writeWithFile(outputFile, func(w io.Writer) error {
		return parquet.WriteRows(w, rows)
	}, successMsg)
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the share formatters shared by text and CSV output.
// fmtPct renders a share as a percentage and fmtShare as a plain fraction.
func createFormatters(precision int) (fmtPct func(float64) string, fmtShare func(float64) string) {
	fmtPct = func(v float64) string {
		return strconv.FormatFloat(v*100, 'f', precision, 64) + "%"
	}
	fmtShare = func(v float64) string {
		return strconv.FormatFloat(v, 'f', precision+2, 64)
	}
	return fmtPct, fmtShare
}

// shareBar draws a share as a bar of up to barWidth cells.
func shareBar(share float64) string {
	n := int(share*barWidth + 0.5)
	n = min(max(n, 0), barWidth)
	if n == 0 && share > 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// labelFor returns the share label, colored when the config asks for it.
func labelFor(share float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(share)
	}
	return schema.GetPlainLabel(share)
}

// glyphFor returns the heat glyph of a cell. Future cells render blank.
func glyphFor(cell schema.HeatmapCell, cfg *contract.Config) string {
	if cell.Future {
		return " "
	}
	if cfg.UseColors {
		return contract.GetColorHeatGlyph(cell.Level)
	}
	return contract.HeatGlyph(cell.Level)
}

// limitEntries applies the configured result limit to a ranked list for display.
func limitEntries(entries []schema.FocusEntry, cfg *contract.Config) []schema.FocusEntry {
	return algo.LimitEntries(entries, cfg.ResultLimit)
}

// dimensionTitle capitalizes a dimension for table headers.
func dimensionTitle(dim schema.Dimension) string {
	s := string(dim)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeStats prints the closing line under text output.
func writeStats(w io.Writer, cfg *contract.Config, stats schema.RunStats) error {
	source := "computed"
	if stats.CacheHit {
		source = "cached"
	}
	_, err := fmt.Fprintf(w, "Report %s in %v from %d facts (%d records skipped). Cache backend: %s\n",
		source, stats.Duration, stats.Facts, stats.Skipped, cfg.CacheBackend)
	return err
}
