package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/internal/parquet"
)

// ExportHistory writes every recorded run and heatmap cell to two Parquet files
// named after outputFile and reports progress to w.
func ExportHistory(store contract.HistoryStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not configured, use --history-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total report runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total heatmap cells: %d\n", status.TotalCellsSaved)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve report runs: %w", err)
	}
	cells, err := store.GetAllHeatmapCells()
	if err != nil {
		return fmt.Errorf("failed to retrieve heatmap cells: %w", err)
	}

	runsFile := outputFile + ".report_runs.parquet"
	parquetRuns := parquet.ConvertReportRunRecords(runs)
	if err := parquet.WriteReportRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write report runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d report runs to: %s\n", len(parquetRuns), runsFile)

	cellsFile := outputFile + ".heatmap_cells.parquet"
	parquetCells := parquet.ConvertHeatmapCellRecords(cells)
	if err := parquet.WriteHistoryCellsParquet(parquetCells, cellsFile); err != nil {
		return fmt.Errorf("failed to write heatmap cells: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d heatmap cells to: %s\n", len(parquetCells), cellsFile)

	return nil
}
