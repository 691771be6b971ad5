package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/ratechart/internal/contract"
	"github.com/huangsam/ratechart/internal/parquet"
)

// ExecuteHistoryExport writes the run history held by store to two Parquet files
// named after outputFile and reports progress to w.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized; set --history-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total point records: %d\n", status.TableSizes[runPointsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	points, err := store.GetAllRunPoints()
	if err != nil {
		return fmt.Errorf("failed to retrieve run points: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	parquetPoints := parquet.ConvertRunPointRecords(points)
	pointsFile := outputFile + ".run_points.parquet"
	if err := parquet.WriteRunPointsParquet(parquetPoints, pointsFile); err != nil {
		return fmt.Errorf("failed to write run points: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d point records to: %s\n", len(parquetPoints), pointsFile)

	return nil
}
