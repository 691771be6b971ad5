package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/ratechart/internal/contract"
	"github.com/huangsam/ratechart/schema"
)

// WriteZoomResults outputs the next zoom window, dispatching based on the output format configured.
func WriteZoomResults(result schema.ZoomResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeZoomCSV(w, result)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errors.New("parquet output is not available for zoom results")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeZoomText(w, result)
		}, "Wrote text")
	}
}

func writeZoomText(w io.Writer, result schema.ZoomResult) error {
	window := "none (full range)"
	if result.Window != nil {
		window = formatWindow(*result.Window)
	}
	lines := []string{
		fmt.Sprintf("Action: %s", result.Action),
		fmt.Sprintf("Window: %s", window),
	}
	if result.Window != nil {
		lines = append(lines, fmt.Sprintf("Flags: %s", windowFlags(*result.Window)))
	}
	lines = append(lines,
		fmt.Sprintf("Changed: %t", result.Changed),
		fmt.Sprintf("Can zoom in: %t", result.CanIn),
		fmt.Sprintf("Can zoom out: %t", result.CanOut),
	)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeZoomCSV(w io.Writer, result schema.ZoomResult) error {
	header := []string{"action", "start", "end", "changed", "can_zoom_in", "can_zoom_out"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		start, end := "", ""
		if result.Window != nil {
			start = result.Window.Start.UTC().Format(time.RFC3339Nano)
			end = result.Window.End.UTC().Format(time.RFC3339Nano)
		}
		return cw.Write([]string{
			string(result.Action),
			start,
			end,
			strconv.FormatBool(result.Changed),
			strconv.FormatBool(result.CanIn),
			strconv.FormatBool(result.CanOut),
		})
	})
}
