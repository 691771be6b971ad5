package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/ratechart/internal/contract"
	"github.com/huangsam/ratechart/internal/parquet"
	"github.com/huangsam/ratechart/schema"
)

// writeWithFile opens the configured destination, hands it to writer and cleans up.
// An empty outputFile writes to stdout.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON encodes data with two-space indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes a header row followed by whatever writeRows emits.
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

// writePointsParquet writes plotted points in Parquet form.
func writePointsParquet(w io.Writer, points []schema.DataPoint) error {
	return parquet.WritePoints(w, parquet.ConvertDataPoints(points))
}

// pointRow renders the shared CSV columns of a data point.
func pointRow(p schema.DataPoint, fmtFloat func(float64) string) []string {
	return []string{
		schema.FormatDate(p.Timestamp),
		p.VariationID,
		p.VariationName,
		fmt.Sprint(p.Visits),
		fmt.Sprint(p.Conversions),
		fmtFloat(p.ConversionRate),
	}
}

// pointHeader names the columns produced by pointRow.
var pointHeader = []string{"date", "variation_id", "variation_name", "visits", "conversions", "conversion_rate"}

// createFormatters returns the float formatter for the configured precision
// and the rate formatter that appends a percent sign.
func createFormatters(precision int) (fmtFloat, fmtRate func(float64) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtRate = func(v float64) string {
		return schema.FormatConversionRate(v, precision)
	}
	return fmtFloat, fmtRate
}

// formatWindow renders a time extent for humans.
func formatWindow(e schema.TimeExtent) string {
	return fmt.Sprintf("%s to %s", e.Start.Format(windowLayout(e.Start)), e.End.Format(windowLayout(e.End)))
}

// windowFlags renders e as zoom flags that reproduce it exactly.
func windowFlags(e schema.TimeExtent) string {
	return fmt.Sprintf("--zoom-start %s --zoom-end %s",
		e.Start.UTC().Format(time.RFC3339Nano), e.End.UTC().Format(time.RFC3339Nano))
}

// windowLayout drops the clock when the instant sits on midnight.
func windowLayout(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return "Jan 2, 2006"
	}
	return "Jan 2, 2006 15:04"
}
