// Package parquet provides data structures and functions for exporting ratechart
// series and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/ratechart/schema"
	"github.com/parquet-go/parquet-go"
)

// Point is one plotted conversion rate for one variation at one instant.
type Point struct {
	// Timestamp is the day (or week start) the point belongs to
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// VariationID is the identifier of the variation, "0" for control
	VariationID string `parquet:"variation_id,snappy,dict"`

	// VariationName is the display name of the variation
	VariationName string `parquet:"variation_name,snappy,dict"`

	// Visits is the number of visits in the bucket
	Visits int32 `parquet:"visits,snappy"`

	// Conversions is the number of conversions in the bucket
	Conversions int32 `parquet:"conversions,snappy"`

	// ConversionRate is conversions/visits as a percentage
	ConversionRate float64 `parquet:"conversion_rate,snappy"`
}

// Run represents a single pipeline run with metadata.
// This struct maps to the ratechart_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// Dataset is the absolute path of the dataset file
	Dataset string `parquet:"dataset,snappy"`

	// Granularity is the bucket size the run plotted with
	Granularity string `parquet:"granularity,snappy"`

	// TotalPoints is the number of points the run plotted
	TotalPoints int32 `parquet:"total_points,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RunPoint is a plotted point recorded by a run.
// This struct maps to the ratechart_run_points database table.
type RunPoint struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	Timestamp      time.Time `parquet:"timestamp,snappy"`
	VariationID    string    `parquet:"variation_id,snappy,dict"`
	VariationName  string    `parquet:"variation_name,snappy,dict"`
	Visits         int32     `parquet:"visits,snappy"`
	Conversions    int32     `parquet:"conversions,snappy"`
	ConversionRate float64   `parquet:"conversion_rate,snappy"`
}

// writeRows writes all rows to w using a schema inferred from T.
func writeRows[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to flush parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes all rows into it.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return writeRows(file, data)
}

// WritePoints writes plotted points as Parquet to w.
func WritePoints(w io.Writer, data []Point) error {
	return writeRows(w, data)
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteRunPointsParquet writes a slice of RunPoint structs to a Parquet file.
func WriteRunPointsParquet(data []RunPoint, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertDataPoints converts schema.DataPoint to Point for Parquet export.
func ConvertDataPoints(points []schema.DataPoint) []Point {
	result := make([]Point, len(points))
	for i, p := range points {
		result[i] = Point{
			Timestamp:      p.Timestamp,
			VariationID:    p.VariationID,
			VariationName:  p.VariationName,
			Visits:         int32(p.Visits),
			Conversions:    int32(p.Conversions),
			ConversionRate: p.ConversionRate,
		}
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			Dataset:       record.Dataset,
			Granularity:   record.Granularity,
			TotalPoints:   record.TotalPoints,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertRunPointRecords converts schema.RunPointRecord to RunPoint for Parquet export.
func ConvertRunPointRecords(records []schema.RunPointRecord) []RunPoint {
	result := make([]RunPoint, len(records))
	for i, record := range records {
		result[i] = RunPoint{
			RunID:          record.RunID,
			Timestamp:      record.Timestamp,
			VariationID:    record.VariationID,
			VariationName:  record.VariationName,
			Visits:         record.Visits,
			Conversions:    record.Conversions,
			ConversionRate: record.ConversionRate,
		}
	}
	return result
}
