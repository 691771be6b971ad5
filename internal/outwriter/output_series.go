package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/ratechart/internal/contract"
	"github.com/huangsam/ratechart/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSeriesResults outputs the chart view, dispatching based on the output format configured.
func WriteSeriesResults(view schema.ChartView, catalog schema.Catalog, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtRate := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, view)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSeriesCSV(w, view, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePointsParquet(w, view.Points)
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSeriesTable(w, view, catalog, cfg, fmtRate, duration)
		}, "Wrote table")
	}
	return nil
}

// leadersByDate returns, per timestamp, the id of the first point with the highest rate.
func leadersByDate(points []schema.DataPoint) map[int64]string {
	best := make(map[int64]schema.DataPoint)
	for _, p := range points {
		key := p.Timestamp.Unix()
		if cur, ok := best[key]; !ok || p.ConversionRate > cur.ConversionRate {
			best[key] = p
		}
	}
	leaders := make(map[int64]string, len(best))
	for key, p := range best {
		leaders[key] = p.VariationID
	}
	return leaders
}

// writeSeriesTable renders one row per plotted point followed by the axis domains.
func writeSeriesTable(w io.Writer, view schema.ChartView, catalog schema.Catalog, cfg *contract.Config, fmtRate func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Period", "Variation", "Visits", "Conversions", "Rate", ""})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	granularity := cfg.Granularity
	if granularity == "" {
		granularity = schema.DayGranularity
	}
	nameWidth := getMaxNameWidth(cfg)
	leaders := leadersByDate(view.Points)

	var data [][]string
	for _, p := range view.Points {
		leader := ""
		if leaders[p.Timestamp.Unix()] == p.VariationID {
			leader = contract.GetLeaderLabel(cfg.UseColors)
		}
		data = append(data, []string{
			schema.FormatPeriodLabel(p.Timestamp, granularity),
			contract.GetVariationSwatch(catalog.Color(p.VariationID), cfg.UseColors) + " " + contract.TruncateName(p.VariationName, nameWidth),
			strconv.Itoa(p.Visits),
			strconv.Itoa(p.Conversions),
			fmtRate(p.ConversionRate),
			leader,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if legend := legendLine(view.Points, catalog, cfg.UseColors); legend != "" {
		if _, err := fmt.Fprintf(w, "Legend: %s\n", legend); err != nil {
			return err
		}
	}

	zoomNote := ""
	if view.Zoomed {
		zoomNote = " (zoomed)"
	}
	if _, err := fmt.Fprintf(w, "X domain: %s%s\n", formatWindow(view.XDomain), zoomNote); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Y domain: %s to %s\n", fmtRate(view.YDomain.Min), fmtRate(view.YDomain.Max)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Plotted %d points in %v. Cache backend: %s\n", len(view.Points), duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// legendLine lists the catalog variations that appear in points, in catalog order.
func legendLine(points []schema.DataPoint, catalog schema.Catalog, useColors bool) string {
	present := make(map[string]bool)
	for _, p := range points {
		present[p.VariationID] = true
	}
	var entries []string
	for _, spec := range catalog.Specs() {
		if present[spec.ID] {
			entries = append(entries, contract.GetVariationSwatch(spec.Color, useColors)+" "+spec.Name)
		}
	}
	return strings.Join(entries, "  ")
}

// writeSeriesCSV writes one CSV row per plotted point.
func writeSeriesCSV(w io.Writer, view schema.ChartView, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, pointHeader, func(cw *csv.Writer) error {
		for _, p := range view.Points {
			if err := cw.Write(pointRow(p, fmtFloat)); err != nil {
				return err
			}
		}
		return nil
	})
}
