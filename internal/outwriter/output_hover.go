package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/ratechart/internal/contract"
	"github.com/huangsam/ratechart/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// HoverResult is the serialized form of a hover query.
type HoverResult struct {
	InPlot bool                 `json:"in_plot"`
	Hover  *schema.HoverPayload `json:"hover"`
}

// WriteHoverResults outputs the hover payload, dispatching based on the output format configured.
// A nil payload means the pointer was outside the plot and the tooltip is hidden.
func WriteHoverResults(payload *schema.HoverPayload, catalog schema.Catalog, cfg *contract.Config) error {
	fmtFloat, fmtRate := createFormatters(cfg.Precision)
	result := HoverResult{InPlot: payload != nil, Hover: payload}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHoverCSV(w, payload, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		var points []schema.DataPoint
		if payload != nil {
			points = payload.Points
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePointsParquet(w, points)
		}, "Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHoverText(w, payload, catalog, cfg, fmtRate)
		}, "Wrote text")
	}
}

// writeHoverText renders the tooltip as a titled table ordered by rate.
func writeHoverText(w io.Writer, payload *schema.HoverPayload, catalog schema.Catalog, cfg *contract.Config, fmtRate func(float64) string) error {
	if payload == nil {
		_, err := fmt.Fprintln(w, "Pointer is outside the plot area; no tooltip.")
		return err
	}

	title := schema.FormatPeriodLabel(payload.Date, payload.Granularity)
	if cfg.UseColors {
		title = contract.HeaderColor.Sprint(title)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Variation", "Rate", "Visits", "Conversions", ""})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg)
	var data [][]string
	for _, p := range payload.Points {
		leader := ""
		if p.VariationID == payload.BestVariation {
			leader = contract.GetLeaderLabel(cfg.UseColors)
		}
		data = append(data, []string{
			contract.GetVariationSwatch(catalog.Color(p.VariationID), cfg.UseColors) + " " + contract.TruncateName(p.VariationName, nameWidth),
			fmtRate(p.ConversionRate),
			strconv.Itoa(p.Visits),
			strconv.Itoa(p.Conversions),
			leader,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	anchor := fmt.Sprintf("Anchor: x=%.1f y=%.1f align=%s", payload.AnchorX, payload.AnchorY, payload.Align)
	if cfg.UseColors {
		anchor = contract.MutedColor.Sprint(anchor)
	}
	_, err := fmt.Fprintln(w, anchor)
	return err
}

// writeHoverCSV writes the tooltip rows with a trailing best flag.
func writeHoverCSV(w io.Writer, payload *schema.HoverPayload, fmtFloat func(float64) string) error {
	header := append(append([]string{}, pointHeader...), "best")
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		if payload == nil {
			return nil
		}
		for _, p := range payload.Points {
			row := append(pointRow(p, fmtFloat), strconv.FormatBool(p.VariationID == payload.BestVariation))
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
