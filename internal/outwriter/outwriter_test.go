package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/ratechart/internal/contract"
	rcparquet "github.com/huangsam/ratechart/internal/parquet"
	"github.com/huangsam/ratechart/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	day1 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
)

func sampleView() schema.ChartView {
	return schema.ChartView{
		Points: []schema.DataPoint{
			{Timestamp: day1, VariationID: "0", VariationName: "Original", Visits: 100, Conversions: 10, ConversionRate: 10},
			{Timestamp: day1, VariationID: "10001", VariationName: "Variation A", Visits: 100, Conversions: 50, ConversionRate: 50},
			{Timestamp: day2, VariationID: "0", VariationName: "Original", Visits: 40, Conversions: 20, ConversionRate: 50},
		},
		XDomain:     schema.TimeExtent{Start: day1, End: day2},
		FullXDomain: schema.TimeExtent{Start: day1, End: day2},
		YDomain:     schema.RateDomain{Min: 0, Max: 55},
	}
}

func samplePayload() *schema.HoverPayload {
	view := sampleView()
	return &schema.HoverPayload{
		Date:          day1,
		Points:        []schema.DataPoint{view.Points[1], view.Points[0]},
		BestVariation: "10001",
		AnchorX:       46,
		AnchorY:       40,
		Align:         schema.AlignLeft,
		Granularity:   schema.DayGranularity,
	}
}

func plainConfig() *contract.Config {
	return &contract.Config{
		Granularity:  schema.DayGranularity,
		Precision:    2,
		Output:       schema.TextOut,
		Width:        120,
		UseColors:    false,
		CacheBackend: schema.SQLiteBackend,
	}
}

func TestWriteSeriesTable(t *testing.T) {
	_, fmtRate := createFormatters(2)
	var buf bytes.Buffer

	err := writeSeriesTable(&buf, sampleView(), schema.DefaultCatalog(), plainConfig(), fmtRate, 10*time.Millisecond)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Jan 1, 2025")
	assert.Contains(t, out, "■ Variation A")
	assert.Contains(t, out, "50.00%")
	assert.Contains(t, out, "X domain: Jan 1, 2025 to Jan 2, 2025\n")
	assert.Contains(t, out, "Y domain: 0.00% to 55.00%")
	assert.Contains(t, out, "Plotted 3 points")
	assert.Equal(t, 2, strings.Count(out, "best"), "one leader per date")
	assert.Contains(t, out, "Legend: ■ Original  ■ Variation A\n")
}

func TestLegendLine(t *testing.T) {
	catalog := schema.DefaultCatalog()
	points := []schema.DataPoint{{VariationID: "10002"}, {VariationID: "0"}, {VariationID: "777"}}
	assert.Equal(t, "■ Original  ■ Variation B", legendLine(points, catalog, false))
	assert.Empty(t, legendLine(nil, catalog, false))
}

func TestWriteSeriesTable_WeekAndZoom(t *testing.T) {
	_, fmtRate := createFormatters(1)
	cfg := plainConfig()
	cfg.Granularity = schema.WeekGranularity
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	view := schema.ChartView{
		Points:  []schema.DataPoint{{Timestamp: monday, VariationID: "0", VariationName: "Original", Visits: 3, Conversions: 1, ConversionRate: 33.333}},
		XDomain: schema.TimeExtent{Start: monday, End: monday.Add(36 * time.Hour)},
		Zoomed:  true,
	}

	var buf bytes.Buffer
	require.NoError(t, writeSeriesTable(&buf, view, schema.DefaultCatalog(), cfg, fmtRate, 0))

	out := buf.String()
	assert.Contains(t, out, "Jan 1 - Jan 7, 2024")
	assert.Contains(t, out, "33.3%")
	assert.Contains(t, out, "Jan 2, 2024 12:00 (zoomed)")
}

func TestWriteSeriesCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	var buf bytes.Buffer
	require.NoError(t, writeSeriesCSV(&buf, sampleView(), fmtFloat))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, pointHeader, records[0])
	assert.Equal(t, []string{"2025-01-01", "10001", "Variation A", "100", "50", "50.00"}, records[2])
}

func TestWriteSeriesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, sampleView()))

	var decoded schema.ChartView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Points, 3)
	assert.InDelta(t, 55.0, decoded.YDomain.Max, 1e-9)
	assert.True(t, decoded.XDomain.Start.Equal(day1))
}

func TestWriteSeriesResults_ToFile(t *testing.T) {
	tests := []struct {
		name   string
		output schema.OutputMode
		check  func(t *testing.T, path string)
	}{
		{"json", schema.JSONOut, func(t *testing.T, path string) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), `"variation_id": "10001"`)
		}},
		{"csv", schema.CSVOut, func(t *testing.T, path string) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(data), "date,variation_id"))
		}},
		{"parquet", schema.ParquetOut, func(t *testing.T, path string) {
			rows, err := parquet.ReadFile[rcparquet.Point](path)
			require.NoError(t, err)
			require.Len(t, rows, 3)
			assert.Equal(t, "Variation A", rows[1].VariationName)
		}},
		{"text", schema.TextOut, func(t *testing.T, path string) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), "Y domain")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := plainConfig()
			cfg.Output = tt.output
			cfg.OutputFile = filepath.Join(t.TempDir(), "out."+string(tt.output))

			require.NoError(t, WriteSeriesResults(sampleView(), schema.DefaultCatalog(), cfg, time.Millisecond))
			tt.check(t, cfg.OutputFile)
		})
	}
}

func TestLeadersByDate(t *testing.T) {
	leaders := leadersByDate(sampleView().Points)
	assert.Equal(t, "10001", leaders[day1.Unix()])
	assert.Equal(t, "0", leaders[day2.Unix()])

	tied := []schema.DataPoint{
		{Timestamp: day1, VariationID: "0", ConversionRate: 20},
		{Timestamp: day1, VariationID: "10001", ConversionRate: 20},
	}
	assert.Equal(t, "0", leadersByDate(tied)[day1.Unix()], "first point wins a tie")
}

func TestWriteHoverText(t *testing.T) {
	_, fmtRate := createFormatters(2)

	t.Run("in plot", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeHoverText(&buf, samplePayload(), schema.DefaultCatalog(), plainConfig(), fmtRate))

		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "Jan 1, 2025\n"))
		assert.Less(t, strings.Index(out, "Variation A"), strings.Index(out, "Original"), "ordered by rate")
		assert.Equal(t, 1, strings.Count(out, "best"))
		assert.Contains(t, out, "Anchor: x=46.0 y=40.0 align=left")
	})

	t.Run("outside plot", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeHoverText(&buf, nil, schema.DefaultCatalog(), plainConfig(), fmtRate))
		assert.Contains(t, buf.String(), "outside the plot")
	})
}

func TestWriteHoverCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	var buf bytes.Buffer
	require.NoError(t, writeHoverCSV(&buf, samplePayload(), fmtFloat))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "best", records[0][len(records[0])-1])
	assert.Equal(t, "true", records[1][6])
	assert.Equal(t, "false", records[2][6])

	buf.Reset()
	require.NoError(t, writeHoverCSV(&buf, nil, fmtFloat))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "header only")
}

func TestWriteHoverResults_JSON(t *testing.T) {
	cfg := plainConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "hover.json")

	require.NoError(t, WriteHoverResults(nil, schema.DefaultCatalog(), cfg))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var decoded HoverResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.InPlot)
	assert.Nil(t, decoded.Hover)
}

func TestWriteZoom(t *testing.T) {
	window := &schema.TimeExtent{Start: day1, End: day1.Add(60 * time.Hour)}

	t.Run("text with window", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeZoomText(&buf, schema.ZoomResult{Action: schema.ZoomIn, Window: window, Changed: true, CanIn: true, CanOut: true}))
		out := buf.String()
		assert.Contains(t, out, "Action: in")
		assert.Contains(t, out, "Window: Jan 1, 2025 to Jan 3, 2025 12:00")
		assert.Contains(t, out, "Flags: --zoom-start 2025-01-01T00:00:00Z --zoom-end 2025-01-03T12:00:00Z")
		assert.Contains(t, out, "Changed: true")
	})

	t.Run("text without window", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeZoomText(&buf, schema.ZoomResult{Action: schema.ZoomReset, CanIn: true}))
		assert.Contains(t, buf.String(), "Window: none (full range)")
		assert.NotContains(t, buf.String(), "Flags:")
		assert.Contains(t, buf.String(), "Can zoom out: false")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeZoomCSV(&buf, schema.ZoomResult{Action: schema.ZoomOut, Window: window, CanOut: true}))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, []string{"out", "2025-01-01T00:00:00Z", "2025-01-03T12:00:00Z", "false", "false", "true"}, records[1])
	})

	t.Run("sub-second window round trips", func(t *testing.T) {
		precise := &schema.TimeExtent{
			Start: day1.Add(5*time.Hour + 42*time.Minute + 31*time.Second + 123456789),
			End:   day1.Add(6*24*time.Hour + 18*time.Hour + 17*time.Minute + 28*time.Second + 876543211),
		}

		var csvBuf bytes.Buffer
		require.NoError(t, writeZoomCSV(&csvBuf, schema.ZoomResult{Action: schema.ZoomIn, Window: precise}))
		records, err := csv.NewReader(&csvBuf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		parsed, err := contract.ParseZoomWindow(records[1][1], records[1][2])
		require.NoError(t, err)
		require.NotNil(t, parsed)
		assert.True(t, parsed.Equal(*precise), "csv window %v", parsed)

		var textBuf bytes.Buffer
		require.NoError(t, writeZoomText(&textBuf, schema.ZoomResult{Action: schema.ZoomIn, Window: precise}))
		fields := strings.Fields(textBuf.String()[strings.Index(textBuf.String(), "Flags:"):])
		require.GreaterOrEqual(t, len(fields), 5)
		assert.Equal(t, "--zoom-start", fields[1])
		assert.Equal(t, "--zoom-end", fields[3])
		parsed, err = contract.ParseZoomWindow(fields[2], fields[4])
		require.NoError(t, err)
		assert.True(t, parsed.Equal(*precise), "text window %v", parsed)
	})

	t.Run("parquet rejected", func(t *testing.T) {
		cfg := plainConfig()
		cfg.Output = schema.ParquetOut
		assert.Error(t, WriteZoomResults(schema.ZoomResult{}, cfg))
	})
}

func TestGetMaxNameWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{width: 60, want: 12},
		{width: 95, want: 25},
		{width: 200, want: 40},
	}

	for _, tt := range tests {
		cfg := &contract.Config{Width: tt.width}
		assert.Equal(t, tt.want, getMaxNameWidth(cfg), "width %d", tt.width)
	}
}

func TestOutWriterImplementsContract(t *testing.T) {
	var ow contract.OutputWriter = NewOutWriter()
	cfg := plainConfig()
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "zoom.csv")
	require.NoError(t, ow.WriteZoom(schema.ZoomResult{Action: schema.ZoomReset}, cfg))
	assert.FileExists(t, cfg.OutputFile)
}
