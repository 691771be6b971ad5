package domain

import (
	"testing"
	"time"

	"github.com/huangsam/ratechart/core/transform"
	"github.com/huangsam/ratechart/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func extent(a, b int) schema.TimeExtent {
	return schema.TimeExtent{Start: day(a), End: day(b)}
}

func TestDateExtent(t *testing.T) {
	points := []schema.DataPoint{{Timestamp: day(5)}, {Timestamp: day(2)}, {Timestamp: day(9)}}
	assert.True(t, extent(2, 9).Equal(DateExtent(points)))
}

func TestDateExtentEmpty(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	orig := nowFunc
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = orig }()

	ext := DateExtent(nil)
	assert.True(t, fixed.Equal(ext.Start))
	assert.True(t, fixed.Equal(ext.End))
}

func TestEffectiveXDomain(t *testing.T) {
	full := extent(1, 31)
	tests := []struct {
		name string
		zoom *schema.TimeExtent
		want schema.TimeExtent
	}{
		{"no zoom", nil, full},
		{"inside", &schema.TimeExtent{Start: day(5), End: day(10)}, extent(5, 10)},
		{"overlaps start", &schema.TimeExtent{Start: day(1).AddDate(0, 0, -3), End: day(10)}, extent(1, 10)},
		{"overlaps end", &schema.TimeExtent{Start: day(20), End: day(31).AddDate(0, 1, 0)}, extent(20, 31)},
		{"wholly before", &schema.TimeExtent{Start: day(1).AddDate(-1, 0, 0), End: day(1).AddDate(0, -1, 0)}, full},
		{"wholly after", &schema.TimeExtent{Start: day(31).AddDate(0, 1, 0), End: day(31).AddDate(0, 2, 0)}, full},
		{"inverted", &schema.TimeExtent{Start: day(10), End: day(5)}, full},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveXDomain(full, tt.zoom)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestVisiblePointsInclusive(t *testing.T) {
	points := []schema.DataPoint{{Timestamp: day(1)}, {Timestamp: day(2)}, {Timestamp: day(3)}, {Timestamp: day(4)}}
	got := VisiblePoints(points, extent(2, 3))
	require.Len(t, got, 2)
	assert.True(t, day(2).Equal(got[0].Timestamp))
	assert.True(t, day(3).Equal(got[1].Timestamp))
}

func TestYDomain(t *testing.T) {
	tests := []struct {
		name   string
		points []schema.DataPoint
		want   float64
	}{
		{"empty", nil, 100},
		{"max with headroom", []schema.DataPoint{{ConversionRate: 10}, {ConversionRate: 50}, {ConversionRate: 20}}, 55},
		{"all zero", []schema.DataPoint{{ConversionRate: 0}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := YDomain(tt.points)
			assert.Zero(t, got.Min)
			assert.InDelta(t, tt.want, got.Max, 1e-9)
		})
	}
}

// Three cells over two days, one empty cell, one variation hidden.
func TestResolveEndToEnd(t *testing.T) {
	records := []schema.RawRecord{
		{Date: "2024-01-01", Visits: map[string]int{"0": 100, "10001": 100}, Conversions: map[string]int{"0": 10, "10001": 50}},
		{Date: "2024-01-02", Visits: map[string]int{"0": 200, "10001": 0, "10002": 80}, Conversions: map[string]int{"0": 40, "10001": 0, "10002": 60}},
	}
	points, errs := transform.Process(records, schema.DayGranularity, schema.NewSelection("0", "10001"), schema.DefaultCatalog())
	require.Empty(t, errs)
	require.Len(t, points, 3)

	view := Resolve(points, nil)
	assert.Len(t, view.Points, 3)
	assert.True(t, extent(1, 2).Equal(view.XDomain))
	assert.True(t, extent(1, 2).Equal(view.FullXDomain))
	assert.Zero(t, view.YDomain.Min)
	assert.InDelta(t, 55.0, view.YDomain.Max, 1e-9)
	assert.False(t, view.Zoomed)
}

func TestResolveZoomedRecomputesY(t *testing.T) {
	points := []schema.DataPoint{
		{Timestamp: day(1), ConversionRate: 80},
		{Timestamp: day(5), ConversionRate: 10},
		{Timestamp: day(9), ConversionRate: 20},
	}
	view := Resolve(points, &schema.TimeExtent{Start: day(4), End: day(10)})
	assert.True(t, view.Zoomed)
	assert.True(t, extent(4, 9).Equal(view.XDomain))
	assert.Len(t, view.Points, 2)
	assert.InDelta(t, 22.0, view.YDomain.Max, 1e-9)
}
