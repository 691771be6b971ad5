package interact

import (
	"sort"
	"time"

	"github.com/huangsam/ratechart/schema"
)

// Pointer is a position relative to the rendering surface's top-left corner.
type Pointer struct {
	X float64
	Y float64
}

// InPlot reports whether p lies inside the inner plot rectangle, edges included.
func InPlot(p Pointer, dims schema.Dimensions) bool {
	if dims.InnerWidth() <= 0 || dims.InnerHeight() <= 0 {
		return false
	}
	x := p.X - dims.Margin.Left
	if x < 0 || x > dims.InnerWidth() {
		return false
	}
	return p.Y >= dims.Margin.Top && p.Y <= dims.Height-dims.Margin.Bottom
}

// UniqueDates returns the distinct timestamps of points in ascending order.
func UniqueDates(points []schema.DataPoint) []time.Time {
	dates := make([]time.Time, 0, len(points))
	for _, p := range points {
		dates = append(dates, p.Timestamp)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := dates[:0]
	for i, d := range dates {
		if i > 0 && d.Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// NearestDate inverts plotX through scale and picks the closest candidate.
// Candidates must be sorted and distinct. Equidistant neighbours resolve to the later date.
func NearestDate(plotX float64, scale TimeScale, candidates []time.Time) (time.Time, bool) {
	if len(candidates) == 0 {
		return time.Time{}, false
	}
	t := scale.Invert(plotX)
	i := sort.Search(len(candidates), func(i int) bool {
		return !candidates[i].Before(t)
	})
	switch {
	case i == 0:
		return candidates[0], true
	case i == len(candidates):
		return candidates[len(candidates)-1], true
	}
	prev, next := candidates[i-1], candidates[i]
	if t.Sub(prev) < next.Sub(t) {
		return prev, true
	}
	return next, true
}

// PointsAtDate returns the points stamped at date, highest rate first.
func PointsAtDate(points []schema.DataPoint, date time.Time) []schema.DataPoint {
	var out []schema.DataPoint
	for _, p := range points {
		if p.Timestamp.Equal(date) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConversionRate > out[j].ConversionRate
	})
	return out
}

// LabelAlignment keeps a label anchored at anchorX inside the safe space of a surface of width.
func LabelAlignment(anchorX, width float64) schema.TooltipAlign {
	switch {
	case anchorX < schema.TooltipSafeSpace:
		return schema.AlignLeft
	case anchorX > width-schema.TooltipSafeSpace:
		return schema.AlignRight
	default:
		return schema.AlignCenter
	}
}

// ResolveHover finds the date nearest to the pointer and builds the tooltip payload.
// It reports false when the pointer is outside the plot or nothing is visible.
func ResolveHover(p Pointer, dims schema.Dimensions, view schema.ChartView, g schema.Granularity) (schema.HoverPayload, bool) {
	if !InPlot(p, dims) {
		return schema.HoverPayload{}, false
	}
	xScale := NewXScale(view.XDomain, dims)
	date, ok := NearestDate(p.X-dims.Margin.Left, xScale, UniqueDates(view.Points))
	if !ok {
		return schema.HoverPayload{}, false
	}
	points := PointsAtDate(view.Points, date)
	anchorX := xScale.Scale(date) + dims.Margin.Left
	yScale := NewYScale(view.YDomain, dims)
	markers := make([]schema.HoverMarker, len(points))
	for i, pt := range points {
		markers[i] = schema.HoverMarker{
			VariationID: pt.VariationID,
			X:           anchorX,
			Y:           yScale.Scale(pt.ConversionRate) + dims.Margin.Top,
		}
	}
	payload := schema.HoverPayload{
		Date:        date,
		Points:      points,
		Markers:     markers,
		AnchorX:     anchorX,
		AnchorY:     dims.Margin.Top,
		Align:       LabelAlignment(anchorX, dims.Width),
		Granularity: g,
	}
	if len(points) > 0 {
		payload.BestVariation = points[0].VariationID
	}
	return payload, true
}
