// Package domain computes the display domains of the chart from plotted points and the zoom window.
package domain

import (
	"time"

	"github.com/huangsam/ratechart/schema"
)

// nowFunc is swapped in tests.
var nowFunc = time.Now

// DateExtent returns the earliest and latest timestamps.
// Empty input yields (now, now).
func DateExtent(points []schema.DataPoint) schema.TimeExtent {
	if len(points) == 0 {
		now := nowFunc().UTC()
		return schema.TimeExtent{Start: now, End: now}
	}
	ext := schema.TimeExtent{Start: points[0].Timestamp, End: points[0].Timestamp}
	for _, p := range points[1:] {
		if p.Timestamp.Before(ext.Start) {
			ext.Start = p.Timestamp
		}
		if p.Timestamp.After(ext.End) {
			ext.End = p.Timestamp
		}
	}
	return ext
}

// EffectiveXDomain clamps the zoom window into the full extent.
// A nil zoom, or one that collapses after clamping, yields the full extent.
func EffectiveXDomain(full schema.TimeExtent, zoom *schema.TimeExtent) schema.TimeExtent {
	if zoom == nil {
		return full
	}
	start := zoom.Start
	if start.Before(full.Start) {
		start = full.Start
	}
	end := zoom.End
	if end.After(full.End) {
		end = full.End
	}
	if !start.Before(end) {
		return full
	}
	return schema.TimeExtent{Start: start, End: end}
}

// VisiblePoints keeps the points whose timestamp lies inside x, bounds included.
func VisiblePoints(points []schema.DataPoint, x schema.TimeExtent) []schema.DataPoint {
	out := make([]schema.DataPoint, 0, len(points))
	for _, p := range points {
		if p.Timestamp.Before(x.Start) || p.Timestamp.After(x.End) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// YDomain returns (0, max rate with headroom) for the visible points.
// Empty input yields (0, 100).
func YDomain(visible []schema.DataPoint) schema.RateDomain {
	if len(visible) == 0 {
		return schema.RateDomain{Min: 0, Max: schema.DefaultRateMax}
	}
	maxRate := visible[0].ConversionRate
	for _, p := range visible[1:] {
		if p.ConversionRate > maxRate {
			maxRate = p.ConversionRate
		}
	}
	return schema.RateDomain{Min: 0, Max: maxRate * schema.YAxisHeadroom}
}

// Resolve derives the whole chart view for points under an optional zoom.
func Resolve(points []schema.DataPoint, zoom *schema.TimeExtent) schema.ChartView {
	full := DateExtent(points)
	x := EffectiveXDomain(full, zoom)
	visible := VisiblePoints(points, x)
	return schema.ChartView{
		Points:      visible,
		XDomain:     x,
		YDomain:     YDomain(visible),
		FullXDomain: full,
		Zoomed:      !x.Equal(full),
	}
}
