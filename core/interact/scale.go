// Package interact resolves pointer hover and zoom gestures against the chart's scales.
package interact

import (
	"time"

	"github.com/huangsam/ratechart/schema"
)

// TimeScale maps instants in a time domain onto a pixel range.
type TimeScale struct {
	Domain   schema.TimeExtent
	RangeMin float64
	RangeMax float64
}

// NewXScale builds the horizontal scale spanning the plot's inner width.
func NewXScale(x schema.TimeExtent, dims schema.Dimensions) TimeScale {
	return TimeScale{Domain: x, RangeMin: 0, RangeMax: dims.InnerWidth()}
}

// Scale maps t to a pixel position. A zero-width domain maps to the middle of the range.
func (s TimeScale) Scale(t time.Time) float64 {
	span := s.Domain.Span()
	if span <= 0 {
		return (s.RangeMin + s.RangeMax) / 2
	}
	frac := float64(t.Sub(s.Domain.Start)) / float64(span)
	return s.RangeMin + frac*(s.RangeMax-s.RangeMin)
}

// Invert maps a pixel position back to an instant. Degenerate scales return the domain start.
func (s TimeScale) Invert(x float64) time.Time {
	width := s.RangeMax - s.RangeMin
	span := s.Domain.Span()
	if width == 0 || span <= 0 {
		return s.Domain.Start
	}
	frac := (x - s.RangeMin) / width
	return s.Domain.Start.Add(time.Duration(frac * float64(span)))
}

// LinearScale maps conversion rates onto a pixel range.
type LinearScale struct {
	Domain   schema.RateDomain
	RangeMin float64
	RangeMax float64
}

// NewYScale builds the vertical scale with zero at the bottom of the plot.
func NewYScale(y schema.RateDomain, dims schema.Dimensions) LinearScale {
	return LinearScale{Domain: y, RangeMin: dims.InnerHeight(), RangeMax: 0}
}

// Scale maps v to a pixel position.
func (s LinearScale) Scale(v float64) float64 {
	span := s.Domain.Max - s.Domain.Min
	if span == 0 {
		return (s.RangeMin + s.RangeMax) / 2
	}
	return s.RangeMin + (v-s.Domain.Min)/span*(s.RangeMax-s.RangeMin)
}
