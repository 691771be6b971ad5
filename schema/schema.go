// Package schema has configs, models and global variables for all parts of ratechart.
package schema

import "time"

// RawVariation is a variation entry as it appears in the dataset file.
// The control arm is usually listed without an id.
type RawVariation struct {
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"name"`
}

// RawRecord is one calendar day of visit and conversion counts keyed by variation id.
type RawRecord struct {
	Date        string         `json:"date"`
	Visits      map[string]int `json:"visits"`
	Conversions map[string]int `json:"conversions"`
}

// RawDataset is the flat per-day table loaded once at startup.
type RawDataset struct {
	Variations []RawVariation `json:"variations"`
	Data       []RawRecord    `json:"data"`
}

// VariationSpec describes one arm of the A/B test.
type VariationSpec struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DataPoint is a single plotted value for one variation at one instant.
type DataPoint struct {
	Timestamp      time.Time `json:"timestamp"`
	VariationID    string    `json:"variation_id"`
	VariationName  string    `json:"variation_name"`
	ConversionRate float64   `json:"conversion_rate"` // Percentage in [0, 100]
	Visits         int       `json:"visits"`
	Conversions    int       `json:"conversions"`
}

// TimeExtent is a (start, end) pair along the time axis.
type TimeExtent struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Span returns the width of the extent.
func (e TimeExtent) Span() time.Duration {
	return e.End.Sub(e.Start)
}

// IsDegenerate reports whether the extent has zero (or negative) width.
func (e TimeExtent) IsDegenerate() bool {
	return !e.Start.Before(e.End)
}

// Equal reports whether both bounds are the same instants.
func (e TimeExtent) Equal(other TimeExtent) bool {
	return e.Start.Equal(other.Start) && e.End.Equal(other.End)
}

// RateDomain is the (min, max) pair along the conversion-rate axis.
type RateDomain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ChartView is everything a renderer needs to draw axes, curves and gridlines.
type ChartView struct {
	Points      []DataPoint `json:"points"`
	XDomain     TimeExtent  `json:"x_domain"`
	YDomain     RateDomain  `json:"y_domain"`
	FullXDomain TimeExtent  `json:"full_x_domain"`
	Zoomed      bool        `json:"zoomed"`
}

// Margin is the space reserved around the plot for axes.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Dimensions is the rendering surface size supplied by the host on every change.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
}

// InnerWidth returns the plot width without margins.
func (d Dimensions) InnerWidth() float64 {
	return d.Width - d.Margin.Left - d.Margin.Right
}

// InnerHeight returns the plot height without margins.
func (d Dimensions) InnerHeight() float64 {
	return d.Height - d.Margin.Top - d.Margin.Bottom
}

// HoverMarker is where a hovered point sits on the chart surface.
type HoverMarker struct {
	VariationID string  `json:"variation_id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// HoverPayload is what a tooltip renderer consumes.
type HoverPayload struct {
	Date          time.Time     `json:"date"`
	Points        []DataPoint   `json:"points"`  // Ordered by descending conversion rate
	Markers       []HoverMarker `json:"markers"` // Parallel to Points
	BestVariation string       `json:"best_variation"`
	AnchorX       float64      `json:"anchor_x"`
	AnchorY       float64      `json:"anchor_y"`
	Align         TooltipAlign `json:"align"`
	Granularity   Granularity  `json:"granularity"`
}

// ZoomResult is the outcome of a zoom gesture.
type ZoomResult struct {
	Action  ZoomAction  `json:"action"`
	Window  *TimeExtent `json:"window"` // nil means no zoom
	Changed bool        `json:"changed"`
	CanIn   bool        `json:"can_zoom_in"`
	CanOut  bool        `json:"can_zoom_out"`
}
