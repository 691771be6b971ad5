package interact

import (
	"math"
	"time"

	"github.com/huangsam/ratechart/schema"
)

// normalizeStep falls back to the default step outside (0, 1).
func normalizeStep(step float64) float64 {
	if step <= 0 || step >= 1 || math.IsNaN(step) {
		return schema.DefaultZoomStep
	}
	return step
}

func spanMillis(e schema.TimeExtent) float64 {
	return float64(e.Span().Milliseconds())
}

func addMillis(t time.Time, ms float64) time.Time {
	return t.Add(time.Duration(ms) * time.Millisecond)
}

// CanZoomIn reports whether narrowing the current window keeps it at least one day wide.
func CanZoomIn(window *schema.TimeExtent, full schema.TimeExtent, step float64) bool {
	if full.IsDegenerate() {
		return false
	}
	current := full
	if window != nil {
		current = *window
	}
	step = normalizeStep(step)
	return spanMillis(current)*(1-step) >= float64(schema.MinZoomSpan.Milliseconds())
}

// CanZoomOut reports whether there is a zoom to undo.
func CanZoomOut(window *schema.TimeExtent) bool {
	return window != nil
}

// ZoomIn shrinks the window by step around its center.
// A nil window starts from the full extent. It reports false when the gesture is refused.
func ZoomIn(window *schema.TimeExtent, full schema.TimeExtent, step float64) (*schema.TimeExtent, bool) {
	if !CanZoomIn(window, full, step) {
		return window, false
	}
	current := full
	if window != nil {
		current = *window
	}
	step = normalizeStep(step)
	delta := math.Round(spanMillis(current) * step / 2)
	return &schema.TimeExtent{
		Start: addMillis(current.Start, delta),
		End:   addMillis(current.End, -delta),
	}, true
}

// ZoomOut widens the window so that zooming back in would restore it, clamped to the full extent.
// Reaching the full extent clears the zoom.
func ZoomOut(window *schema.TimeExtent, full schema.TimeExtent, step float64) (*schema.TimeExtent, bool) {
	if window == nil || full.IsDegenerate() {
		return window, false
	}
	step = normalizeStep(step)
	delta := math.Round(spanMillis(*window) * step / (2 * (1 - step)))

	start := addMillis(window.Start, -delta)
	if start.Before(full.Start) {
		start = full.Start
	}
	end := addMillis(window.End, delta)
	if end.After(full.End) {
		end = full.End
	}
	next := schema.TimeExtent{Start: start, End: end}
	if next.Equal(full) {
		return nil, true
	}
	return &next, true
}

// Reset clears the zoom.
func Reset() *schema.TimeExtent {
	return nil
}

// ApplyZoom performs action and reports the resulting window and capabilities.
func ApplyZoom(action schema.ZoomAction, window *schema.TimeExtent, full schema.TimeExtent, step float64) schema.ZoomResult {
	var (
		next    *schema.TimeExtent
		changed bool
	)
	switch action {
	case schema.ZoomIn:
		next, changed = ZoomIn(window, full, step)
	case schema.ZoomOut:
		next, changed = ZoomOut(window, full, step)
	default:
		next, changed = Reset(), window != nil
	}
	return schema.ZoomResult{
		Action:  action,
		Window:  next,
		Changed: changed,
		CanIn:   CanZoomIn(next, full, step),
		CanOut:  CanZoomOut(next),
	}
}
