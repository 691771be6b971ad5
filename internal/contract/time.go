package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/ratechart/schema"
)

// openEnd stands in for a zoom window without an upper bound; it is clamped to the data extent.
var openEnd = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// ParseDate parses an ISO calendar date (2024-01-31) or an RFC3339 timestamp, returning UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", s)
	}
	return t.UTC(), nil
}

// ParseZoomWindow builds a zoom window from optional bounds.
// Both empty means no zoom; a missing bound is left open and later clamped to the data extent.
func ParseZoomWindow(start, end string) (*schema.TimeExtent, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}
	window := &schema.TimeExtent{End: openEnd}
	if start != "" {
		t, err := ParseDate(start)
		if err != nil {
			return nil, fmt.Errorf("zoom start: %w", err)
		}
		window.Start = t
	}
	if end != "" {
		t, err := ParseDate(end)
		if err != nil {
			return nil, fmt.Errorf("zoom end: %w", err)
		}
		window.End = t
	}
	return window, nil
}
