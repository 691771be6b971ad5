// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/ratechart/internal/contract"
	"github.com/huangsam/ratechart/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

var _ contract.OutputWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSeries prints the resolved chart view using the configured output format.
func (ow *OutWriter) WriteSeries(view schema.ChartView, catalog schema.Catalog, cfg *contract.Config, duration time.Duration) error {
	return WriteSeriesResults(view, catalog, cfg, duration)
}

// WriteHover prints the hover payload using the configured output format.
func (ow *OutWriter) WriteHover(payload *schema.HoverPayload, catalog schema.Catalog, cfg *contract.Config) error {
	return WriteHoverResults(payload, catalog, cfg)
}

// WriteZoom prints the zoom outcome using the configured output format.
func (ow *OutWriter) WriteZoom(result schema.ZoomResult, cfg *contract.Config) error {
	return WriteZoomResults(result, cfg)
}
