package schema

import "time"

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// Granularity represents the time bucket used for plotted points.
	Granularity string

	// TooltipAlign represents where the hover label sits relative to its anchor.
	TooltipAlign string

	// ZoomAction represents a zoom gesture.
	ZoomAction string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All granularities supported.
const (
	DayGranularity  Granularity = "day" // default
	WeekGranularity Granularity = "week"
)

// All tooltip alignments.
const (
	AlignLeft   TooltipAlign = "left"
	AlignCenter TooltipAlign = "center"
	AlignRight  TooltipAlign = "right"
)

// All zoom actions supported.
const (
	ZoomIn    ZoomAction = "in"
	ZoomOut   ZoomAction = "out"
	ZoomReset ZoomAction = "reset"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Chart interaction constants.
const (
	DefaultZoomStep     = 0.2            // Fraction of the range removed per zoom-in
	MinZoomSpan         = 24 * time.Hour // Narrowest zoom window allowed
	YAxisHeadroom       = 1.1            // Multiplier applied to the max visible rate
	DefaultRateMax      = 100.0          // Upper Y bound when nothing is visible
	TooltipSafeSpace    = 80.0           // Pixels kept between a hover label and either edge
	DefaultChartWidth   = 800.0
	DefaultChartHeight  = 400.0
	ControlVariationID  = "0"
	UnknownVariationFmt = "Variation %s"
)

// DefaultMargin is the space reserved around the plot for the axes.
var DefaultMargin = Margin{Top: 40, Right: 5, Bottom: 60, Left: 46}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidGranularities lists all valid granularities.
var ValidGranularities = map[Granularity]struct{}{
	DayGranularity:  {},
	WeekGranularity: {},
}

// ValidZoomActions lists all valid zoom actions.
var ValidZoomActions = map[ZoomAction]struct{}{
	ZoomIn:    {},
	ZoomOut:   {},
	ZoomReset: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
