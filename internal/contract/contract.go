// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/ratechart/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetCacheStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking pipeline runs and the points they plotted.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, dataset string, granularity schema.Granularity, configParams map[string]any) (int64, error)

	// RecordPoints stores the plotted points of a run
	RecordPoints(runID int64, points []schema.DataPoint) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalPoints int) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRunPoints returns every recorded point
	GetAllRunPoints() ([]schema.RunPointRecord, error)

	// Close closes the underlying connection
	Close() error
}

// OutputWriter renders pipeline results in the configured output format.
type OutputWriter interface {
	WriteSeries(view schema.ChartView, catalog schema.Catalog, cfg *Config, duration time.Duration) error
	WriteHover(payload *schema.HoverPayload, catalog schema.Catalog, cfg *Config) error
	WriteZoom(result schema.ZoomResult, cfg *Config) error
}
