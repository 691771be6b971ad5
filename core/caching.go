package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/ratechart/core/transform"
	"github.com/huangsam/ratechart/internal/contract"
	"github.com/huangsam/ratechart/internal/loader"
	"github.com/huangsam/ratechart/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheTTL is how long a cached view stays valid.
const cacheTTL = 7 * 24 * time.Hour

// cachedView returns the chart view from the cache when possible and computes it otherwise.
func cachedView(cfg *contract.Config, ds *loader.Dataset, mgr contract.CacheManager, verbose bool) schema.ChartView {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetCacheStore()
	}
	if store == nil {
		// Fallback to direct computation
		return buildView(cfg, ds)
	}

	key := generateCacheKey(cfg, ds)

	// Check for cache hit
	if view := checkCacheHit(store, key); view != nil {
		return *view
	}

	// Cache miss: compute and store
	return computeAndStore(cfg, ds, store, key, verbose)
}

// checkCacheHit attempts to retrieve and validate a cached view
func checkCacheHit(store contract.CacheStore, key string) *schema.ChartView {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return nil // Stale or version mismatch
	}

	var view schema.ChartView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil
	}
	return &view
}

// computeAndStore computes the view and stores it in cache.
// Views without points are not stored since their extent depends on the current time.
func computeAndStore(cfg *contract.Config, ds *loader.Dataset, store contract.CacheStore, key string, verbose bool) schema.ChartView {
	view := buildView(cfg, ds)
	if len(view.Points) == 0 {
		return view
	}
	if data, err := json.Marshal(view); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil && verbose {
			contract.LogWarn("Failed to cache chart view", err)
		}
	}
	return view
}

// generateCacheKey creates a unique key from the dataset contents and the chart state
func generateCacheKey(cfg *contract.Config, ds *loader.Dataset) string {
	state := cfg.State(transform.VariationIDs(ds.Records, ds.Catalog))

	zoom := "none"
	if state.Zoom != nil {
		zoom = fmt.Sprintf("%d-%d", state.Zoom.Start.UnixMilli(), state.Zoom.End.UnixMilli())
	}

	key := fmt.Sprintf("%s:%s:%s:%s",
		ds.Digest,
		state.Granularity,
		strings.Join(state.Selection.IDs(), ","),
		zoom,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
