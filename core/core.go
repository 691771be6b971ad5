// Package core runs the conversion-rate pipeline: it loads a dataset, transforms it
// into plotted points, resolves the chart domains and answers hover and zoom queries.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/ratechart/core/domain"
	"github.com/huangsam/ratechart/core/interact"
	"github.com/huangsam/ratechart/core/transform"
	"github.com/huangsam/ratechart/internal/contract"
	"github.com/huangsam/ratechart/internal/loader"
	"github.com/huangsam/ratechart/internal/outwriter"
	"github.com/huangsam/ratechart/schema"
)

// ExecutorFunc defines the function signature for executing a command.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// outputWriter is the writer used by the Execute functions.
var outputWriter contract.OutputWriter = outwriter.NewOutWriter()

// SeriesResult is the outcome of a series run.
type SeriesResult struct {
	View     schema.ChartView `json:"view"`
	Catalog  schema.Catalog   `json:"-"`
	Dataset  string           `json:"dataset"`
	Duration time.Duration    `json:"-"`
}

// GetSeriesResults runs the pipeline and returns the resolved chart view.
func GetSeriesResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*SeriesResult, error) {
	start := time.Now()
	ds, view, err := runPipeline(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	return &SeriesResult{
		View:     view,
		Catalog:  ds.Catalog,
		Dataset:  ds.Source,
		Duration: time.Since(start),
	}, nil
}

// GetHoverResults resolves the tooltip for the configured pointer position.
// A nil payload means the pointer is outside the plot or nothing is visible.
func GetHoverResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.HoverPayload, schema.Catalog, error) {
	ds, view, err := runPipeline(ctx, cfg, mgr)
	if err != nil {
		return nil, schema.Catalog{}, err
	}
	pointer := interact.Pointer{X: cfg.PointerX, Y: cfg.PointerY}
	payload, ok := interact.ResolveHover(pointer, cfg.Dimensions(), view, cfg.Granularity)
	if !ok {
		return nil, ds.Catalog, nil
	}
	return &payload, ds.Catalog, nil
}

// GetZoomResults applies the configured zoom action to the current window.
func GetZoomResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.ZoomResult, error) {
	_, view, err := runPipeline(ctx, cfg, mgr)
	if err != nil {
		return schema.ZoomResult{}, err
	}
	var window *schema.TimeExtent
	if view.Zoomed {
		x := view.XDomain
		window = &x
	}
	return interact.ApplyZoom(cfg.ZoomAction, window, view.FullXDomain, cfg.ZoomStep), nil
}

// ExecuteSeries prints the chart view and records the run in history.
func ExecuteSeries(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	startTime := time.Now()
	result, err := GetSeriesResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	recordRun(mgr, cfg, result, startTime)
	return outputWriter.WriteSeries(result.View, result.Catalog, cfg, result.Duration)
}

// ExecuteHover prints the tooltip for the configured pointer position.
func ExecuteHover(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	payload, catalog, err := GetHoverResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outputWriter.WriteHover(payload, catalog, cfg)
}

// ExecuteZoom prints the next zoom window.
func ExecuteZoom(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, err := GetZoomResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outputWriter.WriteZoom(result, cfg)
}

// runPipeline loads the dataset and resolves the chart view, consulting the cache first.
func runPipeline(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*loader.Dataset, schema.ChartView, error) {
	ds, err := loader.Load(cfg.DatasetPath)
	if err != nil {
		return nil, schema.ChartView{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, schema.ChartView{}, err
	}

	if !shouldSuppressHeader(ctx) {
		printHeader(cfg, ds)
		for _, skipped := range skippedRecords(ds) {
			contract.LogWarn("Skipped record", skipped)
		}
	}

	return ds, cachedView(cfg, ds, mgr, !shouldSuppressHeader(ctx)), nil
}

// skippedRecords lists every record the pipeline ignores, whether or not the view comes from cache.
func skippedRecords(ds *loader.Dataset) []error {
	skipped := make([]error, 0, len(ds.Skipped))
	skipped = append(skipped, ds.Skipped...)
	return append(skipped, transform.CheckRecords(ds.Records)...)
}

// buildView transforms the dataset records and resolves the chart domains.
func buildView(cfg *contract.Config, ds *loader.Dataset) schema.ChartView {
	state := cfg.State(transform.VariationIDs(ds.Records, ds.Catalog))
	points, _ := transform.Process(ds.Records, state.Granularity, state.Selection, ds.Catalog)
	return domain.Resolve(points, state.Zoom)
}

// printHeader prints a short summary of the dataset for text output.
func printHeader(cfg *contract.Config, ds *loader.Dataset) {
	if cfg.Output != schema.TextOut && cfg.Output != "" {
		return
	}
	title := fmt.Sprintf("📈 Dataset: %s (Granularity: %s)", ds.Source, cfg.Granularity)
	if cfg.UseColors {
		title = contract.HeaderColor.Sprint(title)
	}
	fmt.Fprintln(os.Stderr, title)
	fmt.Fprintf(os.Stderr, "🧪 Records: %d, Variations: %d\n", len(ds.Records), ds.Catalog.Len())
}

// recordRun stores the run and its plotted points when a history store is configured.
func recordRun(mgr contract.CacheManager, cfg *contract.Config, result *SeriesResult, startTime time.Time) {
	if mgr == nil {
		return
	}
	history := mgr.GetHistoryStore()
	if history == nil {
		return
	}

	params := map[string]any{
		"granularity": string(cfg.Granularity),
		"variations":  cfg.Variations,
		"zoomed":      result.View.Zoomed,
	}
	if cfg.Zoom != nil {
		params["zoom_start"] = cfg.Zoom.Start.UTC().Format(time.RFC3339Nano)
		params["zoom_end"] = cfg.Zoom.End.UTC().Format(time.RFC3339Nano)
	}

	runID, err := history.BeginRun(startTime, result.Dataset, cfg.Granularity, params)
	if err != nil {
		contract.LogWarn("Failed to begin history run", err)
		return
	}
	if err := history.RecordPoints(runID, result.View.Points); err != nil {
		contract.LogWarn("Failed to record run points", err)
	}
	if err := history.EndRun(runID, time.Now(), len(result.View.Points)); err != nil {
		contract.LogWarn("Failed to end history run", err)
	}
}
