package cmd

import (
	"github.com/huangsam/ratechart/core"
	"github.com/huangsam/ratechart/internal/contract"
	"github.com/spf13/cobra"
)

// seriesCmd computes the conversion rate series and chart domains.
var seriesCmd = &cobra.Command{
	Use:   "series <dataset.json>",
	Short: "Show conversion rates per variation over time.",
	Long: `Load an A/B test dataset and compute the conversion rate of every selected
variation for each day or ISO week.

Prints the plotted points with the resolved chart domains:
- X domain: the date range on screen, narrowed by --zoom-start/--zoom-end
- Y domain: 0 up to the highest visible rate plus 10% headroom
- The leading variation for every period

Runs are recorded when a history backend is configured.

Examples:
  # Daily rates for every variation
  ratechart series data.json

  # Weekly rates for the control and one variation
  ratechart series data.json --granularity week --variations 0,10001

  # Focus on a date range
  ratechart series data.json --zoom-start 2025-01-10 --zoom-end 2025-01-20

  # Export points for a notebook
  ratechart series data.json --output parquet --output-file points.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeries(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute series", err)
		}
	},
}
