package cmd

import (
	"github.com/huangsam/ratechart/core"
	"github.com/huangsam/ratechart/internal/contract"
	"github.com/spf13/cobra"
)

// hoverCmd resolves the tooltip for a pointer position.
var hoverCmd = &cobra.Command{
	Use:   "hover <dataset.json>",
	Short: "Resolve the tooltip at a pointer position on the chart.",
	Long: `Map a pointer position on the rendered chart to the nearest plotted date and
print the tooltip: every selected variation at that date ordered by rate, the
best performer, and where the label is anchored.

Pointers in the margins produce no tooltip. The chart size defaults to 800x400
with the standard axis margins.

Examples:
  # Pointer near the left edge of the plot
  ratechart hover data.json --x 60 --y 120

  # Weekly chart rendered at a custom size
  ratechart hover data.json --granularity week --x 300 --y 200 --chart-width 1024 --chart-height 480`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHover(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot resolve hover", err)
		}
	},
}
