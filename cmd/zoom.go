package cmd

import (
	"github.com/huangsam/ratechart/core"
	"github.com/huangsam/ratechart/internal/contract"
	"github.com/spf13/cobra"
)

// zoomCmd applies a zoom gesture to the current window.
var zoomCmd = &cobra.Command{
	Use:   "zoom <dataset.json>",
	Short: "Compute the next zoom window for a zoom gesture.",
	Long: `Apply a zoom gesture to the current window and print the resulting window.

The current window comes from --zoom-start/--zoom-end (none means the full range).
- in:    shrink the window by --zoom-step around its center, refused below one day
- out:   undo one zoom-in step, clamped to the data; reaching the full range clears the zoom
- reset: clear the zoom

Examples:
  # First zoom-in from the full range
  ratechart zoom data.json --action in

  # Zoom out from a window
  ratechart zoom data.json --action out --zoom-start 2025-01-05 --zoom-end 2025-01-12

  # Feed the window to another tool
  ratechart zoom data.json --action in --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteZoom(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot apply zoom", err)
		}
	},
}
