package cmd

import (
	"github.com/huangsam/ratechart/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [dataset.json]",
	Short: "Start the Ratechart MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents compute conversion rate series, hover tooltips and zoom windows via standard tools.`,
	Args:  cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
