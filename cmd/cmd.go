// Package cmd defines the command-line interface for ratechart.
package cmd

import (
	"github.com/huangsam/ratechart/internal/contract"
	"github.com/huangsam/ratechart/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(hoverCmd)
	rootCmd.AddCommand(zoomCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("granularity", "g", string(schema.DayGranularity), "Time bucket: day or week")
	rootCmd.PersistentFlags().String("variations", "", "Comma-separated variation ids to plot (default: all)")
	rootCmd.PersistentFlags().String("toggle", "", "Comma-separated variation ids to show or hide on top of --variations")
	rootCmd.PersistentFlags().String("zoom-start", "", "Zoom window start as YYYY-MM-DD or RFC3339")
	rootCmd.PersistentFlags().String("zoom-end", "", "Zoom window end as YYYY-MM-DD or RFC3339")
	rootCmd.PersistentFlags().Float64("zoom-step", schema.DefaultZoomStep, "Fraction of the range removed per zoom-in, between 0 and 1")
	rootCmd.PersistentFlags().Float64("chart-width", schema.DefaultChartWidth, "Chart width in pixels")
	rootCmd.PersistentFlags().Float64("chart-height", schema.DefaultChartHeight, "Chart height in pixels")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for conversion rates")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of hoverCmd to Viper
	hoverCmd.Flags().Float64("x", 0, "Pointer x coordinate in chart pixels")
	hoverCmd.Flags().Float64("y", 0, "Pointer y coordinate in chart pixels")
	if err := viper.BindPFlags(hoverCmd.Flags()); err != nil {
		contract.LogFatal("Error binding hover flags", err)
	}

	// Bind all flags of zoomCmd to Viper
	zoomCmd.Flags().String("action", string(schema.ZoomIn), "Zoom gesture: in or out or reset")
	if err := viper.BindPFlags(zoomCmd.Flags()); err != nil {
		contract.LogFatal("Error binding zoom flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
