package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/huangsam/ratechart/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	MaxPrecision     = 4
)

// Config holds the runtime configuration for the pipeline.
// This struct remains the "final, validated" config.
type Config struct {
	DatasetPath string

	Granularity schema.Granularity
	Variations  []string           // Empty means every variation in the dataset
	Toggles     []string           // Ids flipped on top of Variations
	Zoom        *schema.TimeExtent // nil means no zoom
	ZoomStep    float64
	ZoomAction  schema.ZoomAction

	PointerX float64
	PointerY float64

	ChartWidth  float64
	ChartHeight float64

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// ProfileConfig holds profiling configuration.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DatasetPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Granularity      string  `mapstructure:"granularity"`
	Variations       string  `mapstructure:"variations"`
	Toggle           string  `mapstructure:"toggle"`
	ZoomStart        string  `mapstructure:"zoom-start"`
	ZoomEnd          string  `mapstructure:"zoom-end"`
	ZoomStep         float64 `mapstructure:"zoom-step"`
	ChartWidth       float64 `mapstructure:"chart-width"`
	ChartHeight      float64 `mapstructure:"chart-height"`
	Precision        int     `mapstructure:"precision"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Width            int     `mapstructure:"width"`
	Color            string  `mapstructure:"color"`
	CacheBackend     string  `mapstructure:"cache-backend"`
	CacheDBConnect   string  `mapstructure:"cache-db-connect"`
	HistoryBackend   string  `mapstructure:"history-backend"`
	HistoryDBConnect string  `mapstructure:"history-db-connect"`

	// --- Fields from hoverCmd.Flags() ---
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`

	// --- Fields from zoomCmd.Flags() ---
	Action string `mapstructure:"action"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Variations != nil {
		clone.Variations = make([]string, len(c.Variations))
		copy(clone.Variations, c.Variations)
	}
	if c.Toggles != nil {
		clone.Toggles = make([]string, len(c.Toggles))
		copy(clone.Toggles, c.Toggles)
	}
	if c.Zoom != nil {
		zoom := *c.Zoom
		clone.Zoom = &zoom
	}
	return &clone
}

// Dimensions returns the rendering surface configured for hover resolution.
func (c *Config) Dimensions() schema.Dimensions {
	return schema.Dimensions{Width: c.ChartWidth, Height: c.ChartHeight, Margin: schema.DefaultMargin}
}

// State resolves the chart state against every variation id known for the dataset.
// Toggles are applied to the base selection and can never empty it.
func (c *Config) State(all []string) schema.ChartState {
	selection := c.Selection(all)
	for _, id := range c.Toggles {
		selection, _ = schema.ToggleVariation(selection, id)
	}
	return schema.ChartState{Granularity: c.Granularity}.
		WithSelection(selection).
		WithZoom(c.Zoom)
}

// Selection returns the selected variations, or every id in all when none were configured.
func (c *Config) Selection(all []string) schema.SelectionSet {
	if len(c.Variations) == 0 {
		return schema.NewSelection(all...)
	}
	return schema.NewSelection(c.Variations...)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processChartState(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveDatasetPath(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
		return nil
	}
	if _, ok := schema.ValidCacheBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// Cache and history tables could share a server, but not one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	return nil
}

// processChartState validates granularity, selection, zoom and chart dimensions.
func processChartState(cfg *Config, input *ConfigRawInput) error {
	cfg.Granularity = schema.Granularity(strings.ToLower(strings.TrimSpace(input.Granularity)))
	if cfg.Granularity == "" {
		cfg.Granularity = schema.DayGranularity
	}
	if _, ok := schema.ValidGranularities[cfg.Granularity]; !ok {
		return fmt.Errorf("invalid granularity '%s'. must be day, week", input.Granularity)
	}

	cfg.Variations = SplitList(input.Variations)
	cfg.Toggles = SplitList(input.Toggle)

	zoom, err := ParseZoomWindow(input.ZoomStart, input.ZoomEnd)
	if err != nil {
		return err
	}
	cfg.Zoom = zoom

	if input.ZoomStep <= 0 || input.ZoomStep >= 1 || math.IsNaN(input.ZoomStep) {
		return fmt.Errorf("zoom step must be between 0 and 1 exclusive (received %v)", input.ZoomStep)
	}
	cfg.ZoomStep = input.ZoomStep

	cfg.ZoomAction = schema.ZoomAction(strings.ToLower(strings.TrimSpace(input.Action)))
	if cfg.ZoomAction == "" {
		cfg.ZoomAction = schema.ZoomIn
	}
	if _, ok := schema.ValidZoomActions[cfg.ZoomAction]; !ok {
		return fmt.Errorf("invalid zoom action '%s'. must be in, out, reset", input.Action)
	}

	if input.ChartWidth <= 0 || input.ChartHeight <= 0 {
		return fmt.Errorf("chart dimensions must be positive (received %vx%v)", input.ChartWidth, input.ChartHeight)
	}
	cfg.ChartWidth = input.ChartWidth
	cfg.ChartHeight = input.ChartHeight
	cfg.PointerX = input.X
	cfg.PointerY = input.Y
	return nil
}

// resolveDatasetPath makes the dataset path absolute and checks that it is a regular file.
func resolveDatasetPath(cfg *Config, input *ConfigRawInput) error {
	if input.DatasetPathStr == "" {
		return nil
	}
	absPath, err := filepath.Abs(input.DatasetPathStr)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("dataset not accessible: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("dataset path %q is a directory", absPath)
	}
	cfg.DatasetPath = absPath
	return nil
}

// RevalidateChartState applies per-request chart overrides on top of an already validated config.
// Empty values keep what cfg already holds. Changing the granularity or the selection clears the
// configured zoom unless the same request supplies a new window.
func RevalidateChartState(cfg *Config, granularity, variations, toggles, zoomStart, zoomEnd string) error {
	state := schema.ChartState{
		Granularity: cfg.Granularity,
		Selection:   schema.NewSelection(cfg.Variations...),
	}.WithZoom(cfg.Zoom)

	if granularity != "" {
		g := schema.Granularity(strings.ToLower(strings.TrimSpace(granularity)))
		if _, ok := schema.ValidGranularities[g]; !ok {
			return fmt.Errorf("invalid granularity '%s'. must be day, week", granularity)
		}
		if g != state.Granularity {
			state = state.WithGranularity(g)
		}
	}
	if variations != "" {
		selection := schema.NewSelection(SplitList(variations)...)
		if !slices.Equal(selection.IDs(), state.Selection.IDs()) {
			state = state.WithSelection(selection)
		}
	}
	if toggles != "" {
		cfg.Toggles = SplitList(toggles)
		state = state.WithSelection(state.Selection)
	}
	if zoomStart != "" || zoomEnd != "" {
		zoom, err := ParseZoomWindow(zoomStart, zoomEnd)
		if err != nil {
			return err
		}
		state = state.WithZoom(zoom)
	}

	cfg.Granularity = state.Granularity
	if ids := state.Selection.IDs(); len(ids) > 0 {
		cfg.Variations = ids
	}
	cfg.Zoom = state.Zoom
	return nil
}

// RevalidateZoom applies a per-request zoom action and step. A zero step keeps the configured one.
func RevalidateZoom(cfg *Config, action string, step float64) error {
	if action != "" {
		a := schema.ZoomAction(strings.ToLower(strings.TrimSpace(action)))
		if _, ok := schema.ValidZoomActions[a]; !ok {
			return fmt.Errorf("invalid zoom action '%s'. must be in, out, reset", action)
		}
		cfg.ZoomAction = a
	}
	if step != 0 {
		if step < 0 || step >= 1 || math.IsNaN(step) {
			return fmt.Errorf("zoom step must be between 0 and 1 exclusive (received %v)", step)
		}
		cfg.ZoomStep = step
	}
	return nil
}

// RevalidateDimensions applies a per-request chart size. Zero values keep the configured size.
func RevalidateDimensions(cfg *Config, width, height float64) error {
	if width < 0 || height < 0 || math.IsNaN(width) || math.IsNaN(height) {
		return fmt.Errorf("chart dimensions must be positive (received %vx%v)", width, height)
	}
	if width > 0 {
		cfg.ChartWidth = width
	}
	if height > 0 {
		cfg.ChartHeight = height
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix == "" {
		return nil
	}
	if info, err := os.Stat(profilePrefix); err == nil && info.IsDir() {
		return fmt.Errorf("profile prefix %q is a directory", profilePrefix)
	}
	profile.Enabled = true
	profile.Prefix = profilePrefix
	return nil
}
