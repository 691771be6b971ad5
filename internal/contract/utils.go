package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	LeaderColor = color.New(color.FgGreen, color.Bold) // LeaderColor marks the best variation at a date.
	MutedColor  = color.New(color.FgHiBlack)           // MutedColor marks secondary information.
	HeaderColor = color.New(color.FgCyan, color.Bold)  // HeaderColor marks section titles.
)

// ParseHexColor parses "#rrggbb" into its components.
func ParseHexColor(hex string) (r, g, b int, err error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), nil
}

// GetVariationSwatch returns a colored block for a variation color, or a plain one when unusable.
func GetVariationSwatch(hex string, useColors bool) string {
	const block = "■"
	if !useColors {
		return block
	}
	r, g, b, err := ParseHexColor(hex)
	if err != nil {
		return block
	}
	return color.RGB(r, g, b).Sprint(block)
}

// GetLeaderLabel returns the marker printed next to the best variation.
func GetLeaderLabel(useColors bool) string {
	const text = "best"
	if !useColors {
		return text
	}
	return LeaderColor.Sprint(text)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ratechart_cache.db"
	}
	return filepath.Join(homeDir, ".ratechart_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ratechart_history.db"
	}
	return filepath.Join(homeDir, ".ratechart_history.db")
}

// TruncateName shortens a display name to maxWidth runes with an ellipsis suffix.
// Requires maxWidth > 3 so that at least one character survives.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// SplitList splits a comma-separated list, trimming blanks and dropping duplicates.
func SplitList(s string) []string {
	var out []string
	seen := make(map[string]struct{})
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}
