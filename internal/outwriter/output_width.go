package outwriter

import (
	"os"

	"github.com/huangsam/ratechart/internal/contract"
	"golang.org/x/term"
)

// getMaxNameWidth calculates the maximum width for variation names in table output
// based on terminal width and the fixed numeric columns.
func getMaxNameWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Period + Visits + Conversions + Rate + Leader with borders and padding
	baseWidth := 70

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}
