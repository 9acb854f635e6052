package outwriter

import (
	"os"

	"github.com/huangsam/snapcal/internal/contract"
	"golang.org/x/term"
)

// Bounds of the name column in text output.
const (
	minNameWidth = 12
	maxNameWidth = 48
)

// getTerminalWidth returns the --width override, the detected terminal width, or 80.
func getTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxTableNameWidth calculates how wide names may be in a table with the given fixed columns.
func getMaxTableNameWidth(cfg *contract.Config, fixedWidth int) int {
	// Reserve space for table borders, separators, and padding
	available := getTerminalWidth(cfg) - fixedWidth - 20
	return min(max(available, minNameWidth), maxNameWidth)
}
