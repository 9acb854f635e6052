package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/snapcal/schema"
)

// Share label constants.
const (
	DominantValue = "Dominant" // Dominant share
	MajorValue    = "Major"    // Major share
	ModerateValue = "Moderate" // Moderate share
	MinorValue    = "Minor"    // Minor share
)

// Color variables for console output.
var (
	DominantColor = color.New(color.FgGreen, color.Bold) // dominantColor marks where most of the focus went.
	MajorColor    = color.New(color.FgCyan, color.Bold)  // majorColor marks a strong, distinct share.
	ModerateColor = color.New(color.FgYellow)            // moderateColor marks a standard share, not bold.
	MinorColor    = color.New(color.FgHiBlack)           // minorColor marks a low-priority signal.
)

// heatColors maps heatmap levels 0..4 to their console colors.
var heatColors = [schema.MaxHeatLevel + 1]*color.Color{
	color.New(color.FgHiBlack),
	color.New(color.FgGreen),
	color.New(color.FgHiGreen),
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgRed, color.Bold),
}

// heatGlyphs maps heatmap levels 0..4 to the characters drawn in text output.
var heatGlyphs = [schema.MaxHeatLevel + 1]string{"·", "░", "▒", "▓", "█"}

// GetColorLabel returns a colored share label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(share float64) string {
	text := schema.GetPlainLabel(share)

	switch text {
	case DominantValue:
		return DominantColor.Sprint(text)
	case MajorValue:
		return MajorColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Minor"
		return MinorColor.Sprint(text)
	}
}

// clampLevel keeps a level inside the glyph and color tables.
func clampLevel(level int) int {
	return min(max(level, 0), schema.MaxHeatLevel)
}

// HeatGlyph returns the plain character used to draw a heatmap level.
func HeatGlyph(level int) string {
	return heatGlyphs[clampLevel(level)]
}

// GetColorHeatGlyph returns the heatmap character for a level, colored for console output.
func GetColorHeatGlyph(level int) string {
	level = clampLevel(level)
	return heatColors[level].Sprint(heatGlyphs[level])
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

// LogInfo logs an informational message to stderr.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "Info "+format+"\n", args...)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".snapcal_cache.db"
	}
	return filepath.Join(homeDir, ".snapcal_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".snapcal_history.db"
	}
	return filepath.Join(homeDir, ".snapcal_history.db")
}

// TruncateName truncates a name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to ensure there's space for both the "..." suffix and at least one character of content.
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
