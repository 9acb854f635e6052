package schema

import "time"

// EnrichedFocusEntry adds presentation data to a FocusEntry.
type EnrichedFocusEntry struct {
	Rank  int     `json:"rank"`
	Share float64 `json:"share"`
	Label string  `json:"label"`
	FocusEntry
}

// GetPlainLabel returns a plain text label for a share of the total focus.
func GetPlainLabel(share float64) string {
	switch {
	case share >= 0.4:
		return "Dominant"
	case share >= 0.2:
		return "Major"
	case share >= 0.1:
		return "Moderate"
	default:
		return "Minor"
	}
}

// GetHeatLabel returns a plain text label for a heatmap level.
func GetHeatLabel(level int) string {
	switch {
	case level >= MaxHeatLevel:
		return "Peak"
	case level == 3:
		return "High"
	case level == 2:
		return "Moderate"
	case level == 1:
		return "Low"
	default:
		return "None"
	}
}

// EnrichEntries adds rank, share and label to a ranked list of focus entries.
func EnrichEntries(entries []FocusEntry, total int) []EnrichedFocusEntry {
	output := make([]EnrichedFocusEntry, len(entries))
	for i, e := range entries {
		share := Share(e.FocusScore, total)
		output[i] = EnrichedFocusEntry{
			Rank:       i + 1,
			Share:      share,
			Label:      GetPlainLabel(share),
			FocusEntry: e,
		}
	}
	return output
}

// RunStats describes how a pass was produced, printed under text output.
type RunStats struct {
	Duration     time.Duration   `json:"-"`
	Facts        int             `json:"facts"`
	Skipped      int             `json:"skipped"`
	CacheHit     bool            `json:"cacheHit"`
	CacheBackend DatabaseBackend `json:"-"`
}
