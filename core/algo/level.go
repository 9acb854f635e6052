package algo

import "github.com/huangsam/snapcal/schema"

// Level quantizes value into 0..MaxHeatLevel relative to max.
// Zero values are level 0; any positive value is at least level 1.
func Level(value, maxValue int) int {
	if value <= 0 || maxValue <= 0 {
		return 0
	}
	// Integer ceil(value / maxValue * MaxHeatLevel).
	level := (value*schema.MaxHeatLevel + maxValue - 1) / maxValue
	return min(max(level, 1), schema.MaxHeatLevel)
}

// Levels quantizes every value against the largest value in the slice.
func Levels(values []int) []int {
	maxValue := 0
	for _, v := range values {
		maxValue = max(maxValue, v)
	}
	levels := make([]int, len(values))
	for i, v := range values {
		levels[i] = Level(v, maxValue)
	}
	return levels
}
