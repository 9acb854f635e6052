package algo

import "github.com/huangsam/snapcal/schema"

// FocusFunc turns the tasks of one fact into focus points.
// Implementations must grow with both task count and task completion.
type FocusFunc func(tasks []schema.Task) int

// taskBasePoints is what a task is worth before any progress is made.
const taskBasePoints = 100

// TaskPoints is the default FocusFunc. Each task earns taskBasePoints plus its
// progress, so an untouched task is worth 100 and a done task 200.
func TaskPoints(tasks []schema.Task) int {
	points := 0
	for _, t := range tasks {
		points += taskBasePoints + clampProgress(t.Progress)
	}
	return points
}

func clampProgress(p int) int {
	return min(max(p, schema.MinProgress), schema.MaxProgress)
}
