package agg

import (
	"time"

	"github.com/huangsam/snapcal/schema"
)

// fact builds a snapshot for project with done completed tasks and open tasks at 50%.
func fact(member string, year, week int, project string, done, open int) schema.RawSnapshot {
	tasks := make([]schema.Task, 0, done+open)
	for range done {
		tasks = append(tasks, schema.Task{Title: "done", Progress: 100})
	}
	for range open {
		tasks = append(tasks, schema.Task{Title: "open", Progress: 50})
	}
	return schema.RawSnapshot{
		MemberName:    member,
		Year:          year,
		WeekIndex:     week,
		Project:       project,
		PastWeekTasks: tasks,
	}
}

func withModuleFeature(s schema.RawSnapshot, module, feature string) schema.RawSnapshot {
	s.Module = module
	s.Feature = feature
	return s
}

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func names(entries []schema.FocusEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
