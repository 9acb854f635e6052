// Package schema has models, enums and constants for all parts of snapcal.
package schema

// SourceTask is a task entry as supplied by the upstream data source.
// Progress is kept loosely typed so malformed values can be detected and skipped.
type SourceTask struct {
	Title    string `json:"title" yaml:"title" jsonschema:"description=Task title"`
	Progress any    `json:"progress" yaml:"progress" jsonschema:"description=Completion percentage from 0 to 100,oneof_type=number;string"`
}

// SourceInitiative is one project/module/feature entry inside a weekly record.
type SourceInitiative struct {
	Domain  string       `json:"domain,omitempty" yaml:"domain,omitempty"`
	Project string       `json:"project" yaml:"project"`
	Module  string       `json:"module,omitempty" yaml:"module,omitempty"`
	Feature string       `json:"feature,omitempty" yaml:"feature,omitempty"`
	Tasks   []SourceTask `json:"tasks" yaml:"tasks"`
}

// SourceRecord is one member's weekly snapshot as supplied by the upstream data source.
// The week is identified either by Date (any day inside the week) or by Year and Week.
type SourceRecord struct {
	Member        string             `json:"member" yaml:"member" jsonschema:"description=Member name used as the grouping key"`
	Date          string             `json:"date,omitempty" yaml:"date,omitempty" jsonschema:"description=Any date inside the week (YYYY-MM-DD or RFC3339)"`
	Year          int                `json:"year,omitempty" yaml:"year,omitempty" jsonschema:"description=ISO week-numbering year"`
	Week          int                `json:"week,omitempty" yaml:"week,omitempty" jsonschema:"description=ISO week number"`
	Domain        string             `json:"domain,omitempty" yaml:"domain,omitempty"`
	Initiatives   []SourceInitiative `json:"initiatives" yaml:"initiatives"`
	Risk          string             `json:"risk,omitempty" yaml:"risk,omitempty"`
	Collaborators []string           `json:"collaborators,omitempty" yaml:"collaborators,omitempty"`
}

// Task is a normalized task with progress clamped into [0,100].
type Task struct {
	Title    string `json:"title"`
	Progress int    `json:"progress"`
}

// Done reports whether the task is complete.
func (t Task) Done() bool {
	return t.Progress >= MaxProgress
}

// RawSnapshot is one normalized fact: a member's tasks for one initiative in one ISO week.
type RawSnapshot struct {
	MemberName    string `json:"memberName"`
	Year          int    `json:"year"`
	WeekIndex     int    `json:"weekIndex"`
	Domain        string `json:"domain"`
	Project       string `json:"project"`
	Module        string `json:"module"`
	Feature       string `json:"feature"`
	PastWeekTasks []Task `json:"pastWeekTasks"`
}

// Key returns the ISO week key of the fact.
func (s RawSnapshot) Key() WeekKey {
	return WeekKey{Year: s.Year, WeekIndex: s.WeekIndex}
}

// DoneCount returns the number of done tasks in the fact.
func (s RawSnapshot) DoneCount() int {
	n := 0
	for _, t := range s.PastWeekTasks {
		if t.Done() {
			n++
		}
	}
	return n
}

// NormalizeReport counts what the normalizer kept and dropped.
type NormalizeReport struct {
	Records         int                `json:"records"`
	Facts           int                `json:"facts"`
	Skipped         int                `json:"skipped"`
	SkippedByReason map[SkipReason]int `json:"skippedByReason"`
}

// SourceBundle is the decoded content of one source file.
// Digest is a hash of the raw bytes and changes whenever the file does.
// Malformed counts records whose fields could not be decoded at all.
type SourceBundle struct {
	Path      string         `json:"path"`
	Format    string         `json:"format"`
	Digest    string         `json:"digest"`
	Records   []SourceRecord `json:"records"`
	Malformed int            `json:"malformed"`
}
