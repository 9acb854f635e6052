package schema

import "time"

// FocusEntry is an entity's contribution within a scope (one week or a merged range).
type FocusEntry struct {
	Name          string `json:"name"`
	FocusScore    int    `json:"focusScore"`
	DoneTaskCount int    `json:"doneTaskCount"`
}

// WeekAggregation holds the per-initiative and per-member rankings for one ISO week.
type WeekAggregation struct {
	Key                  WeekKey      `json:"key"`
	Start                time.Time    `json:"start"`
	End                  time.Time    `json:"end"`
	Dimension            Dimension    `json:"dimension"`
	Initiatives          []FocusEntry `json:"initiatives"`
	Members              []FocusEntry `json:"members"`
	TotalInitiativeFocus int          `json:"totalInitiativeFocus"`
	TotalMemberFocus     int          `json:"totalMemberFocus"`
}

// RangeSummary is a leaderboard merged across every week included by a month filter.
type RangeSummary struct {
	Dimension  Dimension    `json:"dimension"`
	Entries    []FocusEntry `json:"entries"`
	TotalFocus int          `json:"totalFocus"`
	TotalDone  int          `json:"totalDone"`
}

// RangeSummaries bundles the four leaderboards produced for one month filter.
type RangeSummaries struct {
	Filter  MonthFilter  `json:"filter"`
	Weeks   []WeekKey    `json:"weeks"`
	Project RangeSummary `json:"project"`
	Module  RangeSummary `json:"module"`
	Feature RangeSummary `json:"feature"`
	Member  RangeSummary `json:"member"`
}

// ByDimension returns the leaderboard for a dimension.
func (r RangeSummaries) ByDimension(dim Dimension) RangeSummary {
	switch dim {
	case ModuleDimension:
		return r.Module
	case FeatureDimension:
		return r.Feature
	case MemberDimension:
		return r.Member
	default:
		return r.Project
	}
}

// Share returns the entry's fraction of total, used for relative bar widths.
func Share(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total)
}
