package schema

import "time"

// HeatmapCell is one week of a heatmap row.
type HeatmapCell struct {
	WeekKey WeekKey   `json:"weekKey"`
	Start   time.Time `json:"start"`
	Value   int       `json:"value"`
	Level   int       `json:"level"`
	Future  bool      `json:"future"`
}

// MemberHeatmap is one member's heatmap row, scaled against the member's own maximum.
type MemberHeatmap struct {
	Member string        `json:"member"`
	Max    int           `json:"max"`
	Cells  []HeatmapCell `json:"cells"`
}

// Report is the bundle produced by one full pipeline pass.
type Report struct {
	Now            time.Time         `json:"now"`
	Mode           Dimension         `json:"mode"`
	Month          MonthFilter       `json:"month"`
	Weeks          []WeekAggregation `json:"weeks"`
	Summary        RangeSummaries    `json:"summary"`
	TeamHeatmap    []HeatmapCell     `json:"teamHeatmap"`
	MemberHeatmaps []MemberHeatmap   `json:"memberHeatmaps"`
	Normalize      NormalizeReport   `json:"normalize"`
}
