package schema

import "time"

// Heatmap scopes persisted by the history store.
const (
	TeamScope   = "team"
	MemberScope = "member"
)

// ReportRunRecord represents a row from the snapcal_report_runs table.
type ReportRunRecord struct {
	RunID          int64
	RunUUID        string
	StartTime      time.Time
	EndTime        *time.Time
	RunDurationMs  *int32
	TotalFacts     int32
	SkippedRecords int32
	ConfigParams   *string
}

// HeatmapCellRecord represents a row from the snapcal_heatmap_cells table.
type HeatmapCellRecord struct {
	RunID     int64
	Scope     string
	Member    string
	WeekKey   string
	WeekStart time.Time
	Value     int32
	Level     int32
}

// RunParams is the configuration snapshot stored alongside a run.
type RunParams struct {
	Source  string    `json:"source"`
	Mode    Dimension `json:"mode"`
	Month   string    `json:"month"`
	Now     time.Time `json:"now"`
	Members []string  `json:"members,omitempty"`
	Domain  string    `json:"domain,omitempty"`
}
