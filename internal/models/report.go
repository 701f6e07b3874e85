package models

import "time"

// ReportTimeRange describes the wall-clock span covered by a report.
type ReportTimeRange struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	DurationMS int64     `json:"duration_ms"`
}

// MemoryReport is the structured diagnostic document assembled by the
// report compiler. It is recomputed on demand and never persisted.
type MemoryReport struct {
	AppName        string                 `json:"app_name"`
	GeneratedAt    time.Time              `json:"generated_at"`
	SnapshotCount  int                    `json:"snapshot_count"`
	TimeRange      ReportTimeRange        `json:"time_range"`
	Statistics     SnapshotStatistics     `json:"statistics"`
	LeakAnalysis   LeakPatternReport      `json:"leak_analysis"`
	Health         HealthAssessment       `json:"health"`
	TrendCounts    map[TrendDirection]int `json:"trend_counts"`
	SeverityCounts map[Severity]int       `json:"severity_counts"`
	StabilityScore float64                `json:"stability_score"` // max(0, 100 - 2*cv%)
}
