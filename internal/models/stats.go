package models

import "time"

// Outlier references a snapshot whose value deviates more than two
// standard deviations from the mean of its metric.
type Outlier struct {
	Label     string    `json:"label"`
	ID        string    `json:"id"`
	Value     float64   `json:"value"`
	Deviation float64   `json:"deviation"` // distance from mean, in sigmas
	Timestamp time.Time `json:"timestamp"`
}

// StatsSummary holds summary statistics for one metric across a snapshot set.
type StatsSummary struct {
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Mean     float64   `json:"mean"`
	Median   float64   `json:"median"`
	StdDev   float64   `json:"std_dev"`
	Outliers []Outlier `json:"outliers"`
}

// SnapshotStatistics aggregates per-metric summaries over a snapshot set.
// DOMNodes and EventListeners are omitted entirely when no snapshot
// carries the corresponding gauge.
type SnapshotStatistics struct {
	HeapUsed        StatsSummary  `json:"heap_used"`
	HeapTotal       StatsSummary  `json:"heap_total"`
	UsagePercentage StatsSummary  `json:"usage_percentage"`
	DOMNodes        *StatsSummary `json:"dom_nodes,omitempty"`
	EventListeners  *StatsSummary `json:"event_listeners,omitempty"`
}
