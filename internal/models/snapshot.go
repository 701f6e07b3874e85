package models

import "time"

// TrendDirection classifies the short-term movement of heap usage as
// observed by the live monitor.
type TrendDirection string

const (
	TrendStable     TrendDirection = "stable"
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
)

// Severity is the live monitor's classification of current memory pressure.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// MemoryReading is a single raw measurement from the live monitor.
// DOMNodes and EventListeners are optional gauges the embedding
// application may register; nil means the host cannot measure them.
type MemoryReading struct {
	Timestamp      time.Time `json:"timestamp"`
	HeapUsed       uint64    `json:"heap_used"`
	HeapTotal      uint64    `json:"heap_total"`
	HeapLimit      uint64    `json:"heap_limit"`
	DOMNodes       *uint64   `json:"dom_nodes,omitempty"`
	EventListeners *uint64   `json:"event_listeners,omitempty"`
}

// AnalysisContext is a frozen copy of the live monitor's derived state
// at capture time. It is consumed verbatim; the engine never recomputes it.
type AnalysisContext struct {
	Trend           TrendDirection `json:"trend"`
	LeakProbability float64        `json:"leak_probability"`
	Severity        Severity       `json:"severity"`
	UsagePercentage float64        `json:"usage_percentage"`
}

// Snapshot is an immutable record of memory state at one instant.
type Snapshot struct {
	ID             string    `json:"id"`
	Label          string    `json:"label"`
	Timestamp      time.Time `json:"timestamp"`
	HeapUsed       uint64    `json:"heap_used"`
	HeapTotal      uint64    `json:"heap_total"`
	HeapLimit      uint64    `json:"heap_limit"`
	DOMNodes       *uint64   `json:"dom_nodes,omitempty"`
	EventListeners *uint64   `json:"event_listeners,omitempty"`
	IsAuto         bool      `json:"is_auto"`

	AnalysisContext *AnalysisContext `json:"analysis_context,omitempty"`
}

// UsagePercentage returns heapUsed as a percentage of heapLimit,
// 0 when the limit is unknown.
func (s *Snapshot) UsagePercentage() float64 {
	if s.HeapLimit == 0 {
		return 0
	}
	return float64(s.HeapUsed) / float64(s.HeapLimit) * 100
}
