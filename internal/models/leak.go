package models

// LeakPattern is the qualitative shape of memory growth over a
// snapshot sequence.
type LeakPattern string

const (
	PatternNone         LeakPattern = "none"
	PatternGradual      LeakPattern = "gradual"
	PatternSudden       LeakPattern = "sudden"
	PatternIntermittent LeakPattern = "intermittent"
)

// LeakPatternReport is the classifier's verdict over a snapshot set.
type LeakPatternReport struct {
	Detected              bool        `json:"detected"`
	Confidence            float64     `json:"confidence"` // 0-100
	Pattern               LeakPattern `json:"pattern"`
	GrowthRate            float64     `json:"growth_rate"` // bytes/sec
	SuspectedCauses       []string    `json:"suspected_causes"`
	InvestigationGuidance []string    `json:"investigation_guidance"`
}
