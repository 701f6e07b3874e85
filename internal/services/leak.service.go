package services

import (
	"math"
	"sort"

	"memwatch/internal/models"
)

// LeakDetectionConfig holds the classification thresholds. The
// intermittent step ratio and gradual slope cutoff are empirically
// chosen constants carried over from long-running production tuning;
// do not re-derive them.
type LeakDetectionConfig struct {
	MinSamples             int     // minimum snapshots to attempt detection
	SuddenJumpRatio        float64 // single-step growth ratio flagged as sudden
	IntermittentStepRatio  float64 // min(inc,dec)/(n-1) ratio flagged as intermittent
	IntermittentMinSamples int     // minimum samples for the oscillation test
	GradualSlopeBytesSec   float64 // normalized OLS slope flagged as gradual
	DetectionConfidence    float64 // confidence floor for detected=true
}

// DefaultLeakDetectionConfig returns the preserved production thresholds.
func DefaultLeakDetectionConfig() LeakDetectionConfig {
	return LeakDetectionConfig{
		MinSamples:             5,
		SuddenJumpRatio:        0.30,
		IntermittentStepRatio:  0.30,
		IntermittentMinSamples: 4,
		GradualSlopeBytesSec:   1000,
		DetectionConfidence:    30,
	}
}

// IdentifyLeakPatterns classifies the leak pattern of a snapshot
// sequence using the default thresholds.
func IdentifyLeakPatterns(snapshots []models.Snapshot) models.LeakPatternReport {
	return IdentifyLeakPatternsWith(snapshots, DefaultLeakDetectionConfig())
}

// IdentifyLeakPatternsWith classifies the heapUsed series of a snapshot
// sequence. Precedence: sudden, then intermittent, then gradual; first
// match wins. Growth rate is the time-normalized OLS slope regardless
// of the matched pattern.
func IdentifyLeakPatternsWith(snapshots []models.Snapshot, cfg LeakDetectionConfig) models.LeakPatternReport {
	report := models.LeakPatternReport{
		Pattern:               models.PatternNone,
		SuspectedCauses:       []string{},
		InvestigationGuidance: []string{},
	}
	if len(snapshots) < cfg.MinSamples {
		return report
	}

	ordered := make([]models.Snapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	values := make([]float64, len(ordered))
	for i := range ordered {
		values[i] = float64(ordered[i].HeapUsed)
	}

	growthRate := normalizedSlope(values, ordered)
	report.GrowthRate = growthRate
	report.Pattern = classifyPattern(values, growthRate, cfg)
	report.Confidence = leakConfidence(ordered, report.Pattern, growthRate)
	report.Detected = report.Pattern != models.PatternNone && report.Confidence > cfg.DetectionConfidence
	report.SuspectedCauses = suspectedCauses(report.Pattern)
	report.InvestigationGuidance = investigationGuidance(report.Pattern)

	if report.Pattern == models.PatternNone {
		report.GrowthRate = 0
	}
	return report
}

func classifyPattern(values []float64, growthRate float64, cfg LeakDetectionConfig) models.LeakPattern {
	// Sudden: any single step growing by more than the jump ratio.
	// Zero predecessors are skipped so garbage input cannot divide by zero.
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev <= 0 {
			continue
		}
		if (values[i]-prev)/prev > cfg.SuddenJumpRatio {
			return models.PatternSudden
		}
	}

	// Intermittent: the series oscillates, with a meaningful share of
	// steps in each direction.
	if len(values) >= cfg.IntermittentMinSamples {
		increasing, decreasing := 0, 0
		for i := 1; i < len(values); i++ {
			switch {
			case values[i] > values[i-1]:
				increasing++
			case values[i] < values[i-1]:
				decreasing++
			}
		}
		steps := float64(len(values) - 1)
		if float64(min(increasing, decreasing))/steps > cfg.IntermittentStepRatio {
			return models.PatternIntermittent
		}
	}

	if growthRate > cfg.GradualSlopeBytesSec {
		return models.PatternGradual
	}

	return models.PatternNone
}

// normalizedSlope computes the ordinary-least-squares slope of the
// heapUsed series against sample index, normalized to bytes/second
// using total elapsed wall-clock time. 0 when the slope is undefined.
func normalizedSlope(values []float64, ordered []models.Snapshot) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	sumX, sumY, sumXY, sumXX := 0.0, 0.0, 0.0, 0.0
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := float64(n)*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	slopePerStep := (float64(n)*sumXY - sumX*sumY) / denom

	elapsed := ordered[n-1].Timestamp.Sub(ordered[0].Timestamp).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return slopePerStep * float64(n-1) / elapsed
}

// leakConfidence averages leak probabilities observed by the live
// monitor at capture time when available; otherwise it falls back to a
// pattern-based heuristic.
func leakConfidence(snapshots []models.Snapshot, pattern models.LeakPattern, growthRate float64) float64 {
	sum, count := 0.0, 0
	for i := range snapshots {
		if ctx := snapshots[i].AnalysisContext; ctx != nil {
			sum += ctx.LeakProbability
			count++
		}
	}
	if count > 0 {
		return sum / float64(count)
	}

	switch pattern {
	case models.PatternGradual:
		return math.Min(80, math.Abs(growthRate)/100)
	case models.PatternSudden:
		return 60
	case models.PatternIntermittent:
		return 40
	case models.PatternNone:
		return 0
	}
	return 0
}

var commonGuidance = []string{
	"Capture additional snapshots during typical workload to confirm the trend",
	"Compare the oldest and newest snapshots to identify which metric is growing",
	"Correlate growth spikes with application activity logs",
}

func suspectedCauses(pattern models.LeakPattern) []string {
	switch pattern {
	case models.PatternGradual:
		return []string{
			"Unbounded caches or collections accumulating entries",
			"Listeners or subscriptions registered without matching teardown",
			"Detached references retained by long-lived closures",
		}
	case models.PatternSudden:
		return []string{
			"Large allocation triggered by a single operation or payload",
			"Bulk data loaded into memory without streaming",
			"Resource duplication during a state transition",
		}
	case models.PatternIntermittent:
		return []string{
			"Periodic jobs allocating large temporary buffers",
			"Burst traffic creating short-lived allocation spikes",
			"Collector pressure oscillating under fluctuating load",
		}
	case models.PatternNone:
		return []string{}
	}
	return []string{}
}

func investigationGuidance(pattern models.LeakPattern) []string {
	if pattern == models.PatternNone {
		return []string{}
	}

	guidance := make([]string, 0, len(commonGuidance)+2)
	guidance = append(guidance, commonGuidance...)

	switch pattern {
	case models.PatternGradual:
		guidance = append(guidance,
			"Inspect cache and registry sizes over time for unbounded growth",
			"Audit subscription lifecycles for missing teardown paths")
	case models.PatternSudden:
		guidance = append(guidance,
			"Identify the operation active at the jump timestamp",
			"Check recent payload sizes and batch operations around the spike")
	case models.PatternIntermittent:
		guidance = append(guidance,
			"Align spike timestamps with scheduled or periodic work",
			"Profile allocation hot paths during a spike window")
	}
	return guidance
}
