package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"memwatch/internal/models"
)

const mb = 1024 * 1024

func mbSeries(t *testing.T, megabytes ...uint64) []models.Snapshot {
	t.Helper()
	values := make([]uint64, len(megabytes))
	for i, v := range megabytes {
		values[i] = v * mb
	}
	return buildSnapshots(t, values)
}

func TestIdentifyLeakPatterns_BelowMinimumSamples(t *testing.T) {
	report := IdentifyLeakPatterns(mbSeries(t, 10, 20, 30, 40))

	assert.False(t, report.Detected)
	assert.Equal(t, models.PatternNone, report.Pattern)
	assert.Zero(t, report.Confidence)
	assert.Zero(t, report.GrowthRate)
	assert.Empty(t, report.SuspectedCauses)
	assert.Empty(t, report.InvestigationGuidance)
}

func TestIdentifyLeakPatterns_Sudden(t *testing.T) {
	// 10 -> 60 MB is a 500% single-step jump.
	report := IdentifyLeakPatterns(mbSeries(t, 10, 10, 10, 60, 60))

	assert.Equal(t, models.PatternSudden, report.Pattern)
	assert.Equal(t, 60.0, report.Confidence)
	assert.True(t, report.Detected)
	assert.NotEmpty(t, report.SuspectedCauses)
	assert.NotEmpty(t, report.InvestigationGuidance)
}

func TestIdentifyLeakPatterns_Gradual(t *testing.T) {
	// 10% steps stay under the sudden threshold; monotonic growth at
	// ~10 MB/s far exceeds the 1000 B/s slope cutoff.
	report := IdentifyLeakPatterns(mbSeries(t, 100, 110, 120, 130, 140))

	assert.Equal(t, models.PatternGradual, report.Pattern)
	assert.Greater(t, report.GrowthRate, 1000.0)
	assert.InDelta(t, float64(10*mb), report.GrowthRate, float64(mb)/10)
	assert.Equal(t, 80.0, report.Confidence, "heuristic confidence caps at 80")
	assert.True(t, report.Detected)
}

func TestIdentifyLeakPatterns_Intermittent(t *testing.T) {
	// Oscillating 20% steps: two increases, two decreases out of four.
	report := IdentifyLeakPatterns(mbSeries(t, 50, 60, 50, 60, 50))

	assert.Equal(t, models.PatternIntermittent, report.Pattern)
	assert.Equal(t, 40.0, report.Confidence)
	assert.True(t, report.Detected)
}

func TestIdentifyLeakPatterns_SuddenTakesPrecedence(t *testing.T) {
	// Oscillating series with one >30% jump classifies as sudden.
	report := IdentifyLeakPatterns(mbSeries(t, 50, 80, 50, 80, 50))

	assert.Equal(t, models.PatternSudden, report.Pattern)
}

func TestIdentifyLeakPatterns_ConstantSeriesIsNone(t *testing.T) {
	report := IdentifyLeakPatterns(mbSeries(t, 50, 50, 50, 50, 50))

	assert.Equal(t, models.PatternNone, report.Pattern)
	assert.False(t, report.Detected)
	assert.Zero(t, report.Confidence)
	assert.Zero(t, report.GrowthRate)
}

func TestIdentifyLeakPatterns_ConfidenceFromAnalysisContext(t *testing.T) {
	snapshots := mbSeries(t, 100, 110, 120, 130, 140)
	snapshots[0].AnalysisContext = &models.AnalysisContext{LeakProbability: 90}
	snapshots[2].AnalysisContext = &models.AnalysisContext{LeakProbability: 50}

	report := IdentifyLeakPatterns(snapshots)

	// Mean of observed probabilities overrides the pattern heuristic.
	assert.Equal(t, 70.0, report.Confidence)
	assert.True(t, report.Detected)
}

func TestIdentifyLeakPatterns_LowContextConfidenceSuppressesDetection(t *testing.T) {
	snapshots := mbSeries(t, 100, 110, 120, 130, 140)
	for i := range snapshots {
		snapshots[i].AnalysisContext = &models.AnalysisContext{LeakProbability: 10}
	}

	report := IdentifyLeakPatterns(snapshots)

	assert.Equal(t, models.PatternGradual, report.Pattern)
	assert.Equal(t, 10.0, report.Confidence)
	assert.False(t, report.Detected, "pattern without confidence above 30 is not detected")
}

func TestIdentifyLeakPatterns_UnsortedInput(t *testing.T) {
	snapshots := mbSeries(t, 100, 110, 120, 130, 140)
	snapshots[0], snapshots[4] = snapshots[4], snapshots[0]

	report := IdentifyLeakPatterns(snapshots)

	assert.Equal(t, models.PatternGradual, report.Pattern)
	assert.Greater(t, report.GrowthRate, 0.0)
}

func TestIdentifyLeakPatterns_ZeroValuesDoNotPanic(t *testing.T) {
	report := IdentifyLeakPatterns(buildSnapshots(t, []uint64{0, 0, 0, 5 * mb, 5 * mb}))

	assert.NotEqual(t, models.PatternSudden, report.Pattern, "jump from zero has no defined ratio")
	assert.Equal(t, models.PatternGradual, report.Pattern, "growth is still visible to the regression")
}

func TestIdentifyLeakPatterns_GuidanceSharesCommonItems(t *testing.T) {
	sudden := IdentifyLeakPatterns(mbSeries(t, 10, 10, 10, 60, 60))
	gradual := IdentifyLeakPatterns(mbSeries(t, 100, 110, 120, 130, 140))

	for _, item := range commonGuidance {
		assert.Contains(t, sudden.InvestigationGuidance, item)
		assert.Contains(t, gradual.InvestigationGuidance, item)
	}
	assert.NotEqual(t, sudden.InvestigationGuidance, gradual.InvestigationGuidance,
		"pattern-specific items are appended after the common set")
}
