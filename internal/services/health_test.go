package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memwatch/internal/models"
)

func statsWith(peak, mean, heapMean, heapStdDev float64, outliers int) models.SnapshotStatistics {
	summary := models.StatsSummary{Mean: heapMean, StdDev: heapStdDev, Outliers: []models.Outlier{}}
	for i := 0; i < outliers; i++ {
		summary.Outliers = append(summary.Outliers, models.Outlier{Value: heapMean * 3})
	}
	return models.SnapshotStatistics{
		HeapUsed:        summary,
		UsagePercentage: models.StatsSummary{Max: peak, Mean: mean},
	}
}

func TestAssessMemoryHealth_PeakUsageOnly(t *testing.T) {
	// Peak 95%, no leak, cv 0.05, no outliers: only the -30 deduction fires.
	stats := statsWith(95, 60, 100, 5, 0)
	leak := models.LeakPatternReport{Pattern: models.PatternNone}

	health := AssessMemoryHealth(nil, stats, leak)

	assert.Equal(t, 70.0, health.Score)
	assert.Equal(t, models.GradeC, health.Grade)
}

func TestAssessMemoryHealth_PerfectScore(t *testing.T) {
	stats := statsWith(40, 30, 100, 5, 0)
	leak := models.LeakPatternReport{Pattern: models.PatternNone}

	health := AssessMemoryHealth(nil, stats, leak)

	assert.Equal(t, 100.0, health.Score)
	assert.Equal(t, models.GradeA, health.Grade)
	require.Len(t, health.Recommendations, 1)
	assert.Contains(t, health.Recommendations[0], "healthy")
}

func TestAssessMemoryHealth_DeductionOrder(t *testing.T) {
	tests := []struct {
		name     string
		stats    models.SnapshotStatistics
		leak     models.LeakPatternReport
		expected float64
	}{
		{
			name:     "moderate peak",
			stats:    statsWith(75, 60, 100, 5, 0),
			leak:     models.LeakPatternReport{},
			expected: 85, // -15
		},
		{
			name:     "leak confidence scales at 0.3",
			stats:    statsWith(40, 30, 100, 5, 0),
			leak:     models.LeakPatternReport{Confidence: 50},
			expected: 85, // -15
		},
		{
			name:     "high variability",
			stats:    statsWith(40, 30, 100, 60, 0),
			leak:     models.LeakPatternReport{},
			expected: 80, // cv 0.6 > 0.5 => -20
		},
		{
			name:     "moderate variability",
			stats:    statsWith(40, 30, 100, 40, 0),
			leak:     models.LeakPatternReport{},
			expected: 90, // cv 0.4 > 0.3 => -10
		},
		{
			name:     "outliers capped at 20",
			stats:    statsWith(40, 30, 100, 5, 6),
			leak:     models.LeakPatternReport{},
			expected: 80, // min(20, 6*5) = 20
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			health := AssessMemoryHealth(nil, tc.stats, tc.leak)
			assert.Equal(t, tc.expected, health.Score)
		})
	}
}

func TestAssessMemoryHealth_ZeroMeanHasZeroCV(t *testing.T) {
	stats := statsWith(40, 30, 0, 0, 0)
	health := AssessMemoryHealth(nil, stats, models.LeakPatternReport{})

	assert.Equal(t, 100.0, health.Score)
}

func TestAssessMemoryHealth_TrendDominance(t *testing.T) {
	snapshots := buildSnapshots(t, []uint64{100, 100, 100, 100, 100})
	for i := 0; i < 3; i++ {
		snapshots[i].AnalysisContext = &models.AnalysisContext{Trend: models.TrendIncreasing}
	}

	stats := statsWith(40, 30, 100, 5, 0)
	health := AssessMemoryHealth(snapshots, stats, models.LeakPatternReport{})

	assert.Equal(t, 90.0, health.Score, "3 of 5 snapshots increasing deducts 10")
}

func TestAssessMemoryHealth_ScoreClampedAtZero(t *testing.T) {
	stats := statsWith(95, 90, 100, 80, 5)
	leak := models.LeakPatternReport{Detected: true, Pattern: models.PatternGradual, Confidence: 100}

	health := AssessMemoryHealth(nil, stats, leak)

	assert.GreaterOrEqual(t, health.Score, 0.0)
	assert.Equal(t, models.GradeF, health.Grade)
}

func TestAssessMemoryHealth_GradeThresholds(t *testing.T) {
	tests := []struct {
		score float64
		grade models.HealthGrade
	}{
		{95, models.GradeA},
		{90, models.GradeA},
		{85, models.GradeB},
		{80, models.GradeB},
		{70, models.GradeC},
		{65, models.GradeD},
		{60, models.GradeD},
		{59, models.GradeF},
		{0, models.GradeF},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.grade, gradeForScore(tc.score), "score %.0f", tc.score)
	}
}

func TestAssessMemoryHealth_SummaryMentionsLeakForLowGrades(t *testing.T) {
	stats := statsWith(95, 60, 100, 5, 0)
	leak := models.LeakPatternReport{Pattern: models.PatternGradual, Confidence: 20}

	health := AssessMemoryHealth(nil, stats, leak)

	require.Equal(t, models.GradeD, health.Grade) // 100 - 30 - 6
	assert.Contains(t, health.Summary, "gradual")
}

func TestAssessMemoryHealth_RecommendationOrder(t *testing.T) {
	dom := models.StatsSummary{Max: 20000}
	listeners := models.StatsSummary{Max: 900}
	stats := statsWith(95, 80, 100, 60, 2)
	stats.DOMNodes = &dom
	stats.EventListeners = &listeners

	leak := models.LeakPatternReport{
		Detected:   true,
		Pattern:    models.PatternGradual,
		Confidence: 80,
		GrowthRate: 5000,
	}

	health := AssessMemoryHealth(nil, stats, leak)

	require.Len(t, health.Recommendations, 7)
	assert.Contains(t, health.Recommendations[0], "Critical")
	assert.Contains(t, health.Recommendations[1], "leak pattern")
	assert.Contains(t, health.Recommendations[2], "bytes/sec")
	assert.Contains(t, health.Recommendations[3], "standard deviations")
	assert.Contains(t, health.Recommendations[4], "variability")
	assert.Contains(t, health.Recommendations[5], "DOM node")
	assert.Contains(t, health.Recommendations[6], "listener")
}

func TestAssessMemoryHealth_HighUsageRecommendation(t *testing.T) {
	stats := statsWith(80, 60, 100, 5, 0)
	health := AssessMemoryHealth(nil, stats, models.LeakPatternReport{})

	require.NotEmpty(t, health.Recommendations)
	assert.False(t, strings.Contains(health.Recommendations[0], "Critical"))
	assert.Contains(t, health.Recommendations[0], "monitor for further growth")
}
