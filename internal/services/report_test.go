package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memwatch/internal/models"
)

func TestGenerateMemoryReport_InsufficientData(t *testing.T) {
	snapshots := mbSeries(t, 10, 20, 30, 40)

	_, err := GenerateMemoryReport(snapshots, ReportConfig{MinSnapshots: 5})
	require.Error(t, err)

	var insufficient *InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 5, insufficient.Required)
	assert.Equal(t, 4, insufficient.Actual)
	assert.Contains(t, err.Error(), "need 5, have 4")
}

func TestGenerateMemoryReport_ExactlyMinimumSucceeds(t *testing.T) {
	snapshots := mbSeries(t, 10, 11, 12, 13, 14)

	report, err := GenerateMemoryReport(snapshots, ReportConfig{MinSnapshots: 5, AppName: "demo"})
	require.NoError(t, err)

	assert.Equal(t, "demo", report.AppName)
	assert.Equal(t, 5, report.SnapshotCount)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestGenerateMemoryReport_DefaultMinimum(t *testing.T) {
	_, err := GenerateMemoryReport(mbSeries(t, 10, 20, 30, 40), ReportConfig{})

	var insufficient *InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 5, insufficient.Required)
}

func TestGenerateMemoryReport_SortsUnsortedInput(t *testing.T) {
	snapshots := mbSeries(t, 100, 110, 120, 130, 140)
	// Shuffle: reverse order.
	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}

	report, err := GenerateMemoryReport(snapshots, ReportConfig{MinSnapshots: 5})
	require.NoError(t, err)

	assert.Equal(t, models.PatternGradual, report.LeakAnalysis.Pattern)
	assert.True(t, report.TimeRange.Start.Before(report.TimeRange.End))
	assert.Equal(t, int64(4000), report.TimeRange.DurationMS)
}

func TestGenerateMemoryReport_CountsTrendAndSeverity(t *testing.T) {
	snapshots := mbSeries(t, 10, 11, 12, 13, 14)
	snapshots[0].AnalysisContext = &models.AnalysisContext{Trend: models.TrendIncreasing, Severity: models.SeverityWarning}
	snapshots[1].AnalysisContext = &models.AnalysisContext{Trend: models.TrendIncreasing, Severity: models.SeverityNormal}
	snapshots[2].AnalysisContext = &models.AnalysisContext{Trend: models.TrendStable, Severity: models.SeverityNormal}

	report, err := GenerateMemoryReport(snapshots, ReportConfig{MinSnapshots: 5})
	require.NoError(t, err)

	assert.Equal(t, 2, report.TrendCounts[models.TrendIncreasing])
	assert.Equal(t, 1, report.TrendCounts[models.TrendStable])
	assert.Equal(t, 2, report.SeverityCounts[models.SeverityNormal])
	assert.Equal(t, 1, report.SeverityCounts[models.SeverityWarning])
}

func TestGenerateMemoryReport_StabilityScore(t *testing.T) {
	// Constant series: cv = 0, stability = 100.
	report, err := GenerateMemoryReport(mbSeries(t, 50, 50, 50, 50, 50), ReportConfig{MinSnapshots: 5})
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.StabilityScore)

	// Highly variable series scores lower, floored at 0.
	volatile, err := GenerateMemoryReport(mbSeries(t, 1, 500, 2, 600, 3), ReportConfig{MinSnapshots: 5})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, volatile.StabilityScore, 0.0)
	assert.Less(t, volatile.StabilityScore, 100.0)
}

func TestRenderMarkdown_ContainsKeySections(t *testing.T) {
	snapshots := mbSeries(t, 100, 110, 120, 130, 140)
	report, err := GenerateMemoryReport(snapshots, ReportConfig{MinSnapshots: 5, AppName: "demo"})
	require.NoError(t, err)

	md := RenderMarkdown(report)

	assert.Contains(t, md, "# demo Memory Diagnostic Report")
	assert.Contains(t, md, "## Health")
	assert.Contains(t, md, string(report.Health.Grade))
	assert.Contains(t, md, "## Leak Analysis")
	assert.Contains(t, md, "gradual")
	for _, rec := range report.Health.Recommendations {
		assert.Contains(t, md, rec)
	}
}

func TestDefaultReportFilename(t *testing.T) {
	ts := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "memory-report-2026-03-15.md", DefaultReportFilename(ts))
}
