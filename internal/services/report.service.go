package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"memwatch/internal/models"
)

// InsufficientDataError reports a snapshot count below the report
// eligibility threshold.
type InsufficientDataError struct {
	Required int
	Actual   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient snapshots for report: need %d, have %d", e.Required, e.Actual)
}

// ReportConfig controls report eligibility and labelling.
type ReportConfig struct {
	MinSnapshots int
	AppName      string
}

// GenerateMemoryReport validates the snapshot set, runs the three
// analysis stages and assembles the structured diagnostic document.
// Callers may pass unsorted input; snapshots are ordered by timestamp
// before any analysis.
func GenerateMemoryReport(snapshots []models.Snapshot, cfg ReportConfig) (*models.MemoryReport, error) {
	minSnapshots := cfg.MinSnapshots
	if minSnapshots <= 0 {
		minSnapshots = 5
	}
	if len(snapshots) < minSnapshots {
		return nil, &InsufficientDataError{Required: minSnapshots, Actual: len(snapshots)}
	}

	ordered := make([]models.Snapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	stats := CalculateStatistics(ordered)
	leak := IdentifyLeakPatterns(ordered)
	health := AssessMemoryHealth(ordered, stats, leak)

	start := ordered[0].Timestamp
	end := ordered[len(ordered)-1].Timestamp

	trendCounts := map[models.TrendDirection]int{}
	severityCounts := map[models.Severity]int{}
	for i := range ordered {
		if ctx := ordered[i].AnalysisContext; ctx != nil {
			trendCounts[ctx.Trend]++
			severityCounts[ctx.Severity]++
		}
	}

	cvPercent := coefficientOfVariation(stats.HeapUsed) * 100
	stability := math.Max(0, 100-2*cvPercent)

	return &models.MemoryReport{
		AppName:       cfg.AppName,
		GeneratedAt:   time.Now(),
		SnapshotCount: len(ordered),
		TimeRange: models.ReportTimeRange{
			Start:      start,
			End:        end,
			DurationMS: end.Sub(start).Milliseconds(),
		},
		Statistics:     stats,
		LeakAnalysis:   leak,
		Health:         health,
		TrendCounts:    trendCounts,
		SeverityCounts: severityCounts,
		StabilityScore: stability,
	}, nil
}

// DefaultReportFilename returns the date-stamped name offered for the
// downloadable artifact.
func DefaultReportFilename(t time.Time) string {
	return fmt.Sprintf("memory-report-%s.md", t.Format("2006-01-02"))
}

// RenderMarkdown turns a report document into a flat markdown
// artifact. Rendering is stateless and separate from the analysis
// contract.
func RenderMarkdown(report *models.MemoryReport) string {
	var b strings.Builder

	title := "Memory Diagnostic Report"
	if report.AppName != "" {
		title = fmt.Sprintf("%s %s", report.AppName, title)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintf(&b, "## Overview\n\n")
	fmt.Fprintf(&b, "- Snapshots analyzed: %d\n", report.SnapshotCount)
	fmt.Fprintf(&b, "- Time range: %s to %s (%s)\n",
		report.TimeRange.Start.Format(time.RFC3339),
		report.TimeRange.End.Format(time.RFC3339),
		time.Duration(report.TimeRange.DurationMS)*time.Millisecond)
	fmt.Fprintf(&b, "- Stability score: %.1f\n\n", report.StabilityScore)

	fmt.Fprintf(&b, "## Health\n\n")
	fmt.Fprintf(&b, "- Score: %.1f / 100\n", report.Health.Score)
	fmt.Fprintf(&b, "- Grade: %s\n\n", report.Health.Grade)
	fmt.Fprintf(&b, "%s\n\n", report.Health.Summary)

	fmt.Fprintf(&b, "### Recommendations\n\n")
	for _, rec := range report.Health.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Leak Analysis\n\n")
	fmt.Fprintf(&b, "- Pattern: %s\n", report.LeakAnalysis.Pattern)
	fmt.Fprintf(&b, "- Detected: %t\n", report.LeakAnalysis.Detected)
	fmt.Fprintf(&b, "- Confidence: %.0f%%\n", report.LeakAnalysis.Confidence)
	fmt.Fprintf(&b, "- Growth rate: %.0f bytes/sec\n\n", report.LeakAnalysis.GrowthRate)

	if len(report.LeakAnalysis.SuspectedCauses) > 0 {
		fmt.Fprintf(&b, "### Suspected Causes\n\n")
		for _, cause := range report.LeakAnalysis.SuspectedCauses {
			fmt.Fprintf(&b, "- %s\n", cause)
		}
		b.WriteString("\n")
	}
	if len(report.LeakAnalysis.InvestigationGuidance) > 0 {
		fmt.Fprintf(&b, "### Investigation Guidance\n\n")
		for _, item := range report.LeakAnalysis.InvestigationGuidance {
			fmt.Fprintf(&b, "- %s\n", item)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Statistics\n\n")
	writeSummaryTable(&b, "Heap used (bytes)", report.Statistics.HeapUsed)
	writeSummaryTable(&b, "Heap total (bytes)", report.Statistics.HeapTotal)
	writeSummaryTable(&b, "Usage (%)", report.Statistics.UsagePercentage)
	if report.Statistics.DOMNodes != nil {
		writeSummaryTable(&b, "DOM nodes", *report.Statistics.DOMNodes)
	}
	if report.Statistics.EventListeners != nil {
		writeSummaryTable(&b, "Event listeners", *report.Statistics.EventListeners)
	}

	if len(report.TrendCounts) > 0 {
		fmt.Fprintf(&b, "## Observed Trends\n\n")
		for _, trend := range []models.TrendDirection{models.TrendIncreasing, models.TrendStable, models.TrendDecreasing} {
			if n := report.TrendCounts[trend]; n > 0 {
				fmt.Fprintf(&b, "- %s: %d\n", trend, n)
			}
		}
		b.WriteString("\n")
	}
	if len(report.SeverityCounts) > 0 {
		fmt.Fprintf(&b, "## Observed Severity\n\n")
		for _, sev := range []models.Severity{models.SeverityCritical, models.SeverityWarning, models.SeverityNormal} {
			if n := report.SeverityCounts[sev]; n > 0 {
				fmt.Fprintf(&b, "- %s: %d\n", sev, n)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeSummaryTable(b *strings.Builder, name string, s models.StatsSummary) {
	fmt.Fprintf(b, "### %s\n\n", name)
	fmt.Fprintf(b, "| Min | Max | Mean | Median | Std Dev | Outliers |\n")
	fmt.Fprintf(b, "|-----|-----|------|--------|---------|----------|\n")
	fmt.Fprintf(b, "| %.1f | %.1f | %.1f | %.1f | %.1f | %d |\n\n",
		s.Min, s.Max, s.Mean, s.Median, s.StdDev, len(s.Outliers))
}
