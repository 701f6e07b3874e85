package services

import (
	"fmt"
	"math"

	"memwatch/internal/models"
)

// AssessMemoryHealth combines statistics and leak analysis into a
// single 0-100 score, letter grade, summary and ranked recommendations.
func AssessMemoryHealth(snapshots []models.Snapshot, stats models.SnapshotStatistics, leak models.LeakPatternReport) models.HealthAssessment {
	score := 100.0

	peak := stats.UsagePercentage.Max
	switch {
	case peak > 90:
		score -= 30
	case peak > 70:
		score -= 15
	}

	score -= leak.Confidence * 0.3

	cv := coefficientOfVariation(stats.HeapUsed)
	switch {
	case cv > 0.5:
		score -= 20
	case cv > 0.3:
		score -= 10
	}

	outlierCount := len(stats.HeapUsed.Outliers)
	score -= math.Min(20, float64(outlierCount)*5)

	increasing := 0
	for i := range snapshots {
		if ctx := snapshots[i].AnalysisContext; ctx != nil && ctx.Trend == models.TrendIncreasing {
			increasing++
		}
	}
	if len(snapshots) > 0 && increasing > len(snapshots)/2 {
		score -= 10
	}

	score = math.Max(0, math.Min(100, score))
	grade := gradeForScore(score)

	return models.HealthAssessment{
		Score:           score,
		Grade:           grade,
		Summary:         healthSummary(grade, stats, leak),
		Recommendations: buildRecommendations(peak, cv, outlierCount, stats, leak),
	}
}

func gradeForScore(score float64) models.HealthGrade {
	switch {
	case score >= 90:
		return models.GradeA
	case score >= 80:
		return models.GradeB
	case score >= 70:
		return models.GradeC
	case score >= 60:
		return models.GradeD
	default:
		return models.GradeF
	}
}

func coefficientOfVariation(summary models.StatsSummary) float64 {
	if summary.Mean == 0 {
		return 0
	}
	return summary.StdDev / summary.Mean
}

func healthSummary(grade models.HealthGrade, stats models.SnapshotStatistics, leak models.LeakPatternReport) string {
	mean := stats.UsagePercentage.Mean
	peak := stats.UsagePercentage.Max

	switch grade {
	case models.GradeA:
		return fmt.Sprintf(
			"Memory behavior is excellent. Average usage %.1f%% with a peak of %.1f%%; no concerning growth patterns observed.",
			mean, peak)
	case models.GradeB:
		return fmt.Sprintf(
			"Memory behavior is good. Average usage %.1f%% with a peak of %.1f%%; minor variability worth keeping an eye on.",
			mean, peak)
	case models.GradeC:
		return fmt.Sprintf(
			"Memory behavior is fair. Average usage %.1f%% with a peak of %.1f%%; leak pattern %q at %.0f%% confidence warrants attention.",
			mean, peak, leak.Pattern, leak.Confidence)
	case models.GradeD:
		return fmt.Sprintf(
			"Memory behavior is poor. Average usage %.1f%% with a peak of %.1f%%; leak pattern %q at %.0f%% confidence should be investigated soon.",
			mean, peak, leak.Pattern, leak.Confidence)
	case models.GradeF:
		return fmt.Sprintf(
			"Memory behavior is critical. Average usage %.1f%% with a peak of %.1f%%; leak pattern %q at %.0f%% confidence requires immediate investigation.",
			mean, peak, leak.Pattern, leak.Confidence)
	}
	return ""
}

// buildRecommendations applies the recommendation rules in fixed
// order; each rule contributes at most one line. The list is never
// empty: a reassuring fallback is produced when nothing fires.
func buildRecommendations(peak, cv float64, outlierCount int, stats models.SnapshotStatistics, leak models.LeakPatternReport) []string {
	recs := []string{}

	switch {
	case peak > 90:
		recs = append(recs, fmt.Sprintf("Critical: peak memory usage reached %.1f%% of the heap limit; reduce retained memory or raise the limit.", peak))
	case peak > 70:
		recs = append(recs, fmt.Sprintf("Peak memory usage reached %.1f%% of the heap limit; monitor for further growth.", peak))
	}

	if leak.Detected {
		recs = append(recs, fmt.Sprintf("A %q leak pattern was detected at %.0f%% confidence; follow the investigation guidance in the leak analysis.", leak.Pattern, leak.Confidence))
		if leak.GrowthRate > 0 {
			recs = append(recs, fmt.Sprintf("Heap is growing at %.0f bytes/sec; at this rate usage will keep climbing until the limit is reached.", leak.GrowthRate))
		}
	}

	if outlierCount > 0 {
		recs = append(recs, fmt.Sprintf("%d snapshot(s) deviate more than 2 standard deviations from the mean; inspect what ran at those timestamps.", outlierCount))
	}

	switch {
	case cv > 0.5:
		recs = append(recs, "Heap usage shows high variability; look for allocation bursts or churn-heavy code paths.")
	case cv > 0.3:
		recs = append(recs, "Heap usage shows moderate variability; consider smoothing allocation-heavy operations.")
	}

	if stats.DOMNodes != nil && stats.DOMNodes.Max > 10000 {
		recs = append(recs, fmt.Sprintf("DOM node count peaked at %.0f; large trees slow rendering and retain memory.", stats.DOMNodes.Max))
	}

	if stats.EventListeners != nil && stats.EventListeners.Max > 500 {
		recs = append(recs, fmt.Sprintf("Event listener count peaked at %.0f; verify listeners are removed when no longer needed.", stats.EventListeners.Max))
	}

	if len(recs) == 0 {
		recs = append(recs, "Memory usage looks healthy; no action needed.")
	}
	return recs
}
