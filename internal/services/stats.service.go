package services

import (
	"math"
	"sort"
	"time"

	"memwatch/internal/models"
)

// Values more than this many standard deviations from the mean are
// flagged as outliers.
const outlierSigmas = 2.0

// CalculateStatsSummary computes min/max/mean/median/stdDev and
// outliers for one metric. The labels/ids/timestamps slices run
// parallel to values and are only used to reference outliers back to
// their originating snapshots. Empty input yields an all-zero summary.
func CalculateStatsSummary(values []float64, labels []string, ids []string, timestamps []time.Time) models.StatsSummary {
	summary := models.StatsSummary{Outliers: []models.Outlier{}}
	if len(values) == 0 {
		return summary
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	summary.Min = sorted[0]
	summary.Max = sorted[len(sorted)-1]

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	summary.Mean = sum / float64(len(values))

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		summary.Median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		summary.Median = sorted[mid]
	}

	// Population standard deviation (divide by N).
	variance := 0.0
	for _, v := range values {
		d := v - summary.Mean
		variance += d * d
	}
	variance /= float64(len(values))
	summary.StdDev = math.Sqrt(variance)

	// A constant series has stdDev 0 and, by definition, no outliers.
	if summary.StdDev > 0 {
		for i, v := range values {
			deviation := math.Abs(v-summary.Mean) / summary.StdDev
			if math.Abs(v-summary.Mean) > outlierSigmas*summary.StdDev {
				outlier := models.Outlier{
					Value:     v,
					Deviation: deviation,
				}
				if i < len(labels) {
					outlier.Label = labels[i]
				}
				if i < len(ids) {
					outlier.ID = ids[i]
				}
				if i < len(timestamps) {
					outlier.Timestamp = timestamps[i]
				}
				summary.Outliers = append(summary.Outliers, outlier)
			}
		}
	}

	return summary
}

// CalculateStatistics computes per-metric summaries across a snapshot
// set. DOM node and event listener summaries cover only the snapshots
// that carry the gauge and are omitted when none do.
func CalculateStatistics(snapshots []models.Snapshot) models.SnapshotStatistics {
	n := len(snapshots)
	heapUsed := make([]float64, 0, n)
	heapTotal := make([]float64, 0, n)
	usagePct := make([]float64, 0, n)
	labels := make([]string, 0, n)
	ids := make([]string, 0, n)
	timestamps := make([]time.Time, 0, n)

	var domValues, listenerValues []float64
	var domLabels, domIDs []string
	var domTimes []time.Time
	var listenerLabels, listenerIDs []string
	var listenerTimes []time.Time

	for i := range snapshots {
		s := &snapshots[i]
		heapUsed = append(heapUsed, float64(s.HeapUsed))
		heapTotal = append(heapTotal, float64(s.HeapTotal))
		usagePct = append(usagePct, s.UsagePercentage())
		labels = append(labels, s.Label)
		ids = append(ids, s.ID)
		timestamps = append(timestamps, s.Timestamp)

		if s.DOMNodes != nil {
			domValues = append(domValues, float64(*s.DOMNodes))
			domLabels = append(domLabels, s.Label)
			domIDs = append(domIDs, s.ID)
			domTimes = append(domTimes, s.Timestamp)
		}
		if s.EventListeners != nil {
			listenerValues = append(listenerValues, float64(*s.EventListeners))
			listenerLabels = append(listenerLabels, s.Label)
			listenerIDs = append(listenerIDs, s.ID)
			listenerTimes = append(listenerTimes, s.Timestamp)
		}
	}

	stats := models.SnapshotStatistics{
		HeapUsed:        CalculateStatsSummary(heapUsed, labels, ids, timestamps),
		HeapTotal:       CalculateStatsSummary(heapTotal, labels, ids, timestamps),
		UsagePercentage: CalculateStatsSummary(usagePct, labels, ids, timestamps),
	}

	if len(domValues) > 0 {
		summary := CalculateStatsSummary(domValues, domLabels, domIDs, domTimes)
		stats.DOMNodes = &summary
	}
	if len(listenerValues) > 0 {
		summary := CalculateStatsSummary(listenerValues, listenerLabels, listenerIDs, listenerTimes)
		stats.EventListeners = &summary
	}

	return stats
}
