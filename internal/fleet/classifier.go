package fleet

import (
	"math"
	"time"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/models"
)

// Penalty table for the derived health score. Deductions are applied to the
// scheduler-provided baseline (100 when absent) and the result is clamped to
// [0, 100].
const (
	penaltyCertExpired  = 20
	penaltyOpenJobCard  = 10
	penaltyOverdueKm    = 5
	penaltyOverdueClean = 5
	overdueKmThreshold  = 2000
	overdueCleanDays    = 7
	freshCleanDays      = 3
	underUtilizedCutoff = 0.3
	overUtilizedCutoff  = 0.7
)

var cleanedDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// HealthScore derives a 0-100 readiness figure for one train. An explicit
// health_score on the record is the baseline; an omitted one means 100.
func HealthScore(t models.RawTrainRecord, now time.Time) int {
	score := 100.0
	if t.HealthScore != nil {
		score = *t.HealthScore
	}

	if t.IsCertExpired {
		score -= penaltyCertExpired
	}
	if t.JobCardStatus == "OPEN" {
		score -= penaltyOpenJobCard
	}
	if t.KmSinceLastService > overdueKmThreshold {
		score -= penaltyOverdueKm
	}
	if days, ok := DaysSinceClean(t.LastCleanedDate, now); ok && days > overdueCleanDays {
		score -= penaltyOverdueClean
	}

	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// MileageStatus classifies a train's mileage utilization against its monthly
// target. A zero target never divides: nonzero mileage against a zero target
// counts as over-utilized, zero against zero as balanced.
func MileageStatus(currentKm, targetKm float64) string {
	if targetKm == 0 {
		if currentKm > 0 {
			return models.MileageOverUtilized
		}
		return models.MileageBalanced
	}

	utilization := currentKm / targetKm
	switch {
	case utilization < underUtilizedCutoff:
		return models.MileageUnderUtilized
	case utilization > overUtilizedCutoff:
		return models.MileageOverUtilized
	default:
		return models.MileageBalanced
	}
}

// CleaningStatus classifies how overdue a train's deep clean is. An unparsable
// date degrades to "Due for Cleaning" with ok=false so callers can flag the
// record as a data error without failing the whole transform.
func CleaningStatus(lastCleaned string, now time.Time) (string, bool) {
	days, ok := DaysSinceClean(lastCleaned, now)
	if !ok {
		return models.CleaningDue, false
	}
	switch {
	case days <= freshCleanDays:
		return models.CleaningClean, true
	case days <= overdueCleanDays:
		return models.CleaningGood, true
	default:
		return models.CleaningDue, true
	}
}

// DaysSinceClean returns the whole days elapsed since the last cleaning,
// rounding partial days up. ok is false when the date cannot be parsed.
func DaysSinceClean(lastCleaned string, now time.Time) (int, bool) {
	cleaned, ok := parseCleanedDate(lastCleaned)
	if !ok {
		return 0, false
	}

	elapsed := now.Sub(cleaned)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	return int(math.Ceil(elapsed.Hours() / 24)), true
}

func parseCleanedDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range cleanedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
