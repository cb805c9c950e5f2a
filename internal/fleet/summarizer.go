package fleet

import (
	"strings"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/models"
)

// Summarize computes the aggregate counts for one simulated day. The counts
// come straight from the plan's sets, not from re-classifying trains, so an
// internally inconsistent plan shows up as total != service+maintenance+standby
// instead of being silently repaired.
func Summarize(log []models.SimulationDayRecord, day int) models.FleetSummary {
	dayRecord, ok := findDay(log, day)
	if !ok {
		return models.FleetSummary{Scenario: models.StatusUnknown}
	}

	total := len(dayRecord.FleetStatus)
	service := len(dayRecord.Plan.Service)
	maintenance := len(dayRecord.Plan.Maintenance)

	standby := total - service - maintenance
	if dayRecord.Plan.Standby != nil {
		standby = len(dayRecord.Plan.Standby)
	}

	return models.FleetSummary{
		Total:       total,
		Service:     service,
		Maintenance: maintenance,
		Standby:     standby,
		Scenario:    titleScenario(dayRecord.Scenario),
	}
}

// HealthDistribution buckets an already-transformed fleet by health score.
func HealthDistribution(fleet []models.TrainViewModel) models.HealthDistribution {
	var dist models.HealthDistribution
	for _, train := range fleet {
		switch {
		case train.HealthScore >= 90:
			dist.Excellent++
		case train.HealthScore >= 75:
			dist.Good++
		case train.HealthScore >= 60:
			dist.Fair++
		default:
			dist.Poor++
		}
	}
	return dist
}

// titleScenario turns scheduler labels like "high_demand" into "High Demand".
func titleScenario(scenario string) string {
	if scenario == "" {
		return models.StatusUnknown
	}
	words := strings.FieldsFunc(scenario, func(r rune) bool {
		return r == '_' || r == ' '
	})
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
