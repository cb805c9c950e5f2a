package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/models"
)

// ============================================================================
// TEST SUITE 1: SUMMARY COUNTS
// ============================================================================

func TestSummarize_CountsComeFromThePlan(t *testing.T) {
	trains := []models.RawTrainRecord{
		namedTrain("Rake-01"),
		namedTrain("Rake-02"),
		namedTrain("Rake-03"),
		namedTrain("Rake-04"),
	}
	plan := models.DayPlan{
		Service:     []string{"Rake-01", "Rake-02"},
		Maintenance: []string{"Rake-03"},
		Standby:     []string{"Rake-04"},
	}
	log := []models.SimulationDayRecord{dayRecord(5, "normal", trains, plan)}

	summary := Summarize(log, 5)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Service)
	assert.Equal(t, 1, summary.Maintenance)
	assert.Equal(t, 1, summary.Standby)
	assert.Equal(t, "Normal", summary.Scenario)
}

func TestSummarize_MissingDay(t *testing.T) {
	log := []models.SimulationDayRecord{
		dayRecord(1, "normal", []models.RawTrainRecord{namedTrain("Rake-01")}, models.DayPlan{}),
	}

	summary := Summarize(log, 9)

	assert.Equal(t, models.FleetSummary{Scenario: "Unknown"}, summary)
}

func TestSummarize_EmptyLog(t *testing.T) {
	summary := Summarize(nil, 1)

	assert.Zero(t, summary.Total)
	assert.Equal(t, "Unknown", summary.Scenario)
}

func TestSummarize_StandbyDerivedWhenAbsent(t *testing.T) {
	trains := []models.RawTrainRecord{
		namedTrain("Rake-01"),
		namedTrain("Rake-02"),
		namedTrain("Rake-03"),
	}
	plan := models.DayPlan{
		Service:     []string{"Rake-01"},
		Maintenance: []string{"Rake-02"},
		Standby:     nil,
	}
	log := []models.SimulationDayRecord{dayRecord(2, "normal", trains, plan)}

	summary := Summarize(log, 2)

	assert.Equal(t, 1, summary.Standby, "standby falls back to total - service - maintenance")
}

func TestSummarize_InconsistentPlanStaysVisible(t *testing.T) {
	// The plan claims more assignments than the fleet has trains. The counts
	// are passed through untouched so the upstream bug stays visible.
	trains := []models.RawTrainRecord{namedTrain("Rake-01")}
	plan := models.DayPlan{
		Service:     []string{"Rake-01", "Rake-02"},
		Maintenance: []string{"Rake-03"},
		Standby:     nil,
	}
	log := []models.SimulationDayRecord{dayRecord(1, "normal", trains, plan)}

	summary := Summarize(log, 1)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 2, summary.Service)
	assert.Equal(t, 1, summary.Maintenance)
	assert.Equal(t, -2, summary.Standby, "negative standby is surfaced, not clamped")
}

func TestSummarize_ScenarioTitleCased(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"normal", "Normal"},
		{"high_demand", "High Demand"},
		{"MONSOON", "Monsoon"},
		{"", "Unknown"},
	}

	for _, tt := range tests {
		log := []models.SimulationDayRecord{
			dayRecord(1, tt.raw, []models.RawTrainRecord{}, models.DayPlan{}),
		}
		assert.Equal(t, tt.expected, Summarize(log, 1).Scenario)
	}
}

// ============================================================================
// TEST SUITE 2: HEALTH DISTRIBUTION
// ============================================================================

func TestHealthDistribution(t *testing.T) {
	fleet := []models.TrainViewModel{
		{HealthScore: 95},
		{HealthScore: 90},
		{HealthScore: 80},
		{HealthScore: 75},
		{HealthScore: 65},
		{HealthScore: 40},
	}

	dist := HealthDistribution(fleet)

	assert.Equal(t, models.HealthDistribution{Excellent: 2, Good: 2, Fair: 1, Poor: 1}, dist)
}

func TestHealthDistribution_EmptyFleet(t *testing.T) {
	assert.Equal(t, models.HealthDistribution{}, HealthDistribution(nil))
}
