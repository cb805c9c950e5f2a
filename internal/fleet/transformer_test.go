package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/models"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func dayRecord(day int, scenario string, trains []models.RawTrainRecord, plan models.DayPlan) models.SimulationDayRecord {
	return models.SimulationDayRecord{
		Day:         day,
		Scenario:    scenario,
		FleetStatus: trains,
		Plan:        plan,
	}
}

func namedTrain(id string) models.RawTrainRecord {
	train := healthyTrain()
	train.TrainID = id
	return train
}

// ============================================================================
// TEST SUITE 1: SOFT FAILURE
// ============================================================================

func TestTransform_EmptyLog(t *testing.T) {
	assert.Empty(t, Transform([]models.SimulationDayRecord{}, 1, testNow))
	assert.Empty(t, Transform(nil, 1, testNow))
}

func TestTransform_MissingDay(t *testing.T) {
	log := []models.SimulationDayRecord{
		dayRecord(1, "normal", []models.RawTrainRecord{namedTrain("Rake-01")}, models.DayPlan{}),
	}

	assert.Empty(t, Transform(log, 7, testNow))
}

// ============================================================================
// TEST SUITE 2: STATUS RESOLUTION
// ============================================================================

func TestTransform_StatusFromPlan(t *testing.T) {
	trains := []models.RawTrainRecord{
		namedTrain("Rake-01"),
		namedTrain("Rake-02"),
		namedTrain("Rake-03"),
		namedTrain("Rake-04"),
	}
	plan := models.DayPlan{
		Service:     []string{"Rake-01"},
		Maintenance: []string{"Rake-02"},
		Standby:     []string{"Rake-03"},
	}
	log := []models.SimulationDayRecord{dayRecord(1, "normal", trains, plan)}

	fleet := Transform(log, 1, testNow)

	assert.Len(t, fleet, 4)
	assert.Equal(t, models.StatusService, fleet[0].Status)
	assert.Equal(t, models.StatusMaintenance, fleet[1].Status)
	assert.Equal(t, models.StatusStandby, fleet[2].Status)
	assert.Equal(t, models.StatusUnknown, fleet[3].Status, "absence from every set is surfaced, not corrected")
}

func TestTransform_StatusPrecedenceOnOverlap(t *testing.T) {
	// A train in more than one set is bad input; SERVICE wins, then
	// MAINTENANCE.
	trains := []models.RawTrainRecord{namedTrain("Rake-01"), namedTrain("Rake-02")}
	plan := models.DayPlan{
		Service:     []string{"Rake-01"},
		Maintenance: []string{"Rake-01", "Rake-02"},
		Standby:     []string{"Rake-02"},
	}
	log := []models.SimulationDayRecord{dayRecord(1, "normal", trains, plan)}

	fleet := Transform(log, 1, testNow)

	assert.Equal(t, models.StatusService, fleet[0].Status)
	assert.Equal(t, models.StatusMaintenance, fleet[1].Status)
}

func TestTransform_PreservesInputOrder(t *testing.T) {
	trains := []models.RawTrainRecord{
		namedTrain("Rake-09"),
		namedTrain("Rake-02"),
		namedTrain("Rake-17"),
	}
	log := []models.SimulationDayRecord{dayRecord(3, "normal", trains, models.DayPlan{})}

	fleet := Transform(log, 3, testNow)

	ids := []string{fleet[0].ID, fleet[1].ID, fleet[2].ID}
	assert.Equal(t, []string{"Rake-09", "Rake-02", "Rake-17"}, ids)
}

// ============================================================================
// TEST SUITE 3: DETAIL DERIVATIONS
// ============================================================================

func TestTransform_BrandingDetails(t *testing.T) {
	active := namedTrain("Rake-01")
	active.BrandingSLAActive = true
	active.TargetHours = 480
	active.CurrentHours = 500

	inactive := namedTrain("Rake-02")
	inactive.BrandingSLAActive = false

	log := []models.SimulationDayRecord{
		dayRecord(1, "normal", []models.RawTrainRecord{active, inactive}, models.DayPlan{}),
	}

	fleet := Transform(log, 1, testNow)

	assert.Equal(t, "High", fleet[0].Details.BrandingPriority.Level)
	assert.Equal(t, "Active Contract", fleet[0].Details.BrandingPriority.Contract)
	assert.Equal(t, "-20 hrs remaining", fleet[0].Details.BrandingPriority.ExposureNeeded,
		"over-delivered exposure stays negative, not clamped")

	assert.Equal(t, "Low", fleet[1].Details.BrandingPriority.Level)
	assert.Equal(t, "None", fleet[1].Details.BrandingPriority.Contract)
	assert.Equal(t, "N/A", fleet[1].Details.BrandingPriority.ExposureNeeded)
}

func TestTransform_StablingGeometry(t *testing.T) {
	train := namedTrain("Rake-01")
	train.StablingShuntMoves = 4
	log := []models.SimulationDayRecord{
		dayRecord(1, "normal", []models.RawTrainRecord{train}, models.DayPlan{}),
	}

	fleet := Transform(log, 1, testNow)

	assert.Equal(t, "Bay 5", fleet[0].Details.StablingGeometry.Bay)
	assert.Equal(t, "11 mins", fleet[0].Details.StablingGeometry.TurnoutTime)
}

func TestTransform_JobCardDetails(t *testing.T) {
	open := namedTrain("Rake-01")
	open.JobCardStatus = "OPEN"
	open.JobCardPriority = "HIGH"

	closed := namedTrain("Rake-02")
	closed.JobCardStatus = "CLOSED"
	closed.JobCardPriority = "NONE"

	log := []models.SimulationDayRecord{
		dayRecord(1, "normal", []models.RawTrainRecord{open, closed}, models.DayPlan{}),
	}

	fleet := Transform(log, 1, testNow)

	assert.Equal(t, 1, fleet[0].Details.JobCardStatus.OpenJobs)
	assert.Equal(t, "HIGH", fleet[0].Details.JobCardStatus.Details)
	assert.Equal(t, 0, fleet[1].Details.JobCardStatus.OpenJobs)
	assert.Equal(t, "No open jobs", fleet[1].Details.JobCardStatus.Details)
}

func TestTransform_CertificateDetails(t *testing.T) {
	expired := namedTrain("Rake-01")
	expired.IsCertExpired = true
	expired.CertTelecomExpiry = "2025-09-02"

	log := []models.SimulationDayRecord{
		dayRecord(1, "normal", []models.RawTrainRecord{expired}, models.DayPlan{}),
	}

	fleet := Transform(log, 1, testNow)

	assert.Equal(t, "Expired", fleet[0].Details.FitnessCertificates.Status)
	assert.Equal(t, "2025-09-02", fleet[0].Details.FitnessCertificates.Expires)
}

func TestTransform_MileageDeviation(t *testing.T) {
	train := namedTrain("Rake-01")
	train.CurrentKm = 600
	train.TargetKm = 1000

	log := []models.SimulationDayRecord{
		dayRecord(1, "normal", []models.RawTrainRecord{train}, models.DayPlan{}),
	}

	fleet := Transform(log, 1, testNow)

	assert.InDelta(t, 100.0, fleet[0].Details.MileageBalancing.Deviation, 0.001)
	assert.Equal(t, "km", fleet[0].Details.MileageBalancing.Unit)
	assert.Equal(t, models.MileageBalanced, fleet[0].Details.MileageBalancing.Status)
}

// ============================================================================
// TEST SUITE 4: END TO END
// ============================================================================

func TestTransform_SingleTrainScenario(t *testing.T) {
	now := time.Date(2025, time.September, 20, 10, 0, 0, 0, time.UTC)
	train := models.RawTrainRecord{
		TrainID:         "R1",
		HealthScore:     scorePtr(90),
		IsCertExpired:   false,
		JobCardStatus:   "CLOSED",
		CurrentKm:       500,
		TargetKm:        1000,
		LastCleanedDate: "2025-09-20",
	}
	log := []models.SimulationDayRecord{
		dayRecord(1, "normal", []models.RawTrainRecord{train}, models.DayPlan{
			Service:     []string{"R1"},
			Maintenance: []string{},
			Standby:     []string{},
		}),
	}

	fleet := Transform(log, 1, now)

	assert.Len(t, fleet, 1)
	assert.Equal(t, "R1", fleet[0].ID)
	assert.Equal(t, models.StatusService, fleet[0].Status)
	assert.Equal(t, 90, fleet[0].HealthScore)
	assert.Equal(t, models.MileageBalanced, fleet[0].Details.MileageBalancing.Status)
	assert.Equal(t, models.CleaningClean, fleet[0].Details.CleaningDetailing.Status)
}
