package fleet

import (
	"fmt"
	"time"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/models"
)

// Transform derives the dashboard view models for one simulated day. It fails
// softly: an empty log or a day with no record yields an empty slice. Input
// order of the raw records is preserved.
func Transform(log []models.SimulationDayRecord, day int, now time.Time) []models.TrainViewModel {
	dayRecord, ok := findDay(log, day)
	if !ok {
		return []models.TrainViewModel{}
	}

	fleet := make([]models.TrainViewModel, 0, len(dayRecord.FleetStatus))
	for _, train := range dayRecord.FleetStatus {
		fleet = append(fleet, models.TrainViewModel{
			ID:          train.TrainID,
			HealthScore: HealthScore(train, now),
			Status:      resolveStatus(dayRecord.Plan, train.TrainID),
			Details:     buildDetails(train, now),
		})
	}
	return fleet
}

func findDay(log []models.SimulationDayRecord, day int) (models.SimulationDayRecord, bool) {
	for _, entry := range log {
		if entry.Day == day {
			return entry, true
		}
	}
	return models.SimulationDayRecord{}, false
}

// resolveStatus looks the train up in SERVICE, then MAINTENANCE, then STANDBY.
// First match wins when bad input places a train in more than one set; absent
// from all three means Unknown, which is surfaced rather than corrected.
func resolveStatus(plan models.DayPlan, trainID string) string {
	if contains(plan.Service, trainID) {
		return models.StatusService
	}
	if contains(plan.Maintenance, trainID) {
		return models.StatusMaintenance
	}
	if contains(plan.Standby, trainID) {
		return models.StatusStandby
	}
	return models.StatusUnknown
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func buildDetails(train models.RawTrainRecord, now time.Time) models.TrainDetails {
	cleaningStatus, _ := CleaningStatus(train.LastCleanedDate, now)

	return models.TrainDetails{
		FitnessCertificates: models.FitnessCertificates{
			Status:  certStatus(train.IsCertExpired),
			Expires: train.CertTelecomExpiry,
		},
		JobCardStatus: models.JobCardStatus{
			Status:   train.JobCardStatus,
			OpenJobs: openJobCount(train.JobCardStatus),
			Details:  jobCardDetails(train.JobCardPriority),
		},
		BrandingPriority: brandingPriority(train),
		MileageBalancing: mileageBalancing(train),
		CleaningDetailing: models.CleaningDetailing{
			LastCleaned: train.LastCleanedDate,
			Status:      cleaningStatus,
		},
		StablingGeometry: stablingGeometry(train.StablingShuntMoves),

		ConsecutiveServiceDays:    train.ConsecutiveServiceDays,
		TotalServiceDaysMonth:     train.TotalServiceDaysMonth,
		TotalMaintenanceDaysMonth: train.TotalMaintenanceDaysMonth,
		BrakeModel:                train.BrakeModel,
		KmSinceLastService:        train.KmSinceLastService,
		BogieLastServiceKm:        train.BogieLastServiceKm,
	}
}

func certStatus(expired bool) string {
	if expired {
		return "Expired"
	}
	return "Valid"
}

func openJobCount(status string) int {
	if status == "OPEN" {
		return 1
	}
	return 0
}

func jobCardDetails(priority string) string {
	if priority != "" && priority != "NONE" {
		return priority
	}
	return "No open jobs"
}

func brandingPriority(train models.RawTrainRecord) models.BrandingPriority {
	if !train.BrandingSLAActive {
		return models.BrandingPriority{
			Level:          "Low",
			Contract:       "None",
			ExposureNeeded: "N/A",
		}
	}
	// Remaining exposure may be negative when the contract is over-delivered;
	// that is shown as-is, not clamped.
	return models.BrandingPriority{
		Level:          "High",
		Contract:       "Active Contract",
		ExposureNeeded: fmt.Sprintf("%g hrs remaining", train.TargetHours-train.CurrentHours),
	}
}

func mileageBalancing(train models.RawTrainRecord) models.MileageBalancing {
	return models.MileageBalancing{
		// Deviation is measured against half the monthly target as the pace
		// baseline.
		Deviation: train.CurrentKm - train.TargetKm*0.5,
		Unit:      "km",
		Status:    MileageStatus(train.CurrentKm, train.TargetKm),
	}
}

// stablingGeometry estimates bay placement and turnout time from the shunt
// move count: each extra move costs two minutes on top of a three minute base.
func stablingGeometry(shuntMoves int) models.StablingGeometry {
	return models.StablingGeometry{
		Bay:         fmt.Sprintf("Bay %d", shuntMoves+1),
		TurnoutTime: fmt.Sprintf("%d mins", shuntMoves*2+3),
	}
}
