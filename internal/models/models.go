package models

import "time"

// Train status labels as the dashboard displays them.
const (
	StatusService     = "Service"
	StatusMaintenance = "Maintenance"
	StatusStandby     = "Standby"
	StatusUnknown     = "Unknown"
)

// Mileage utilization labels.
const (
	MileageUnderUtilized = "Under-utilized"
	MileageOverUtilized  = "Over-utilized"
	MileageBalanced      = "Balanced"
)

// Cleaning freshness labels.
const (
	CleaningClean = "Clean"
	CleaningGood  = "Good"
	CleaningDue   = "Due for Cleaning"
)

// RawTrainRecord is one train's state on one simulated day, as produced by the
// scheduler. HealthScore is a pointer so an omitted field can be told apart
// from an explicit zero.
type RawTrainRecord struct {
	TrainID                   string   `json:"train_id"`
	HealthScore               *float64 `json:"health_score,omitempty"`
	IsCertExpired             bool     `json:"is_cert_expired"`
	CertTelecomExpiry         string   `json:"cert_telecom_expiry"`
	JobCardStatus             string   `json:"job_card_status"`
	JobCardPriority           string   `json:"job_card_priority"`
	BrandingSLAActive         bool     `json:"branding_sla_active"`
	CurrentHours              float64  `json:"current_hours"`
	TargetHours               float64  `json:"target_hours"`
	CurrentKm                 float64  `json:"current_km"`
	TargetKm                  float64  `json:"target_km"`
	KmSinceLastService        float64  `json:"km_since_last_service"`
	LastCleanedDate           string   `json:"last_cleaned_date"`
	StablingShuntMoves        int      `json:"stabling_shunt_moves"`
	ConsecutiveServiceDays    int      `json:"consecutive_service_days"`
	TotalServiceDaysMonth     int      `json:"total_service_days_month"`
	TotalMaintenanceDaysMonth int      `json:"total_maintenance_days_month"`
	BrakeModel                string   `json:"brake_model"`
	BogieLastServiceKm        float64  `json:"bogie_last_service_km"`
}

// DayPlan assigns train IDs to the three operational buckets. A nil Standby
// slice means the scheduler did not emit the set at all, which is distinct
// from an empty one.
type DayPlan struct {
	Service     []string `json:"SERVICE"`
	Maintenance []string `json:"MAINTENANCE"`
	Standby     []string `json:"STANDBY"`
}

// SimulationDayRecord is the canonical per-day record consumed everywhere
// downstream of the gateway. The gateway normalizes the two wire spellings of
// the fleet list into FleetStatus before anything else sees the data.
type SimulationDayRecord struct {
	Day         int              `json:"day"`
	Scenario    string           `json:"scenario"`
	FleetStatus []RawTrainRecord `json:"fleet_status"`
	Plan        DayPlan          `json:"plan"`
}

// FitnessCertificates summarizes the telecom fitness certificate for display.
type FitnessCertificates struct {
	Status  string `json:"status"`
	Expires string `json:"expires"`
}

type JobCardStatus struct {
	Status   string `json:"status"`
	OpenJobs int    `json:"openJobs"`
	Details  string `json:"details"`
}

type BrandingPriority struct {
	Level          string `json:"level"`
	Contract       string `json:"contract"`
	ExposureNeeded string `json:"exposureNeeded"`
}

type MileageBalancing struct {
	Deviation float64 `json:"deviation"`
	Unit      string  `json:"unit"`
	Status    string  `json:"status"`
}

type CleaningDetailing struct {
	LastCleaned string `json:"lastCleaned"`
	Status      string `json:"status"`
}

type StablingGeometry struct {
	Bay         string `json:"bay"`
	TurnoutTime string `json:"turnoutTime"`
}

// TrainDetails is the per-train detail bundle shown in the detail modal.
type TrainDetails struct {
	FitnessCertificates FitnessCertificates `json:"fitnessCertificates"`
	JobCardStatus       JobCardStatus       `json:"jobCardStatus"`
	BrandingPriority    BrandingPriority    `json:"brandingPriority"`
	MileageBalancing    MileageBalancing    `json:"mileageBalancing"`
	CleaningDetailing   CleaningDetailing   `json:"cleaningDetailing"`
	StablingGeometry    StablingGeometry    `json:"stablingGeometry"`

	ConsecutiveServiceDays    int     `json:"consecutiveServiceDays"`
	TotalServiceDaysMonth     int     `json:"totalServiceDaysMonth"`
	TotalMaintenanceDaysMonth int     `json:"totalMaintenanceDaysMonth"`
	BrakeModel                string  `json:"brakeModel"`
	KmSinceLastService        float64 `json:"kmSinceLastService"`
	BogieLastServiceKm        float64 `json:"bogieLastServiceKm"`
}

// TrainViewModel is one train as the dashboard renders it.
type TrainViewModel struct {
	ID          string       `json:"id"`
	HealthScore int          `json:"healthScore"`
	Status      string       `json:"status"`
	Details     TrainDetails `json:"details"`
}

// FleetSummary holds the per-day aggregate counts. Standby is not clamped:
// under inconsistent plans it can go negative, and that inconsistency is meant
// to be visible to callers rather than papered over.
type FleetSummary struct {
	Total       int    `json:"total"`
	Service     int    `json:"service"`
	Maintenance int    `json:"maintenance"`
	Standby     int    `json:"standby"`
	Scenario    string `json:"scenario"`
}

// HealthDistribution buckets a day's fleet by health score.
type HealthDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

// ShapExplanation is one output's feature-impact breakdown from the
// explainability service. FeatureNames/FeatureValues/Readable are optional on
// the wire.
type ShapExplanation struct {
	OutputName    string    `json:"output_name"`
	ShapValues    []float64 `json:"shap_values"`
	FeatureNames  []string  `json:"feature_names,omitempty"`
	FeatureValues []any     `json:"feature_values,omitempty"`
	Readable      []string  `json:"readable,omitempty"`
}

type DayExplanation struct {
	Day              int               `json:"day"`
	ShapExplanations []ShapExplanation `json:"shap_explanations"`
}

// CalendarDay is one cell of the date-picker month grid. SimulationDay is nil
// for dates outside the simulated window.
type CalendarDay struct {
	Date           time.Time `json:"date"`
	Day            int       `json:"day"`
	IsCurrentMonth bool      `json:"isCurrentMonth"`
	SimulationDay  *int      `json:"simulationDay"`
	IsToday        bool      `json:"isToday"`
	IsSelected     bool      `json:"isSelected"`
}
