package event

const SimulationQueue string = "simulation_events"

type SimulationEvent struct {
	ID         string              `json:"id"`
	EventType  SimulationEventType `json:"event_type"`
	StartDay   int                 `json:"start_day,omitempty"`
	DaysLoaded int                 `json:"days_loaded"`
	Additional map[string]any      `json:"additional,omitempty"`
}

type SimulationEventType string

const (
	LogRefreshed   SimulationEventType = "log_refreshed"
	RerunCompleted SimulationEventType = "rerun_completed"
	RerunFailed    SimulationEventType = "rerun_failed"
)
