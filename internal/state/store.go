package state

import (
	"sync"
	"time"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/models"
)

// FleetStore owns the single in-memory simulation log plus the explanation
// set. The log is only ever replaced wholesale: a rerun that fails never
// touches it, and readers during an in-flight rerun keep seeing the previous
// log. Individual day records are never mutated in place.
type FleetStore struct {
	mu           sync.RWMutex
	log          []models.SimulationDayRecord
	explanations []models.DayExplanation
	loadedAt     time.Time
}

func NewFleetStore() *FleetStore {
	return &FleetStore{}
}

// Log returns the current log. The returned slice must be treated as
// read-only; derivations copy what they need.
func (s *FleetStore) Log() []models.SimulationDayRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log
}

// ReplaceLog swaps in a wholly new log. Passing nil is a no-op so callers can
// feed a failed gateway result straight through without guarding.
func (s *FleetStore) ReplaceLog(log []models.SimulationDayRecord) {
	if log == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = log
	s.loadedAt = time.Now()
}

func (s *FleetStore) Explanations() []models.DayExplanation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.explanations
}

func (s *FleetStore) ReplaceExplanations(explanations []models.DayExplanation) {
	if explanations == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.explanations = explanations
}

// Stats reports what the health endpoint exposes.
func (s *FleetStore) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"days_loaded":        len(s.log),
		"explanations_count": len(s.explanations),
		"loaded_at":          s.loadedAt,
	}
}
