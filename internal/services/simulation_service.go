package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/cache"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/config"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/models"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/observability"
)

// ISimulationService mediates every exchange with the remote scheduler. All
// failures come back as explicit values: LoadLog and FetchExplanations degrade
// to empty results, Rerun reports an error the caller must treat as "no
// change".
type ISimulationService interface {
	LoadLog(ctx context.Context) []models.SimulationDayRecord
	Rerun(ctx context.Context, startDay int, overrides map[string]any) ([]models.SimulationDayRecord, error)
	FetchExplanations(ctx context.Context) []models.DayExplanation
}

type SimulationService struct {
	cfg     config.SimServiceConfig
	client  *http.Client
	cache   *cache.LogCache
	metrics *observability.Metrics
}

func NewSimulationService(cfg config.SimServiceConfig, logCache *cache.LogCache, metrics *observability.Metrics) ISimulationService {
	return &SimulationService{
		cfg:     cfg,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		cache:   logCache,
		metrics: metrics,
	}
}

// wireDayRecord is the raw shape the scheduler emits. Older logs carry the
// fleet under fleet_status_today, newer ones under fleet_status_after; both
// are folded into the canonical record here, once, so nothing downstream has
// to sniff field names again.
type wireDayRecord struct {
	Day              int                     `json:"day"`
	Scenario         string                  `json:"scenario"`
	FleetStatusToday []models.RawTrainRecord `json:"fleet_status_today"`
	FleetStatusAfter []models.RawTrainRecord `json:"fleet_status_after"`
	FleetStatus      []models.RawTrainRecord `json:"fleet_status"`
	Plan             models.DayPlan          `json:"plan"`
}

func (w wireDayRecord) normalize() models.SimulationDayRecord {
	fleet := w.FleetStatus
	if fleet == nil {
		fleet = w.FleetStatusToday
	}
	if fleet == nil {
		fleet = w.FleetStatusAfter
	}
	return models.SimulationDayRecord{
		Day:         w.Day,
		Scenario:    w.Scenario,
		FleetStatus: fleet,
		Plan:        w.Plan,
	}
}

func normalizeLog(wire []wireDayRecord) []models.SimulationDayRecord {
	normalized := make([]models.SimulationDayRecord, 0, len(wire))
	for _, record := range wire {
		normalized = append(normalized, record.normalize())
	}
	return normalized
}

type logEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    []wireDayRecord `json:"data"`
}

type explanationsEnvelope struct {
	Status  string                  `json:"status"`
	Message string                  `json:"message"`
	Data    []models.DayExplanation `json:"data"`
}

// LoadLog walks the retrieval chain: remote fetch, remote recompute, cached
// snapshot, bundled static file, empty. Every transport failure is logged and
// absorbed; the caller always gets a usable (possibly empty) log.
func (s *SimulationService) LoadLog(ctx context.Context) []models.SimulationDayRecord {
	if records, err := s.fetchRemoteLog(ctx); err == nil && len(records) > 0 {
		s.metrics.LogLoaded("remote")
		s.cache.PutLog(ctx, records)
		return records
	} else if err != nil {
		log.Printf("Remote simulation log fetch failed: %v", err)
	}

	if records, err := s.computeRemoteLog(ctx); err == nil && len(records) > 0 {
		s.metrics.LogLoaded("computed")
		s.cache.PutLog(ctx, records)
		return records
	} else if err != nil {
		log.Printf("Remote simulation recompute failed: %v", err)
	}

	if cached, ok := s.cache.GetLog(ctx); ok {
		s.metrics.CacheHit()
		s.metrics.LogLoaded("cache")
		return cached
	}
	s.metrics.CacheMiss()

	if records, err := s.readStaticLog(); err == nil && len(records) > 0 {
		s.metrics.LogLoaded("static")
		return records
	} else if err != nil {
		log.Printf("Static simulation log fallback failed: %v", err)
	}

	s.metrics.LogLoaded("empty")
	return []models.SimulationDayRecord{}
}

// Rerun asks the scheduler to recompute the log from startDay with the given
// field overrides. Any failure returns nil and an error; callers keep the
// previous log in that case.
func (s *SimulationService) Rerun(ctx context.Context, startDay int, overrides map[string]any) ([]models.SimulationDayRecord, error) {
	if overrides == nil {
		overrides = map[string]any{}
	}
	body, err := json.Marshal(map[string]any{
		"start_day":        startDay,
		"manual_overrides": overrides,
	})
	if err != nil {
		s.metrics.RerunFinished("error")
		return nil, fmt.Errorf("failed to encode rerun request: %w", err)
	}

	var envelope logEnvelope
	if err := s.postJSON(ctx, s.cfg.BaseURL+"/rerun_from_day", body, &envelope); err != nil {
		s.metrics.RerunFinished("error")
		return nil, err
	}
	if envelope.Status == "error" {
		s.metrics.RerunFinished("rejected")
		return nil, fmt.Errorf("rerun rejected by simulation service: %s", envelope.Message)
	}

	// The service may return the refreshed log inline; older versions only
	// acknowledge and expect a follow-up fetch.
	refreshed := normalizeLog(envelope.Data)
	if len(refreshed) == 0 {
		refreshed, err = s.fetchRemoteLog(ctx)
		if err != nil {
			s.metrics.RerunFinished("error")
			return nil, fmt.Errorf("rerun succeeded but refreshed log fetch failed: %w", err)
		}
	}
	if len(refreshed) == 0 {
		s.metrics.RerunFinished("error")
		return nil, fmt.Errorf("rerun succeeded but simulation service returned no data")
	}

	s.metrics.RerunFinished("success")
	s.cache.PutLog(ctx, refreshed)
	return refreshed, nil
}

// FetchExplanations pulls the per-day feature impact data. It degrades to the
// cached copy, then to an empty slice; it never fails loudly.
func (s *SimulationService) FetchExplanations(ctx context.Context) []models.DayExplanation {
	var envelope explanationsEnvelope
	if err := s.getJSON(ctx, s.cfg.BaseURL+"/get_explanations", &envelope); err != nil {
		log.Printf("Explanations fetch failed: %v", err)
		if cached, ok := s.cache.GetExplanations(ctx); ok {
			return cached
		}
		return []models.DayExplanation{}
	}
	if envelope.Status == "error" {
		log.Printf("Explanations fetch rejected: %s", envelope.Message)
		return []models.DayExplanation{}
	}

	s.cache.PutExplanations(ctx, envelope.Data)
	return envelope.Data
}

func (s *SimulationService) fetchRemoteLog(ctx context.Context) ([]models.SimulationDayRecord, error) {
	var envelope logEnvelope
	if err := s.getJSON(ctx, s.cfg.BaseURL+"/get_simulation_data", &envelope); err != nil {
		return nil, err
	}
	if envelope.Status == "error" {
		return nil, fmt.Errorf("simulation service error: %s", envelope.Message)
	}
	return normalizeLog(envelope.Data), nil
}

func (s *SimulationService) computeRemoteLog(ctx context.Context) ([]models.SimulationDayRecord, error) {
	var envelope logEnvelope
	if err := s.postJSON(ctx, s.cfg.BaseURL+"/run_full_simulation", []byte(`{}`), &envelope); err != nil {
		return nil, err
	}
	if envelope.Status == "error" {
		return nil, fmt.Errorf("simulation service error: %s", envelope.Message)
	}
	if len(envelope.Data) > 0 {
		return normalizeLog(envelope.Data), nil
	}
	// The compute endpoint only acknowledges; the fresh log has to be fetched.
	return s.fetchRemoteLog(ctx)
}

func (s *SimulationService) readStaticLog() ([]models.SimulationDayRecord, error) {
	payload, err := os.ReadFile(s.cfg.StaticLogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read static log %s: %w", s.cfg.StaticLogPath, err)
	}

	var wire []wireDayRecord
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, fmt.Errorf("failed to parse static log %s: %w", s.cfg.StaticLogPath, err)
	}
	return normalizeLog(wire), nil
}

func (s *SimulationService) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return s.doJSON(req, out)
}

func (s *SimulationService) postJSON(ctx context.Context, url string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return s.doJSON(req, out)
}

func (s *SimulationService) doJSON(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call simulation service: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("simulation service returned status %d: %s", resp.StatusCode, string(payload))
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
