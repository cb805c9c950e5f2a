package jobs

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/ShaanNarendran/KRONOSButBetter/internal/event"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/services"
	"github.com/ShaanNarendran/KRONOSButBetter/internal/state"
)

// LogRefreshJob periodically re-walks the gateway's retrieval chain and swaps
// the result into the store. An empty result is discarded so a flaky upstream
// can never blank out a previously good log.
type LogRefreshJob struct {
	cron       *cron.Cron
	store      *state.FleetStore
	simService services.ISimulationService
	publisher  *event.SimulationPublisher
}

// NewLogRefreshJob schedules the refresh. An empty schedule returns a nil job,
// which Stop tolerates.
func NewLogRefreshJob(schedule string, store *state.FleetStore, simService services.ISimulationService, publisher *event.SimulationPublisher) (*LogRefreshJob, error) {
	if schedule == "" {
		return nil, nil
	}

	job := &LogRefreshJob{
		cron:       cron.New(),
		store:      store,
		simService: simService,
		publisher:  publisher,
	}
	if _, err := job.cron.AddFunc(schedule, job.refresh); err != nil {
		return nil, err
	}
	job.cron.Start()
	log.Printf("Simulation log refresh scheduled: %s", schedule)
	return job, nil
}

func (j *LogRefreshJob) refresh() {
	ctx := context.Background()

	refreshed := j.simService.LoadLog(ctx)
	if len(refreshed) == 0 {
		log.Printf("Scheduled refresh produced no data, keeping current log")
		return
	}

	j.store.ReplaceLog(refreshed)
	j.store.ReplaceExplanations(j.simService.FetchExplanations(ctx))
	log.Printf("Scheduled refresh loaded %d day(s)", len(refreshed))

	if err := j.publisher.PublishEvent(ctx, event.SimulationEvent{
		EventType:  event.LogRefreshed,
		DaysLoaded: len(refreshed),
	}); err != nil {
		log.Printf("Failed to publish refresh event: %v", err)
	}
}

func (j *LogRefreshJob) Stop() {
	if j == nil {
		return
	}
	j.cron.Stop()
}
