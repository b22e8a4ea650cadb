package worker

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eyalfuks51/wedding-Eyal/internal/services"
)

// Job drives one automation cycle per tick: queue due stage messages, deliver
// the outbox, then run the cooldown reminder pass.
type Job struct {
	ticker     *time.Ticker
	quit       chan struct{}
	automation services.AutomationService
	outbox     services.OutboxService
	reminders  services.ReminderService
	isRunning  bool
	mu         sync.Mutex
	log        zerolog.Logger
}

func NewJob(interval time.Duration, automation services.AutomationService, outbox services.OutboxService, reminders services.ReminderService) *Job {
	return &Job{
		ticker:     time.NewTicker(interval),
		quit:       make(chan struct{}),
		automation: automation,
		outbox:     outbox,
		reminders:  reminders,
		log:        zerolog.New(os.Stdout).With().Timestamp().Str("component", "worker").Logger(),
	}
}

func (j *Job) Start(ctx context.Context, wg *sync.WaitGroup) {
	j.log.Info().Msg("automation job started")
	go func() {
		defer wg.Done()
		defer j.ticker.Stop()

		// First pass runs immediately; the ticker takes over afterwards.
		j.runCycle(ctx)

		for {
			select {
			case <-j.ticker.C:
				j.runCycle(ctx)
			case <-j.quit:
				j.log.Info().Msg("automation job stopped by toggle")
				return
			case <-ctx.Done():
				j.log.Info().Msg("shutdown signal received, stopping automation job")
				return
			}
		}
	}()
}

func (j *Job) Stop() {
	close(j.quit)
	j.log.Info().Msg("automation job stopping")
}

func (j *Job) runCycle(ctx context.Context) {
	j.mu.Lock()
	if j.isRunning {
		j.log.Info().Msg("cycle already running, skipping this tick")
		j.mu.Unlock()
		return
	}
	j.isRunning = true
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.isRunning = false
		j.mu.Unlock()
	}()

	if summary, err := j.automation.Run(ctx, false); err != nil {
		j.log.Error().Err(err).Msg("stage engine run failed")
	} else {
		j.log.Info().
			Int("processed", summary.Processed).
			Int("total_queued", summary.TotalQueued).
			Msg("stage engine pass complete")
	}

	if delivered, failed, err := j.outbox.DeliverPending(ctx); err != nil {
		j.log.Error().Err(err).Msg("outbox delivery failed")
	} else if delivered+failed > 0 {
		j.log.Info().Int("delivered", delivered).Int("failed", failed).Msg("outbox pass complete")
	}

	if summary, err := j.reminders.Run(ctx, services.ReminderRunOptions{}); err != nil {
		j.log.Error().Err(err).Msg("reminder run failed")
	} else if summary.Skipped != "" {
		j.log.Info().Str("skipped", string(summary.Skipped)).Msg("reminder pass skipped")
	}
}
