package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/eyalfuks51/wedding-Eyal/internal/services"
)

// JobManager owns the lifecycle of the background automation job. The
// dashboard can toggle it off during manual send sessions.
type JobManager struct {
	currentJob *Job
	mu         sync.Mutex
	interval   time.Duration
	automation services.AutomationService
	outbox     services.OutboxService
	reminders  services.ReminderService
	wg         *sync.WaitGroup
}

func NewJobManager(interval time.Duration, automation services.AutomationService, outbox services.OutboxService, reminders services.ReminderService, wg *sync.WaitGroup) *JobManager {
	return &JobManager{
		interval:   interval,
		automation: automation,
		outbox:     outbox,
		reminders:  reminders,
		wg:         wg,
	}
}

// Starts a new job
func (m *JobManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentJob != nil {
		return errors.New("job is already running")
	}
	m.wg.Add(1)

	m.currentJob = NewJob(m.interval, m.automation, m.outbox, m.reminders)
	m.currentJob.Start(ctx, m.wg)
	return nil
}

// Stops the active job
func (m *JobManager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentJob == nil {
		return errors.New("actively running job not found")
	}

	m.currentJob.Stop()
	m.currentJob = nil
	return nil
}

// Checks if a job is currently running
func (m *JobManager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentJob != nil
}
