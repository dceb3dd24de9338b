package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler re-runs a compliance evaluation for one policy/dataset pair
// on a cron schedule.
type Scheduler struct {
	runner    *Runner
	schedule  string
	policyID  string
	datasetID string

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	logger  *slog.Logger
}

// NewScheduler creates a scheduler for the given pair.
func NewScheduler(r *Runner, schedule, policyID, datasetID string) *Scheduler {
	return &Scheduler{
		runner:    r,
		schedule:  schedule,
		policyID:  policyID,
		datasetID: datasetID,
		cron:      cron.New(),
		logger:    slog.Default().With("component", "runner.scheduler"),
	}
}

// Start begins scheduled runs. The first run happens at the first cron
// tick, not immediately; callers wanting an immediate run invoke Run
// themselves.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.runner.Run(ctx, s.policyID, s.datasetID); err != nil {
			s.logger.Error("scheduled run failed",
				"policy_id", s.policyID,
				"dataset_id", s.datasetID,
				"error", err,
			)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started",
		"schedule", s.schedule,
		"policy_id", s.policyID,
		"dataset_id", s.datasetID,
	)
	return nil
}

// Stop halts scheduling and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("scheduler stopped")
}
