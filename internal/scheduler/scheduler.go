// Package scheduler provides cron-based background tasks for the daemon.
package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/foqos/foqos/internal/engine"
	"github.com/foqos/foqos/internal/logging"
)

// Scheduler runs periodic ghost-session reconciliation.
type Scheduler struct {
	cron   *cron.Cron
	engine *engine.Engine
}

// New creates a scheduler for the given engine.
func New(eng *engine.Engine) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		engine: eng,
	}
}

// AddReconcileJob schedules reconciliation on the given cron spec (with
// seconds field).
func (s *Scheduler) AddReconcileJob(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		closed, err := s.engine.ReconcileGhostSessions()
		if err != nil {
			logging.Error("scheduled reconciliation failed", logging.KeyError, err)
			return
		}
		if closed > 0 {
			logging.Info("scheduled reconciliation closed sessions", logging.KeyCount, closed)
		}
	})
	return err
}

// Start begins running scheduled jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
