package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Sweeper drops idle map sessions and reports their ids.
type Sweeper interface {
	Sweep() []string
}

// Canceler stops any search still running on a map.
type Canceler interface {
	Cancel(mapID string)
}

// Scheduler periodically sweeps idle map sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	canceler  Canceler
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler. canceler may be nil.
func New(sweeper Sweeper, canceler Canceler, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		sweeper:   sweeper,
		canceler:  canceler,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 10
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce performs a single sweep.
func (s *Scheduler) RunOnce() {
	removed := s.sweeper.Sweep()
	for _, id := range removed {
		if s.canceler != nil {
			s.canceler.Cancel(id)
		}
	}
	if len(removed) > 0 {
		s.logger.Info("scheduler: swept idle map sessions", zap.Int("count", len(removed)))
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
