package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RolloverFunc clears state that belongs to the previous calendar day and
// reports how many records it touched.
type RolloverFunc func(now time.Time) int

// Scheduler runs the daily rollover job.
type Scheduler struct {
	cron     *cron.Cron
	spec     string
	loc      *time.Location
	rollover RolloverFunc
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	running bool
}

// New builds a scheduler. spec is a standard five-field cron expression
// evaluated in loc.
func New(spec string, loc *time.Location, rollover RolloverFunc, logger *zap.Logger) (*Scheduler, error) {
	if rollover == nil {
		return nil, fmt.Errorf("rollover function is required")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse rollover schedule %q: %w", spec, err)
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		spec:     spec,
		loc:      loc,
		rollover: rollover,
		logger:   logger,
		now:      time.Now,
	}
	if _, err := s.cron.AddFunc(spec, func() { s.Rollover() }); err != nil {
		return nil, fmt.Errorf("register rollover job: %w", err)
	}
	return s, nil
}

// Rollover runs the daily job once.
func (s *Scheduler) Rollover() int {
	now := s.now().In(s.loc)
	cleared := s.rollover(now)
	s.logger.Info("daily rollover completed", zap.Time("at", now), zap.Int("cleared", cleared))
	return cleared
}

// Start launches the cron loop. Calling it twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started", zap.String("spec", s.spec), zap.String("location", s.loc.String()))
}

// Stop halts the cron loop and waits for a running job, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the next planned rollover. It is zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
