package session

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically removes expired sessions from a Store.
type Sweeper struct {
	cron     *cron.Cron
	store    *Store
	logger   *slog.Logger
	onExpire func(id string)
}

// NewSweeper registers the sweep job on schedule (standard cron spec or
// descriptors such as "@every 1m"). onExpire may be nil.
func NewSweeper(store *Store, schedule string, logger *slog.Logger, onExpire func(id string)) (*Sweeper, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sweeper{
		cron:     cron.New(),
		store:    store,
		logger:   logger.With(slog.String("component", "session_sweeper")),
		onExpire: onExpire,
	}
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("register sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start starts the schedule
func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info("session sweeper started")
}

// Stop stops the schedule and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("session sweeper stopped")
}

// RunOnce sweeps expired sessions now
func (s *Sweeper) RunOnce() {
	removed := s.store.Sweep(s.store.now())
	for _, id := range removed {
		if s.onExpire != nil {
			s.onExpire(id)
		}
	}
	if len(removed) > 0 {
		s.logger.Info("expired sessions removed",
			slog.Int("count", len(removed)),
			slog.Int("remaining", s.store.Len()))
	}
}
