package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/trucogame-go/internal/dependencies/clock"
)

// Scheduler runs keyed one-shot callbacks. Scheduling a key that is already
// armed replaces the earlier callback.
type Scheduler struct {
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.Mutex
	timers  map[string]*entry
	seq     uint64
	stopped bool
}

type entry struct {
	timer clock.Timer
	seq   uint64
}

// New creates a new Scheduler
func New(clk clock.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		clock:  clk,
		logger: logger.With(slog.String("component", "scheduler")),
		timers: make(map[string]*entry),
	}
}

// Schedule arms f to run once d has elapsed
func (s *Scheduler) Schedule(key string, d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if existing, ok := s.timers[key]; ok {
		existing.timer.Stop()
	}

	s.seq++
	e := &entry{seq: s.seq}
	e.timer = s.clock.AfterFunc(max(d, 0), func() {
		s.mu.Lock()
		current, ok := s.timers[key]
		if !ok || current.seq != e.seq {
			s.mu.Unlock()
			return
		}
		delete(s.timers, key)
		s.mu.Unlock()

		f()
	})
	s.timers[key] = e
}

// Cancel disarms key, reporting whether a callback was pending
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.timers[key]
	if !ok {
		return false
	}
	delete(s.timers, key)
	return e.timer.Stop()
}

// Pending reports whether key is armed
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}

// Stop cancels every timer. Later calls to Schedule are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.timers {
		e.timer.Stop()
		delete(s.timers, key)
	}
	s.stopped = true
	s.logger.Info("scheduler stopped")
}
