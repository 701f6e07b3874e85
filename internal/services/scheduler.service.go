package services

import (
	"log"
	"sync"
	"time"

	"memwatch/internal/models"
)

// Scheduler drives periodic automatic captures. At most one timer is
// active at a time; changing the interval cancels the previous timer
// before optionally arming a new one. "No active timer" is represented
// by a nil cancel channel.
type Scheduler struct {
	mu       sync.Mutex
	interval models.ScheduleInterval
	cancel   chan struct{}
	store    *SnapshotStore
	gate     func() bool // external "should the monitor run at all" flag
}

var scheduler *Scheduler

// InitScheduler creates the package-level scheduler instance.
func InitScheduler(store *SnapshotStore, gate func() bool) *Scheduler {
	scheduler = NewScheduler(store, gate)
	return scheduler
}

// GetScheduler returns the initialized scheduler.
func GetScheduler() *Scheduler {
	return scheduler
}

// NewScheduler builds a scheduler for a store. gate is consulted before
// arming a timer; when it reports false no schedule runs regardless of
// the configured interval.
func NewScheduler(store *SnapshotStore, gate func() bool) *Scheduler {
	if gate == nil {
		gate = func() bool { return true }
	}
	return &Scheduler{
		interval: models.IntervalOff,
		store:    store,
		gate:     gate,
	}
}

// SetInterval cancels any running timer, records the new interval and,
// unless the interval is off or the gate is closed, performs one
// immediate capture and then repeats at the fixed cadence.
func (s *Scheduler) SetInterval(interval models.ScheduleInterval) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.interval = interval

	d, ok := interval.Duration()
	if !ok {
		log.Printf("[SCHEDULER] Automatic capture disabled")
		return
	}
	if !s.gate() {
		log.Printf("[SCHEDULER] Interval %s configured but monitor is disabled; not arming", interval)
		return
	}

	cancel := make(chan struct{})
	s.cancel = cancel
	go s.run(d, cancel)
	log.Printf("[SCHEDULER] Automatic capture every %s", interval)
}

// Interval returns the configured interval.
func (s *Scheduler) Interval() models.ScheduleInterval {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Active reports whether a timer is currently armed.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Stop cancels any running timer without changing the configured
// interval.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.cancel != nil {
		close(s.cancel)
		s.cancel = nil
	}
}

func (s *Scheduler) run(d time.Duration, cancel chan struct{}) {
	s.capture()

	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			s.capture()
		}
	}
}

func (s *Scheduler) capture() {
	if _, err := s.store.Capture(true); err != nil {
		log.Printf("[SCHEDULER] Automatic capture failed: %v", err)
	}
}
