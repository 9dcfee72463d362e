// Package sched arms the delayed move of completed tasks into the Completed
// section: one cancelable single-shot timer per (list, task) pair.
package sched

import (
	"sync"
	"time"
)

// DefaultGrace is how long a freshly completed task stays in place before it
// is relocated, giving the user a window to undo.
const DefaultGrace = 1500 * time.Millisecond

type key struct {
	listID string
	taskID string
}

// Scheduler tracks pending delayed moves. The fire callback is expected to
// re-read current storage and re-validate the task's state; the snapshot
// taken at schedule time must not be trusted.
type Scheduler struct {
	grace time.Duration

	mu     sync.Mutex
	timers map[key]*time.Timer
}

// New creates a Scheduler with the default grace period.
func New() *Scheduler {
	return NewWithGrace(DefaultGrace)
}

// NewWithGrace creates a Scheduler with the given grace period.
func NewWithGrace(grace time.Duration) *Scheduler {
	return &Scheduler{
		grace:  grace,
		timers: make(map[key]*time.Timer),
	}
}

// Schedule arms the delayed move for the given pair, replacing any timer
// already pending for it. fire runs once after the grace period unless the
// pair is canceled first.
func (s *Scheduler) Schedule(listID, taskID string, fire func()) {
	k := key{listID: listID, taskID: taskID}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.timers[k]; ok {
		prev.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(s.grace, func() {
		s.mu.Lock()
		// A canceled or replaced timer may still get here; only the timer
		// currently on record is allowed to fire.
		cur, ok := s.timers[k]
		if !ok || cur != t {
			s.mu.Unlock()
			return
		}
		delete(s.timers, k)
		s.mu.Unlock()
		fire()
	})
	s.timers[k] = t
}

// Cancel drops the pending move for the given pair, if any.
func (s *Scheduler) Cancel(listID, taskID string) {
	k := key{listID: listID, taskID: taskID}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[k]; ok {
		t.Stop()
		delete(s.timers, k)
	}
}

// CancelList drops every pending move belonging to the given list; used when
// the user switches away from a list.
func (s *Scheduler) CancelList(listID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, t := range s.timers {
		if k.listID == listID {
			t.Stop()
			delete(s.timers, k)
		}
	}
}

// CancelAll drops every pending move; used when auto-move is disabled
// globally or the feature is torn down.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, t := range s.timers {
		t.Stop()
		delete(s.timers, k)
	}
}

// Pending reports whether a move is armed for the given pair.
func (s *Scheduler) Pending(listID, taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key{listID: listID, taskID: taskID}]
	return ok
}
