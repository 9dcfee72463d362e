// Package queue pushes locally mutated course-list storage to the remote tab
// records: per-course debounce, latest-wins coalescing, and at most one
// outbound request per course at any time.
package queue

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/coursedeck/todo/pkg/remote"
	"github.com/coursedeck/todo/pkg/todo"
)

// DefaultDebounce is how long after the last local mutation a flush waits, so
// bursts of edits collapse into one outbound write.
const DefaultDebounce = 350 * time.Millisecond

type courseSync struct {
	tabID        string
	baseSettings string
}

// Sync is the per-course coalescing queue. Local mutations overwrite the
// course's pending slot with the full latest desired storage; intermediate
// states are never sent. Flushes for one course are strictly serialized,
// different courses flush independently.
type Sync struct {
	api      remote.API
	ctx      context.Context
	debounce time.Duration

	// Warn receives flush failures. Failures do not retry on their own; the
	// course keeps its last synced baseline until another mutation re-arms
	// the debounce. Defaults to stderr.
	Warn func(courseID string, err error)

	// Commit receives each newly adopted remote baseline so callers can
	// persist it. Called without internal locks held.
	Commit func(courseID, tabID, baseSettings string)

	mu       sync.Mutex
	pending  map[string]todo.ListStorage
	states   map[string]courseSync
	inflight map[string]bool
	timers   map[string]*time.Timer
	closed   bool
}

// Option configures a Sync.
type Option func(*Sync)

// WithDebounce overrides the debounce delay (for testing).
func WithDebounce(d time.Duration) Option {
	return func(q *Sync) { q.debounce = d }
}

// New creates a sync queue over the given backend. The context bounds all
// outbound requests.
func New(ctx context.Context, api remote.API, opts ...Option) *Sync {
	q := &Sync{
		api:      api,
		ctx:      ctx,
		debounce: DefaultDebounce,
		pending:  make(map[string]todo.ListStorage),
		states:   make(map[string]courseSync),
		inflight: make(map[string]bool),
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Seed records a course's known remote state, typically from the persisted
// cache, so the first flush updates instead of creating.
func (q *Sync) Seed(courseID, tabID, baseSettings string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.states[courseID] = courseSync{tabID: tabID, baseSettings: baseSettings}
}

// Enqueue replaces the course's pending storage with the latest desired state
// and (re)arms its debounce timer.
func (q *Sync) Enqueue(courseID string, storage todo.ListStorage) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.pending[courseID] = storage

	if t, ok := q.timers[courseID]; ok {
		t.Stop()
	}
	q.timers[courseID] = time.AfterFunc(q.debounce, func() {
		q.mu.Lock()
		delete(q.timers, courseID)
		closed := q.closed
		q.mu.Unlock()
		if !closed {
			q.flush(courseID)
		}
	})
}

// FlushNow skips the debounce delay and flushes the course synchronously. A
// flush already running for the course makes this a no-op; the running loop
// will pick the pending state up.
func (q *Sync) FlushNow(courseID string) {
	q.mu.Lock()
	if t, ok := q.timers[courseID]; ok {
		t.Stop()
		delete(q.timers, courseID)
	}
	closed := q.closed
	q.mu.Unlock()
	if !closed {
		q.flush(courseID)
	}
}

// FlushAll synchronously flushes every course with pending state.
func (q *Sync) FlushAll() {
	q.mu.Lock()
	ids := make([]string, 0, len(q.pending))
	for courseID := range q.pending {
		ids = append(ids, courseID)
	}
	q.mu.Unlock()
	for _, courseID := range ids {
		q.FlushNow(courseID)
	}
}

// Close cancels all debounce timers and rejects further mutations. Pending
// state is dropped; durability across teardown is out of scope.
func (q *Sync) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	for courseID, t := range q.timers {
		t.Stop()
		delete(q.timers, courseID)
	}
	q.pending = make(map[string]todo.ListStorage)
}

// flush drains the course's pending slot. The inflight flag guarantees at
// most one loop per course; everyone else leaves their state queued for the
// running loop to pick up.
func (q *Sync) flush(courseID string) {
	q.mu.Lock()
	if q.inflight[courseID] {
		q.mu.Unlock()
		return
	}
	q.inflight[courseID] = true

	for {
		storage, ok := q.pending[courseID]
		if !ok {
			break
		}
		delete(q.pending, courseID)
		state := q.states[courseID]
		q.mu.Unlock()

		if state.tabID == "" {
			q.create(courseID, storage)
		} else {
			q.update(courseID, state, storage)
		}

		q.mu.Lock()
	}

	delete(q.inflight, courseID)
	_, raced := q.pending[courseID]
	q.mu.Unlock()

	// A mutation that slipped in between the last pop and the flag reset
	// would otherwise sit until its debounce; pick it up here.
	if raced {
		q.flush(courseID)
	}
}

func (q *Sync) create(courseID string, storage todo.ListStorage) {
	blob, err := todo.MergeCourseList("", storage)
	if err != nil {
		q.warn(courseID, err)
		return
	}
	tab, err := q.api.CreateTabForCourse(q.ctx, courseID, remote.TabCreate{
		TabType:  remote.TabTypeTodo,
		Settings: blob,
	})
	if err != nil {
		q.warn(courseID, fmt.Errorf("queue: create tab for course %s: %w", courseID, err))
		return
	}
	q.adopt(courseID, tab)
}

func (q *Sync) update(courseID string, state courseSync, storage todo.ListStorage) {
	blob, err := todo.MergeCourseList(state.baseSettings, storage)
	if err != nil {
		q.warn(courseID, err)
		return
	}
	tab, err := q.api.UpdateTab(q.ctx, state.tabID, blob)
	if err != nil {
		q.warn(courseID, fmt.Errorf("queue: update tab %s: %w", state.tabID, err))
		return
	}
	q.adopt(courseID, tab)
}

func (q *Sync) adopt(courseID string, tab remote.Tab) {
	q.mu.Lock()
	q.states[courseID] = courseSync{tabID: tab.ID, baseSettings: tab.Settings}
	commit := q.Commit
	q.mu.Unlock()
	if commit != nil {
		commit(courseID, tab.ID, tab.Settings)
	}
}

func (q *Sync) warn(courseID string, err error) {
	if q.Warn != nil {
		q.Warn(courseID, err)
		return
	}
	fmt.Fprintf(os.Stderr, "queue: course %s: %v\n", courseID, err)
}
