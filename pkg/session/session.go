// Package session wires the storage, scheduling, and sync layers into one
// mounted instance of the todo feature. A Session owns the in-memory state of
// every visible list and routes each mutation to the right persistence home:
// the course tab's settings, the semester settings, or the per-course cache
// plus the remote sync queue.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/coursedeck/todo/pkg/list"
	"github.com/coursedeck/todo/pkg/queue"
	"github.com/coursedeck/todo/pkg/remote"
	"github.com/coursedeck/todo/pkg/sched"
	"github.com/coursedeck/todo/pkg/store"
	"github.com/coursedeck/todo/pkg/todo"
)

var (
	// ErrListNotFound is returned for operations against an unknown list id.
	ErrListNotFound = errors.New("session: list not found")
	// ErrNotEditable is returned when renaming or deleting a list whose name
	// and existence are owned elsewhere, i.e. any course-bound list.
	ErrNotEditable = errors.New("session: list is not editable")
	// ErrUnsupported is returned for operations that need a semester context.
	ErrUnsupported = errors.New("session: not available in this mode")
)

// Config describes where a Session is mounted and what it talks to.
type Config struct {
	Mode list.Mode

	// Course mode: the course this tab belongs to and the tab whose settings
	// hold the list.
	CourseID   string
	CourseName string
	TabID      string

	// Semester mode: the semester whose courses and custom lists are shown.
	SemesterID string

	Store store.Persistence
	API   remote.API // nil disables remote sync

	// Grace overrides the completion auto-move delay (for testing).
	Grace time.Duration
	// Debounce overrides the remote sync debounce (for testing).
	Debounce time.Duration

	// Warn receives background failures. Defaults to stderr.
	Warn func(scope string, err error)
}

// Session is one mounted instance of the feature. All exported methods are
// safe for concurrent use.
type Session struct {
	mode       list.Mode
	courseID   string
	courseName string
	tabID      string
	semesterID string

	persist store.Persistence
	timers  *sched.Scheduler
	sync    *queue.Sync
	loader  *list.Loader
	warn    func(scope string, err error)

	cancel context.CancelFunc

	mu sync.Mutex
	// Course mode: the tab settings blob, whose courseList key is the list.
	tabSettings *todo.Settings
	// Semester mode: the semester settings blob plus the per-course cache.
	semSettings *todo.Settings
	states      map[string]list.CourseState
	selected    string
}

// Open loads persisted state, connects the sync queue, and in semester mode
// refreshes the course set from the backend. The returned Session must be
// closed.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Store == nil {
		return nil, errors.New("session: store is required")
	}
	grace := cfg.Grace
	if grace <= 0 {
		grace = sched.DefaultGrace
	}

	bg, cancel := context.WithCancel(context.Background())
	s := &Session{
		mode:       cfg.Mode,
		courseID:   cfg.CourseID,
		courseName: cfg.CourseName,
		tabID:      cfg.TabID,
		semesterID: cfg.SemesterID,
		persist:    cfg.Store,
		timers:     sched.NewWithGrace(grace),
		warn:       cfg.Warn,
		cancel:     cancel,
		states:     make(map[string]list.CourseState),
	}
	if s.warn == nil {
		s.warn = func(scope string, err error) {
			fmt.Fprintf(os.Stderr, "session: %s: %v\n", scope, err)
		}
	}

	if cfg.API != nil {
		opts := []queue.Option{}
		if cfg.Debounce > 0 {
			opts = append(opts, queue.WithDebounce(cfg.Debounce))
		}
		s.sync = queue.New(bg, cfg.API, opts...)
		s.sync.Warn = func(courseID string, err error) {
			s.warn("sync "+courseID, err)
		}
		s.sync.Commit = s.commitBaseline
		s.loader = list.NewLoader(cfg.API)
		s.loader.Warn = func(courseID string, err error) {
			s.warn("load "+courseID, err)
		}
	}

	switch cfg.Mode {
	case list.ModeCourse:
		if cfg.CourseID == "" || cfg.TabID == "" {
			cancel()
			return nil, errors.New("session: course mode needs a course and tab id")
		}
		settings, err := cfg.Store.TabSettings(cfg.TabID)
		if err != nil {
			cancel()
			return nil, err
		}
		s.tabSettings = settings
		// The list carries the course's name. A failed fetch keeps the
		// caller-supplied name, or the fallback when there is none.
		if cfg.API != nil {
			if course, err := cfg.API.GetCourse(ctx, cfg.CourseID); err != nil {
				s.warn("course "+cfg.CourseID, err)
			} else if course.Name != "" {
				s.courseName = course.Name
			}
		}
		if s.sync != nil {
			base, err := settings.Marshal()
			if err == nil {
				s.sync.Seed(cfg.CourseID, cfg.TabID, string(base))
			}
		}

	case list.ModeSemester:
		if cfg.SemesterID == "" {
			cancel()
			return nil, errors.New("session: semester mode needs a semester id")
		}
		settings, err := cfg.Store.SemesterSettings(cfg.SemesterID)
		if err != nil {
			cancel()
			return nil, err
		}
		s.semSettings = settings

		cached, err := cfg.Store.CourseStates(ctx, cfg.SemesterID)
		if err != nil {
			cancel()
			return nil, err
		}
		s.states = cached
		s.seedSync()

		if s.loader != nil {
			if err := s.Refresh(ctx); err != nil && !errors.Is(err, list.ErrSuperseded) {
				// A failed refresh degrades to the cache; the session still
				// opens.
				s.warn("refresh", err)
			}
		}

	case list.ModeUnsupported:
		// No lists and no persistence; all operations are rejected.

	default:
		cancel()
		return nil, fmt.Errorf("session: unknown mode %q", cfg.Mode)
	}

	s.mu.Lock()
	s.selected = list.RepairSelection("", s.buildLocked())
	s.mu.Unlock()
	return s, nil
}

// Close cancels pending auto-moves, flushes unsent course updates, and stops
// background work.
func (s *Session) Close() {
	s.timers.CancelAll()
	if s.sync != nil {
		s.sync.FlushAll()
		s.sync.Close()
	}
	s.cancel()
}

// Refresh reloads the semester's course set from the backend, merging the
// cached tab ids and storage into courses the fetch could not reach. Stale
// overlapping refreshes return list.ErrSuperseded and change nothing.
func (s *Session) Refresh(ctx context.Context) error {
	if s.mode != list.ModeSemester || s.loader == nil {
		return ErrUnsupported
	}

	s.mu.Lock()
	cached := make(map[string]list.CourseState, len(s.states))
	for id, st := range s.states {
		cached[id] = st
	}
	s.mu.Unlock()

	states, err := s.loader.LoadSemester(ctx, s.semesterID, cached)
	if err != nil {
		return err
	}

	s.mu.Lock()
	fresh := make(map[string]list.CourseState, len(states))
	for _, st := range states {
		fresh[st.CourseID] = st
	}
	// Courses gone from the semester lose their cache and timers.
	for id := range s.states {
		if _, ok := fresh[id]; !ok {
			s.timers.CancelList(list.CourseListID(id))
			if err := s.persist.DeleteCourseState(s.semesterID, id); err != nil {
				s.warn("prune "+id, err)
			}
		}
	}
	s.states = fresh
	for _, st := range states {
		if err := s.persist.SaveCourseState(s.semesterID, st); err != nil {
			s.warn("cache "+st.CourseID, err)
		}
	}
	s.seedSync()
	s.selected = list.RepairSelection(s.selected, s.buildLocked())
	s.mu.Unlock()
	return nil
}

// Lists returns the visible lists in display order.
func (s *Session) Lists() []list.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildLocked()
}

// Selected returns the active list id, or "" when no lists exist.
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Select switches the active list, cancelling auto-moves pending in the
// previous one. Unknown ids fall back to the first list.
func (s *Session) Select(listID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.selected
	s.selected = list.RepairSelection(listID, s.buildLocked())
	if prev != "" && prev != s.selected {
		s.timers.CancelList(prev)
	}
	return s.selected
}

// AutoMove reports whether completed tasks move to the Completed section
// after the grace delay.
func (s *Session) AutoMove() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settingsLocked().AutoMove()
}

// SetAutoMove toggles the completed-task behavior. Turning it off cancels
// every pending move; tasks already parked stay where they are.
func (s *Session) SetAutoMove(enabled bool) error {
	s.mu.Lock()
	settings := s.settingsLocked()
	settings.SetAutoMove(enabled)
	err := s.saveSettingsLocked(settings)
	s.mu.Unlock()
	if !enabled {
		s.timers.CancelAll()
	}
	return err
}

// settingsLocked returns the behavior-owning settings blob for this mode.
func (s *Session) settingsLocked() *todo.Settings {
	if s.mode == list.ModeCourse {
		if s.tabSettings == nil {
			s.tabSettings = todo.ParseSettings(nil)
		}
		return s.tabSettings
	}
	if s.semSettings == nil {
		s.semSettings = todo.ParseSettings(nil)
	}
	return s.semSettings
}

func (s *Session) saveSettingsLocked(settings *todo.Settings) error {
	if s.mode == list.ModeCourse {
		if err := s.persist.SaveTabSettings(s.tabID, settings); err != nil {
			return err
		}
		s.pushCourseLocked(s.courseID)
		return nil
	}
	if s.mode == list.ModeSemester {
		return s.persist.SaveSemesterSettings(s.semesterID, settings)
	}
	return ErrUnsupported
}

func (s *Session) buildLocked() []list.List {
	switch s.mode {
	case list.ModeCourse:
		var storage todo.ListStorage
		if s.tabSettings != nil && s.tabSettings.CourseList != nil {
			storage = *s.tabSettings.CourseList
		}
		return list.Build(list.ModeCourse, list.Input{
			CourseID:      s.courseID,
			CourseName:    s.courseName,
			CourseStorage: storage,
		})
	case list.ModeSemester:
		states := make([]list.CourseState, 0, len(s.states))
		for _, st := range s.states {
			states = append(states, st)
		}
		var custom []todo.CustomList
		if s.semSettings != nil {
			custom = s.semSettings.CustomLists
		}
		return list.Build(list.ModeSemester, list.Input{
			States:      states,
			CustomLists: custom,
		})
	default:
		return nil
	}
}

func (s *Session) seedSync() {
	if s.sync == nil {
		return
	}
	for _, st := range s.states {
		if st.TabID != "" {
			s.sync.Seed(st.CourseID, st.TabID, st.BaseSettings)
		}
	}
}

// commitBaseline persists the remote baseline the sync queue adopted after a
// successful flush.
func (s *Session) commitBaseline(courseID, tabID, baseSettings string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == list.ModeCourse {
		return // the tab id is fixed and the settings blob is already ours
	}
	st, ok := s.states[courseID]
	if !ok {
		return
	}
	st.TabID = tabID
	st.BaseSettings = baseSettings
	s.states[courseID] = st
	if err := s.persist.SaveCourseState(s.semesterID, st); err != nil {
		s.warn("cache "+courseID, err)
	}
}
