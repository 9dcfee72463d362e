// Package remotetest provides an in-memory backend fake for tests.
package remotetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coursedeck/todo/pkg/remote"
)

// ErrNotFound is returned for unknown record ids.
var ErrNotFound = errors.New("remotetest: not found")

// Fake is an in-memory implementation of remote.API.
type Fake struct {
	mu        sync.Mutex
	tabs      map[string]remote.Tab
	courses   map[string]remote.Course
	semesters map[string]remote.Semester
	nextTab   int

	// Error injection.
	CreateTabErr   error
	UpdateTabErr   error
	GetCourseErr   error
	GetSemesterErr error

	// OnUpdate, when set, is invoked without the lock held before an update
	// is applied; tests use it to hold a flush in flight.
	OnUpdate func(tabID string)

	// GetSemesterHook, when set, is invoked without the lock held before a
	// semester fetch is served; tests use it to hold a load in flight.
	GetSemesterHook func()

	createCalls int
	updateCalls int
}

// NewFake creates an empty fake backend.
func NewFake() *Fake {
	return &Fake{
		tabs:      make(map[string]remote.Tab),
		courses:   make(map[string]remote.Course),
		semesters: make(map[string]remote.Semester),
	}
}

// AddSemester registers a semester with the given courses.
func (f *Fake) AddSemester(id, name string, courses ...remote.Course) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range courses {
		courses[i].SemesterID = id
		f.courses[courses[i].ID] = courses[i]
	}
	f.semesters[id] = remote.Semester{ID: id, Name: name, Courses: courses}
}

// CreateTabForCourse implements remote.API.
func (f *Fake) CreateTabForCourse(_ context.Context, courseID string, create remote.TabCreate) (remote.Tab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.CreateTabErr != nil {
		return remote.Tab{}, f.CreateTabErr
	}
	if _, ok := f.courses[courseID]; !ok {
		return remote.Tab{}, fmt.Errorf("remotetest: course %s: %w", courseID, ErrNotFound)
	}
	f.nextTab++
	tab := remote.Tab{
		ID:          fmt.Sprintf("tab-%d", f.nextTab),
		TabType:     create.TabType,
		Settings:    create.Settings,
		OrderIndex:  f.nextTab,
		IsRemovable: true,
		IsDraggable: true,
		CourseID:    courseID,
	}
	f.tabs[tab.ID] = tab
	return tab, nil
}

// UpdateTab implements remote.API.
func (f *Fake) UpdateTab(_ context.Context, tabID string, settings string) (remote.Tab, error) {
	f.mu.Lock()
	hook := f.OnUpdate
	f.mu.Unlock()
	if hook != nil {
		hook(tabID)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.UpdateTabErr != nil {
		return remote.Tab{}, f.UpdateTabErr
	}
	tab, ok := f.tabs[tabID]
	if !ok {
		return remote.Tab{}, fmt.Errorf("remotetest: tab %s: %w", tabID, ErrNotFound)
	}
	tab.Settings = settings
	f.tabs[tabID] = tab
	return tab, nil
}

// GetCourse implements remote.API.
func (f *Fake) GetCourse(_ context.Context, courseID string) (remote.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetCourseErr != nil {
		return remote.Course{}, f.GetCourseErr
	}
	course, ok := f.courses[courseID]
	if !ok {
		return remote.Course{}, fmt.Errorf("remotetest: course %s: %w", courseID, ErrNotFound)
	}
	return course, nil
}

// GetSemester implements remote.API.
func (f *Fake) GetSemester(_ context.Context, semesterID string) (remote.Semester, error) {
	f.mu.Lock()
	hook := f.GetSemesterHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetSemesterErr != nil {
		return remote.Semester{}, f.GetSemesterErr
	}
	semester, ok := f.semesters[semesterID]
	if !ok {
		return remote.Semester{}, fmt.Errorf("remotetest: semester %s: %w", semesterID, ErrNotFound)
	}
	return semester, nil
}

// Tab returns the stored tab record.
func (f *Fake) Tab(tabID string) (remote.Tab, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tab, ok := f.tabs[tabID]
	return tab, ok
}

// CourseTab returns the tab attached to a course, if any.
func (f *Fake) CourseTab(courseID string) (remote.Tab, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tab := range f.tabs {
		if tab.CourseID == courseID {
			return tab, true
		}
	}
	return remote.Tab{}, false
}

// CreateCalls reports how many tab creations were attempted.
func (f *Fake) CreateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls
}

// UpdateCalls reports how many tab updates were attempted.
func (f *Fake) UpdateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updateCalls
}
