package session

import (
	"strings"

	"github.com/coursedeck/todo/pkg/list"
	"github.com/coursedeck/todo/pkg/todo"
)

// storageLocked resolves a list id to its current storage.
func (s *Session) storageLocked(listID string) (todo.ListStorage, bool) {
	switch s.mode {
	case list.ModeCourse:
		if listID != list.CourseListID(s.courseID) {
			return todo.ListStorage{}, false
		}
		if s.tabSettings != nil && s.tabSettings.CourseList != nil {
			return *s.tabSettings.CourseList, true
		}
		return todo.ListStorage{}, true
	case list.ModeSemester:
		if courseID, ok := list.CourseIDFrom(listID); ok {
			st, found := s.states[courseID]
			if !found {
				return todo.ListStorage{}, false
			}
			return st.Storage(), true
		}
		if s.semSettings == nil {
			return todo.ListStorage{}, false
		}
		for _, c := range s.semSettings.CustomLists {
			if c.ID == listID {
				return c.Storage(), true
			}
		}
	}
	return todo.ListStorage{}, false
}

// putStorageLocked persists new storage for a list through its routing home
// and queues the remote push where one exists.
func (s *Session) putStorageLocked(listID string, storage todo.ListStorage) error {
	switch s.mode {
	case list.ModeCourse:
		if listID != list.CourseListID(s.courseID) {
			return ErrListNotFound
		}
		settings := s.settingsLocked()
		settings.CourseList = &storage
		return s.saveSettingsLocked(settings)

	case list.ModeSemester:
		if courseID, ok := list.CourseIDFrom(listID); ok {
			st, found := s.states[courseID]
			if !found {
				return ErrListNotFound
			}
			st.Sections = storage.Sections
			st.Tasks = storage.Tasks
			s.states[courseID] = st
			if err := s.persist.SaveCourseState(s.semesterID, st); err != nil {
				return err
			}
			s.pushCourseLocked(courseID)
			return nil
		}
		settings := s.settingsLocked()
		if !settings.SetCustomListStorage(listID, storage) {
			return ErrListNotFound
		}
		return s.persist.SaveSemesterSettings(s.semesterID, settings)
	}
	return ErrUnsupported
}

// pushCourseLocked hands the course's latest storage to the sync queue.
func (s *Session) pushCourseLocked(courseID string) {
	if s.sync == nil {
		return
	}
	if s.mode == list.ModeCourse {
		var storage todo.ListStorage
		if s.tabSettings != nil && s.tabSettings.CourseList != nil {
			storage = *s.tabSettings.CourseList
		}
		s.sync.Enqueue(courseID, storage)
		return
	}
	if st, ok := s.states[courseID]; ok {
		s.sync.Enqueue(courseID, st.Storage())
	}
}

// apply runs a storage transform against a list and persists the result.
func (s *Session) apply(listID string, fn func(todo.ListStorage) (todo.ListStorage, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.storageLocked(listID)
	if !ok {
		return ErrListNotFound
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	return s.putStorageLocked(listID, next)
}

// AddSection appends a fresh "Section N" section to the list.
func (s *Session) AddSection(listID string) error {
	return s.apply(listID, func(cur todo.ListStorage) (todo.ListStorage, error) {
		return todo.AddSection(cur), nil
	})
}

// RenameSection renames a user section. Renames of the Completed section or
// unknown sections are silently ignored.
func (s *Session) RenameSection(listID, sectionID, name string) error {
	return s.apply(listID, func(cur todo.ListStorage) (todo.ListStorage, error) {
		return todo.RenameSection(cur, sectionID, name), nil
	})
}

// DeleteSection removes a user section; its tasks fall back to the first
// remaining section, except completed tasks which stay parked when auto-move
// is on.
func (s *Session) DeleteSection(listID, sectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.storageLocked(listID)
	if !ok {
		return ErrListNotFound
	}
	next := todo.DeleteSection(cur, sectionID, s.settingsLocked().AutoMove())
	return s.putStorageLocked(listID, next)
}

// CreateTask adds a task to the list.
func (s *Session) CreateTask(listID string, f todo.TaskFields) error {
	return s.apply(listID, func(cur todo.ListStorage) (todo.ListStorage, error) {
		return todo.CreateTask(cur, f)
	})
}

// EditTask updates a task's fields and cancels any pending auto-move for it.
func (s *Session) EditTask(listID, taskID string, f todo.TaskFields) error {
	s.timers.Cancel(listID, taskID)
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.storageLocked(listID)
	if !ok {
		return ErrListNotFound
	}
	next, err := todo.EditTask(cur, taskID, f, s.settingsLocked().AutoMove())
	if err != nil {
		return err
	}
	return s.putStorageLocked(listID, next)
}

// CompleteTask marks a task done in place. When auto-move is on, the move to
// the Completed section happens after the grace delay so a quick undo leaves
// the task where it was.
func (s *Session) CompleteTask(listID, taskID string) error {
	s.mu.Lock()
	cur, ok := s.storageLocked(listID)
	if !ok {
		s.mu.Unlock()
		return ErrListNotFound
	}
	if _, found := cur.Task(taskID); !found {
		s.mu.Unlock()
		return todo.ErrTaskNotFound
	}
	err := s.putStorageLocked(listID, todo.CompleteTask(cur, taskID))
	auto := s.settingsLocked().AutoMove()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if auto {
		s.timers.Schedule(listID, taskID, func() {
			s.fireMove(listID, taskID)
		})
	}
	return nil
}

// fireMove runs when a completion grace timer expires. The task is re-read
// at fire time; a task that was restored, deleted, or already moved in the
// meantime is left alone.
func (s *Session) fireMove(listID, taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.storageLocked(listID)
	if !ok {
		return
	}
	next, moved := todo.MoveToCompleted(cur, taskID)
	if !moved {
		return
	}
	if err := s.putStorageLocked(listID, next); err != nil {
		s.warn("auto-move "+taskID, err)
	}
}

// RestoreTask un-completes a task, returning it to its origin section, and
// cancels any pending auto-move.
func (s *Session) RestoreTask(listID, taskID string) error {
	s.timers.Cancel(listID, taskID)
	return s.apply(listID, func(cur todo.ListStorage) (todo.ListStorage, error) {
		return todo.RestoreTask(cur, taskID), nil
	})
}

// DeleteTask removes a task and cancels any pending auto-move.
func (s *Session) DeleteTask(listID, taskID string) error {
	s.timers.Cancel(listID, taskID)
	return s.apply(listID, func(cur todo.ListStorage) (todo.ListStorage, error) {
		return todo.DeleteTask(cur, taskID), nil
	})
}

// Reorder applies a drag drop: the task moves into targetSectionID ahead of
// beforeTaskID, or to the section's end when beforeTaskID is empty.
func (s *Session) Reorder(listID, taskID, targetSectionID, beforeTaskID string) error {
	return s.apply(listID, func(cur todo.ListStorage) (todo.ListStorage, error) {
		return todo.Reorder(cur, taskID, targetSectionID, beforeTaskID), nil
	})
}

// AddList creates a semester custom list and returns its id.
func (s *Session) AddList(name string) (string, error) {
	if s.mode != list.ModeSemester {
		return "", ErrUnsupported
	}
	if strings.TrimSpace(name) == "" {
		return "", todo.ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := s.settingsLocked()
	cl := settings.AddCustomList(name)
	if err := s.persist.SaveSemesterSettings(s.semesterID, settings); err != nil {
		return "", err
	}
	if s.selected == "" {
		s.selected = cl.ID
	}
	return cl.ID, nil
}

// RenameList renames a custom list. Course lists carry their course's name
// and cannot be renamed here.
func (s *Session) RenameList(listID, name string) error {
	if s.mode != list.ModeSemester {
		return ErrUnsupported
	}
	if _, isCourse := list.CourseIDFrom(listID); isCourse {
		return ErrNotEditable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := s.settingsLocked()
	if !settings.RenameCustomList(listID, name) {
		return ErrListNotFound
	}
	return s.persist.SaveSemesterSettings(s.semesterID, settings)
}

// DeleteList removes a custom list along with its pending auto-moves, and
// repairs the selection when the active list goes away.
func (s *Session) DeleteList(listID string) error {
	if s.mode != list.ModeSemester {
		return ErrUnsupported
	}
	if _, isCourse := list.CourseIDFrom(listID); isCourse {
		return ErrNotEditable
	}
	s.timers.CancelList(listID)
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := s.settingsLocked()
	if !settings.DeleteCustomList(listID) {
		return ErrListNotFound
	}
	if err := s.persist.SaveSemesterSettings(s.semesterID, settings); err != nil {
		return err
	}
	s.selected = list.RepairSelection(s.selected, s.buildLocked())
	return nil
}

// FlushPending pushes all unsent course updates immediately, skipping the
// debounce. Useful right before teardown or when the window loses focus.
func (s *Session) FlushPending() {
	if s.sync != nil {
		s.sync.FlushAll()
	}
}
