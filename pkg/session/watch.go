package session

import (
	"context"

	"github.com/coursedeck/todo/pkg/list"
)

// WatchChanges follows the local store and reloads the session's state when
// another window writes to it. Each reload is signalled on the returned
// channel; signals are coalesced, not queued. The channel closes when ctx is
// cancelled.
func (s *Session) WatchChanges(ctx context.Context) (<-chan struct{}, error) {
	events, err := s.persist.Watch(ctx)
	if err != nil {
		return nil, err
	}

	changed := make(chan struct{}, 1)
	go func() {
		defer close(changed)
		for range events {
			if err := s.reload(ctx); err != nil {
				s.warn("reload", err)
				continue
			}
			select {
			case changed <- struct{}{}:
			default:
			}
		}
	}()
	return changed, nil
}

// reload replaces the in-memory state with whatever is on disk now.
func (s *Session) reload(ctx context.Context) error {
	switch s.mode {
	case list.ModeCourse:
		settings, err := s.persist.TabSettings(s.tabID)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.tabSettings = settings
		s.mu.Unlock()
		return nil

	case list.ModeSemester:
		settings, err := s.persist.SemesterSettings(s.semesterID)
		if err != nil {
			return err
		}
		states, err := s.persist.CourseStates(ctx, s.semesterID)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.semSettings = settings
		s.states = states
		s.seedSync()
		s.selected = list.RepairSelection(s.selected, s.buildLocked())
		s.mu.Unlock()
		return nil
	}
	return nil
}
