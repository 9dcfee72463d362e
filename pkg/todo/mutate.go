package todo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrEmptyTitle is returned when a task is created or edited without a
	// non-empty title.
	ErrEmptyTitle = errors.New("todo: task title required")

	// ErrTaskNotFound is returned when an operation names an unknown task.
	ErrTaskNotFound = errors.New("todo: task not found")

	// ErrEmptyName is returned when a list is created without a non-empty
	// name.
	ErrEmptyName = errors.New("todo: list name required")
)

func newID() string {
	return uuid.New().String()
}

// TaskFields carries the caller-editable fields of a task.
type TaskFields struct {
	Title       string
	Description string
	SectionID   string
	DueDate     string
	DueTime     string
	Priority    Priority
}

// AddSection appends a new user section with an auto-generated unique name,
// placed after the existing user sections and before Completed.
func AddSection(s ListStorage) ListStorage {
	out := s.clone()

	taken := make(map[string]struct{})
	for _, sec := range out.UserSections() {
		taken[strings.ToLower(strings.TrimSpace(sec.Name))] = struct{}{}
	}
	name := ""
	for n := len(taken) + 1; ; n++ {
		name = fmt.Sprintf("Section %d", n)
		if _, clash := taken[strings.ToLower(name)]; !clash {
			break
		}
	}

	out.Sections = append(out.Sections, Section{
		ID:    newID(),
		Name:  name,
		Order: len(out.UserSections()),
	})
	return Normalize(out)
}

// RenameSection renames a user section. Renaming the Completed section, an
// unknown section, or renaming to a blank name is a no-op.
func RenameSection(s ListStorage, sectionID, name string) ListStorage {
	name = strings.TrimSpace(name)
	if sectionID == CompletedSectionID || name == "" || !s.isUserSection(sectionID) {
		return s
	}
	out := s.clone()
	for i := range out.Sections {
		if out.Sections[i].ID == sectionID {
			out.Sections[i].Name = name
		}
	}
	return Normalize(out)
}

// DeleteSection removes a user section and reassigns its tasks: completed
// tasks are parked in Completed when autoMove is on, everything else moves to
// the first remaining user section, or the unsectioned bucket when none
// remain. Deleting the Completed section is refused.
func DeleteSection(s ListStorage, sectionID string, autoMove bool) ListStorage {
	if sectionID == CompletedSectionID || !s.isUserSection(sectionID) {
		return s
	}

	out := s.clone()
	sections := make([]Section, 0, len(out.Sections))
	for _, sec := range out.Sections {
		if sec.ID != sectionID {
			sections = append(sections, sec)
		}
	}
	out.Sections = sections

	fallback := out.fallbackSectionID()
	now := Now()
	for i := range out.Tasks {
		t := &out.Tasks[i]
		if t.SectionID != sectionID {
			continue
		}
		if t.Completed && autoMove {
			t.SectionID = CompletedSectionID
			t.OriginSectionID = fallback
		} else {
			t.SectionID = fallback
		}
		t.Updated = now
	}
	return Normalize(out)
}

// CreateTask appends a new task. The section falls back to the unsectioned
// bucket when the chosen id is not a valid user section.
func CreateTask(s ListStorage, f TaskFields) (ListStorage, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return s, ErrEmptyTitle
	}

	sectionID := f.SectionID
	if !s.isUserSection(sectionID) {
		sectionID = UnsectionedID
	}

	now := Now()
	out := s.clone()
	out.Tasks = append(out.Tasks, Task{
		ID:          newID(),
		Title:       title,
		Description: f.Description,
		SectionID:   sectionID,
		DueDate:     f.DueDate,
		DueTime:     f.DueTime,
		Priority:    ParsePriority(string(f.Priority)),
		Order:       len(out.Tasks),
		Created:     now,
		Updated:     now,
	})
	return Normalize(out), nil
}

// EditTask updates a task's fields. When the task is currently completed and
// autoMove is on, it stays parked in Completed and the chosen section becomes
// its restore target instead.
func EditTask(s ListStorage, taskID string, f TaskFields, autoMove bool) (ListStorage, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return s, ErrEmptyTitle
	}
	if _, ok := s.Task(taskID); !ok {
		return s, ErrTaskNotFound
	}

	sectionID := f.SectionID
	if !s.isUserSection(sectionID) {
		sectionID = UnsectionedID
	}

	out := s.clone()
	for i := range out.Tasks {
		t := &out.Tasks[i]
		if t.ID != taskID {
			continue
		}
		t.Title = title
		t.Description = f.Description
		t.DueDate = f.DueDate
		t.DueTime = f.DueTime
		t.Priority = ParsePriority(string(f.Priority))
		if t.Completed && autoMove {
			t.SectionID = CompletedSectionID
			t.OriginSectionID = sectionID
		} else {
			t.SectionID = sectionID
		}
		t.Updated = Now()
	}
	return Normalize(out), nil
}

// CompleteTask marks a task completed and captures its origin section if not
// already set. It does not relocate the task; callers hand the delayed move to
// the scheduler.
func CompleteTask(s ListStorage, taskID string) ListStorage {
	out := s.clone()
	for i := range out.Tasks {
		t := &out.Tasks[i]
		if t.ID != taskID {
			continue
		}
		t.Completed = true
		if t.OriginSectionID == "" && s.isUserSection(t.SectionID) {
			t.OriginSectionID = t.SectionID
		}
		t.Updated = Now()
	}
	return Normalize(out)
}

// MoveToCompleted relocates a completed task into the Completed section. It
// reports false without changing storage when the task is gone, no longer
// completed, or already there — the fire-time guard for the scheduler.
func MoveToCompleted(s ListStorage, taskID string) (ListStorage, bool) {
	t, ok := s.Task(taskID)
	if !ok || !t.Completed || t.SectionID == CompletedSectionID {
		return s, false
	}

	out := s.clone()
	for i := range out.Tasks {
		tk := &out.Tasks[i]
		if tk.ID != taskID {
			continue
		}
		if tk.OriginSectionID == "" && s.isUserSection(tk.SectionID) {
			tk.OriginSectionID = tk.SectionID
		}
		tk.SectionID = CompletedSectionID
		tk.Updated = Now()
	}
	return Normalize(out), true
}

// RestoreTask un-completes a task, returning it to its origin section when
// that still exists, else the first user section, else the unsectioned
// bucket. The origin is cleared either way.
func RestoreTask(s ListStorage, taskID string) ListStorage {
	out := s.clone()
	for i := range out.Tasks {
		t := &out.Tasks[i]
		if t.ID != taskID {
			continue
		}
		target := t.OriginSectionID
		if !s.isUserSection(target) {
			target = s.fallbackSectionID()
		}
		t.Completed = false
		t.SectionID = target
		t.OriginSectionID = ""
		t.Updated = Now()
	}
	return Normalize(out)
}

// DeleteTask removes a task.
func DeleteTask(s ListStorage, taskID string) ListStorage {
	out := s.clone()
	tasks := make([]Task, 0, len(out.Tasks))
	for _, t := range out.Tasks {
		if t.ID != taskID {
			tasks = append(tasks, t)
		}
	}
	out.Tasks = tasks
	return Normalize(out)
}
