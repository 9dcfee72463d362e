// Package todo implements the task-list storage engine: the section/task
// model, normalization of arbitrary persisted data into a well-formed shape,
// pure mutation operations, drag-reorder placement, and the versioned
// settings codec the storage travels in.
package todo

import "strings"

const (
	// CompletedSectionID is the reserved id of the system-managed section
	// holding completed tasks. It is synthesized fresh on every normalization
	// pass and never persisted, edited, or deleted as user data.
	CompletedSectionID = "__completed__"

	// CompletedSectionName is the display name of the synthesized section.
	CompletedSectionName = "Completed"

	// UnsectionedID is the empty pseudo-section id for tasks that have no
	// assigned user section. It never appears in ListStorage.Sections.
	UnsectionedID = ""

	// UnsectionedVirtualID is the id the view layer uses for the unsectioned
	// bucket. Reorder maps it back to UnsectionedID.
	UnsectionedVirtualID = "__unsectioned__"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// ParsePriority converts raw input to a Priority. Unknown or empty values
// resolve to PriorityMedium; malformed persisted data is repaired, not
// rejected.
func ParsePriority(raw string) Priority {
	p := Priority(strings.ToUpper(strings.TrimSpace(raw)))
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p
	}
	return PriorityMedium
}

// Section is a named grouping of tasks within a list.
type Section struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Order    int    `json:"order"`
	IsSystem bool   `json:"isSystem,omitempty"`
}

// Task is a single todo item.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// SectionID is a user section id, CompletedSectionID, or UnsectionedID.
	SectionID string `json:"sectionId"`

	// OriginSectionID remembers the user section the task lived in before it
	// was parked in the Completed section, so restoring lands it back there.
	OriginSectionID string `json:"originSectionId,omitempty"`

	DueDate   string    `json:"dueDate,omitempty"` // YYYY-MM-DD
	DueTime   string    `json:"dueTime,omitempty"` // HH:MM
	Priority  Priority  `json:"priority,omitempty"`
	Completed bool      `json:"completed"`
	Order     int       `json:"order"`
	Created   Timestamp `json:"createdAt"`
	Updated   Timestamp `json:"updatedAt"`
}

// ListStorage is the persisted shape of one list: its sections and tasks.
type ListStorage struct {
	Sections []Section `json:"sections"`
	Tasks    []Task    `json:"tasks"`
}

// Section returns the section with the given id.
func (s ListStorage) Section(id string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return Section{}, false
}

// Task returns the task with the given id.
func (s ListStorage) Task(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// UserSections returns the non-system sections in order.
func (s ListStorage) UserSections() []Section {
	user := make([]Section, 0, len(s.Sections))
	for _, sec := range s.Sections {
		if !sec.IsSystem && sec.ID != CompletedSectionID {
			user = append(user, sec)
		}
	}
	return user
}

// SectionTasks returns the tasks assigned to the given section id, in order.
// UnsectionedID selects the unsectioned bucket.
func (s ListStorage) SectionTasks(sectionID string) []Task {
	tasks := make([]Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.SectionID == sectionID {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// fallbackSectionID is the first user section id, or UnsectionedID when the
// list has no user sections at all.
func (s ListStorage) fallbackSectionID() string {
	for _, sec := range s.Sections {
		if !sec.IsSystem && sec.ID != CompletedSectionID {
			return sec.ID
		}
	}
	return UnsectionedID
}

// isUserSection reports whether id names a section that exists and is not the
// system Completed section.
func (s ListStorage) isUserSection(id string) bool {
	if id == "" || id == CompletedSectionID {
		return false
	}
	sec, ok := s.Section(id)
	return ok && !sec.IsSystem
}

func (s ListStorage) clone() ListStorage {
	out := ListStorage{
		Sections: make([]Section, len(s.Sections)),
		Tasks:    make([]Task, len(s.Tasks)),
	}
	copy(out.Sections, s.Sections)
	copy(out.Tasks, s.Tasks)
	return out
}
