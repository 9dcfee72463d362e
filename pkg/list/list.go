// Package list assembles the set of lists visible to the user from the
// current tab's storage, the cached per-course remote state, and the
// semester-local custom lists.
package list

import (
	"sort"
	"strings"

	"github.com/coursedeck/todo/pkg/todo"
)

// Mode says which context the feature is mounted in.
type Mode string

const (
	// ModeCourse shows the single list of the current course tab.
	ModeCourse Mode = "course"
	// ModeSemester shows one list per course plus the custom lists.
	ModeSemester Mode = "semester"
	// ModeUnsupported means neither a course nor a semester context is
	// available; no lists exist.
	ModeUnsupported Mode = "unsupported"
)

// Source says where a list's data lives.
type Source string

const (
	SourceCourse Source = "course"
	SourceCustom Source = "semester-custom"
)

// FallbackCourseName is shown while a course fetch is pending or failed.
const FallbackCourseName = "Course List"

// List is the view-level aggregate of one visible list. It is assembled on
// demand and never persisted.
type List struct {
	ID           string
	Name         string
	Source       Source
	EditableName bool
	Sections     []todo.Section
	Tasks        []todo.Task
}

// Storage returns the list's storage pair.
func (l List) Storage() todo.ListStorage {
	return todo.ListStorage{Sections: l.Sections, Tasks: l.Tasks}
}

// CourseListID derives the identity of a course-bound list.
func CourseListID(courseID string) string {
	return "course:" + courseID
}

// CourseIDFrom recovers the course id from a course-bound list id. The
// second return is false for custom-list ids.
func CourseIDFrom(listID string) (string, bool) {
	id := strings.TrimPrefix(listID, "course:")
	if id == listID || id == "" {
		return "", false
	}
	return id, true
}

// CourseState is the cached remote state of one course's list in semester
// mode. TabID is empty until the first successful remote create;
// BaseSettings is the last-known full remote settings blob.
type CourseState struct {
	CourseID     string         `json:"courseId"`
	CourseName   string         `json:"courseName"`
	TabID        string         `json:"tabId,omitempty"`
	BaseSettings string         `json:"baseSettings,omitempty"`
	Sections     []todo.Section `json:"sections"`
	Tasks        []todo.Task    `json:"tasks"`
}

// Storage returns the cached storage pair.
func (c CourseState) Storage() todo.ListStorage {
	return todo.ListStorage{Sections: c.Sections, Tasks: c.Tasks}
}

// Input carries the sources Build assembles lists from. CourseID,
// CourseName, and CourseStorage feed course mode; States and CustomLists
// feed semester mode.
type Input struct {
	CourseID      string
	CourseName    string
	CourseStorage todo.ListStorage

	States      []CourseState
	CustomLists []todo.CustomList
}

// Build produces the ordered set of visible lists for the given mode. Course
// lists are not renameable; custom lists are. Every list's storage is
// normalized on the way out.
func Build(mode Mode, in Input) []List {
	switch mode {
	case ModeCourse:
		name := strings.TrimSpace(in.CourseName)
		if name == "" {
			name = FallbackCourseName
		}
		storage := todo.Normalize(in.CourseStorage)
		return []List{{
			ID:       CourseListID(in.CourseID),
			Name:     name,
			Source:   SourceCourse,
			Sections: storage.Sections,
			Tasks:    storage.Tasks,
		}}

	case ModeSemester:
		states := make([]CourseState, len(in.States))
		copy(states, in.States)
		sort.SliceStable(states, func(i, j int) bool {
			if states[i].CourseName != states[j].CourseName {
				return states[i].CourseName < states[j].CourseName
			}
			return states[i].CourseID < states[j].CourseID
		})

		lists := make([]List, 0, len(states)+len(in.CustomLists))
		for _, st := range states {
			name := strings.TrimSpace(st.CourseName)
			if name == "" {
				name = FallbackCourseName
			}
			storage := todo.Normalize(st.Storage())
			lists = append(lists, List{
				ID:       CourseListID(st.CourseID),
				Name:     name,
				Source:   SourceCourse,
				Sections: storage.Sections,
				Tasks:    storage.Tasks,
			})
		}
		for _, c := range in.CustomLists {
			storage := todo.Normalize(c.Storage())
			lists = append(lists, List{
				ID:           c.ID,
				Name:         c.Name,
				Source:       SourceCustom,
				EditableName: true,
				Sections:     storage.Sections,
				Tasks:        storage.Tasks,
			})
		}
		return lists

	default:
		return nil
	}
}

// RepairSelection keeps the active-list id valid: a selection that no longer
// exists falls back to the first list, or to no selection when the set is
// empty.
func RepairSelection(selected string, lists []List) string {
	for _, l := range lists {
		if l.ID == selected {
			return selected
		}
	}
	if len(lists) > 0 {
		return lists[0].ID
	}
	return ""
}
