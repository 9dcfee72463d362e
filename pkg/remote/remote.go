// Package remote speaks to the scheduling backend: the tab records that hold
// course-bound list settings, and the course/semester metadata the list view
// is assembled from.
package remote

import "context"

// TabTypeTodo is the tab_type of list-bearing tabs created by this feature.
const TabTypeTodo = "todo"

// Tab is a per-context tab record. Settings is an opaque serialized JSON
// blob; the server stores and echoes it without interpreting it.
type Tab struct {
	ID          string `json:"id"`
	TabType     string `json:"tab_type"`
	Settings    string `json:"settings"`
	OrderIndex  int    `json:"order_index"`
	IsRemovable bool   `json:"is_removable"`
	IsDraggable bool   `json:"is_draggable"`
	SemesterID  string `json:"semester_id,omitempty"`
	CourseID    string `json:"course_id,omitempty"`
}

// TabCreate is the payload for creating a tab.
type TabCreate struct {
	TabType  string `json:"tab_type"`
	Settings string `json:"settings"`
}

// Course is read-only course metadata.
type Course struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SemesterID string `json:"semester_id"`
}

// Semester is read-only semester metadata including its courses.
type Semester struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Courses []Course `json:"courses"`
}

// API is the slice of the backend this feature consumes.
type API interface {
	CreateTabForCourse(ctx context.Context, courseID string, create TabCreate) (Tab, error)
	UpdateTab(ctx context.Context, tabID string, settings string) (Tab, error)
	GetCourse(ctx context.Context, courseID string) (Course, error)
	GetSemester(ctx context.Context, semesterID string) (Semester, error)
}
