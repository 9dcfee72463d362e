package list

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/coursedeck/todo/pkg/remote"
)

// ErrSuperseded reports that a newer load started while this one was in
// flight; its results were discarded.
var ErrSuperseded = errors.New("list: load superseded")

// Loader refreshes the per-course states of a semester from the backend.
// Course fetches are issued concurrently, one per course, and a monotonically
// increasing load id guards commits so only the most recent load wins.
type Loader struct {
	api remote.API

	// Warn receives per-course fetch failures. Defaults to stderr.
	Warn func(courseID string, err error)

	mu  sync.Mutex
	seq uint64
}

// NewLoader creates a Loader over the given backend.
func NewLoader(api remote.API) *Loader {
	return &Loader{api: api}
}

// LoadSemester fetches the semester's courses, refreshes each course's
// metadata concurrently, and merges the results with the cached states
// (preserving tab ids, baselines, and cached storage). A load that has been
// superseded by a newer call returns ErrSuperseded. A course whose fetch
// fails keeps the name from the semester payload and is reported through
// Warn; the load itself still succeeds.
func (l *Loader) LoadSemester(ctx context.Context, semesterID string, cached map[string]CourseState) ([]CourseState, error) {
	l.mu.Lock()
	l.seq++
	mine := l.seq
	l.mu.Unlock()

	semester, err := l.api.GetSemester(ctx, semesterID)
	if err != nil {
		return nil, fmt.Errorf("list: load semester %s: %w", semesterID, err)
	}

	type result struct {
		course remote.Course
		err    error
	}
	results := make([]result, len(semester.Courses))
	var wg sync.WaitGroup
	for i, course := range semester.Courses {
		wg.Add(1)
		go func(i int, course remote.Course) {
			defer wg.Done()
			fresh, err := l.api.GetCourse(ctx, course.ID)
			if err != nil {
				results[i] = result{course: course, err: err}
				return
			}
			results[i] = result{course: fresh}
		}(i, course)
	}
	wg.Wait()

	l.mu.Lock()
	superseded := l.seq != mine
	l.mu.Unlock()
	if superseded {
		return nil, ErrSuperseded
	}

	states := make([]CourseState, 0, len(results))
	for _, res := range results {
		if res.err != nil {
			l.warn(res.course.ID, res.err)
		}
		st := cached[res.course.ID]
		st.CourseID = res.course.ID
		if res.course.Name != "" {
			st.CourseName = res.course.Name
		}
		states = append(states, st)
	}
	return states, nil
}

func (l *Loader) warn(courseID string, err error) {
	if l.Warn != nil {
		l.Warn(courseID, err)
		return
	}
	fmt.Fprintf(os.Stderr, "list: course %s: %v\n", courseID, err)
}
