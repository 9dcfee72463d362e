package list

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/coursedeck/todo/pkg/remote"
	"github.com/coursedeck/todo/pkg/remote/remotetest"
)

func TestLoadSemesterMergesCache(t *testing.T) {
	fake := remotetest.NewFake()
	fake.AddSemester("sem-1", "Fall",
		remote.Course{ID: "c1", Name: "Algebra"},
		remote.Course{ID: "c2", Name: "Physics"},
	)

	cached := map[string]CourseState{
		"c1": {CourseID: "c1", CourseName: "Old Name", TabID: "tab-7", BaseSettings: `{"version":1}`},
	}

	l := NewLoader(fake)
	states, err := l.LoadSemester(context.Background(), "sem-1", cached)
	if err != nil {
		t.Fatal(err)
	}

	if len(states) != 2 {
		t.Fatalf("expected 2 states, got %d", len(states))
	}
	byID := map[string]CourseState{}
	for _, st := range states {
		byID[st.CourseID] = st
	}
	c1 := byID["c1"]
	if c1.CourseName != "Algebra" {
		t.Fatalf("name not refreshed: %+v", c1)
	}
	if c1.TabID != "tab-7" || c1.BaseSettings != `{"version":1}` {
		t.Fatalf("cached sync state lost: %+v", c1)
	}
	if byID["c2"].TabID != "" {
		t.Fatalf("new course should have no tab yet: %+v", byID["c2"])
	}
}

func TestLoadSemesterCourseFailureDegrades(t *testing.T) {
	fake := remotetest.NewFake()
	fake.AddSemester("sem-1", "Fall", remote.Course{ID: "c1", Name: "Algebra"})
	fake.GetCourseErr = errors.New("boom")

	var warned []string
	l := NewLoader(fake)
	l.Warn = func(courseID string, err error) { warned = append(warned, courseID) }

	states, err := l.LoadSemester(context.Background(), "sem-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 1 || states[0].CourseName != "Algebra" {
		t.Fatalf("expected the semester payload name to survive, got %+v", states)
	}
	if len(warned) != 1 || warned[0] != "c1" {
		t.Fatalf("expected a warning for c1, got %v", warned)
	}
}

func TestLoadSemesterSuperseded(t *testing.T) {
	fake := remotetest.NewFake()
	fake.AddSemester("sem-1", "Fall", remote.Course{ID: "c1", Name: "Algebra"})

	l := NewLoader(fake)

	// A newer load bumping the sequence makes the older result unusable.
	// Only the first fetch blocks; the superseding load runs through.
	release := make(chan struct{})
	started := make(chan struct{})
	var calls int32
	fake.GetSemesterHook = func() {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
		}
	}

	errs := make(chan error, 1)
	go func() {
		_, err := l.LoadSemester(context.Background(), "sem-1", nil)
		errs <- err
	}()

	<-started
	if _, err := l.LoadSemester(context.Background(), "sem-1", nil); err != nil {
		t.Fatal(err)
	}
	close(release)

	if err := <-errs; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
}

func TestLoadSemesterFailure(t *testing.T) {
	fake := remotetest.NewFake()
	fake.GetSemesterErr = errors.New("down")
	l := NewLoader(fake)
	if _, err := l.LoadSemester(context.Background(), "missing", nil); err == nil {
		t.Fatalf("expected an error")
	}
}
