package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coursedeck/todo/pkg/list"
	"github.com/coursedeck/todo/pkg/todo"
)

type testConfig struct {
	path string
}

func (c *testConfig) BasePath() string  { return c.path }
func (c *testConfig) ServerURL() string { return "" }
func (c *testConfig) Token() string     { return "" }

func newTestStore(t *testing.T) Persistence {
	t.Helper()
	p, err := Load(&testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	return p
}

func TestTabSettingsMissingReturnsDefaults(t *testing.T) {
	p := newTestStore(t)

	s, err := p.TabSettings("tab-1")
	if err != nil {
		t.Fatalf("TabSettings() = %v", err)
	}
	if s == nil {
		t.Fatal("TabSettings() returned nil settings")
	}
	if !s.AutoMove() {
		t.Error("fresh settings should default auto-move on")
	}
}

func TestTabSettingsRoundTripPreservesUnknownKeys(t *testing.T) {
	p := newTestStore(t)

	s := todo.ParseSettings([]byte(`{"version":1,"theme":"dark"}`))
	s.SetAutoMove(false)
	if err := p.SaveTabSettings("tab-1", s); err != nil {
		t.Fatalf("SaveTabSettings() = %v", err)
	}

	got, err := p.TabSettings("tab-1")
	if err != nil {
		t.Fatalf("TabSettings() = %v", err)
	}
	if got.AutoMove() {
		t.Error("auto-move setting did not survive the round trip")
	}
	data, err := got.Marshal()
	if err != nil {
		t.Fatalf("Marshal() = %v", err)
	}
	if !strings.Contains(string(data), `"theme"`) {
		t.Errorf("unknown key dropped, got %s", data)
	}
}

func TestSemesterSettingsKeepCustomLists(t *testing.T) {
	p := newTestStore(t)

	s := todo.ParseSettings(nil)
	cl := s.AddCustomList("Errands")
	if err := p.SaveSemesterSettings("sem-1", s); err != nil {
		t.Fatalf("SaveSemesterSettings() = %v", err)
	}

	got, err := p.SemesterSettings("sem-1")
	if err != nil {
		t.Fatalf("SemesterSettings() = %v", err)
	}
	if len(got.CustomLists) != 1 || got.CustomLists[0].ID != cl.ID {
		t.Fatalf("custom lists = %+v, want the one saved list", got.CustomLists)
	}
	if got.CustomLists[0].Name != "Errands" {
		t.Errorf("custom list name = %q", got.CustomLists[0].Name)
	}
}

func TestCourseStatesAreScopedToSemester(t *testing.T) {
	p := newTestStore(t)
	ctx := context.Background()

	for _, st := range []struct {
		sem   string
		state list.CourseState
	}{
		{"sem-1", list.CourseState{CourseID: "c1", CourseName: "Biology", TabID: "t1"}},
		{"sem-1", list.CourseState{CourseID: "c2", CourseName: "Chemistry"}},
		{"sem-2", list.CourseState{CourseID: "c3", CourseName: "History"}},
	} {
		if err := p.SaveCourseState(st.sem, st.state); err != nil {
			t.Fatalf("SaveCourseState(%s) = %v", st.state.CourseID, err)
		}
	}

	states, err := p.CourseStates(ctx, "sem-1")
	if err != nil {
		t.Fatalf("CourseStates() = %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("got %d states for sem-1, want 2", len(states))
	}
	if states["c1"].TabID != "t1" {
		t.Errorf("c1 tab id = %q, want t1", states["c1"].TabID)
	}
	if _, leaked := states["c3"]; leaked {
		t.Error("sem-2 state leaked into sem-1 listing")
	}

	if err := p.DeleteCourseState("sem-1", "c2"); err != nil {
		t.Fatalf("DeleteCourseState() = %v", err)
	}
	if err := p.DeleteCourseState("sem-1", "missing"); err != nil {
		t.Fatalf("DeleteCourseState(missing) = %v", err)
	}

	states, err = p.CourseStates(ctx, "sem-1")
	if err != nil {
		t.Fatalf("CourseStates() = %v", err)
	}
	if len(states) != 1 {
		t.Fatalf("got %d states after delete, want 1", len(states))
	}
}

func TestSaveCourseStateRejectsMissingID(t *testing.T) {
	p := newTestStore(t)
	if err := p.SaveCourseState("sem-1", list.CourseState{}); err == nil {
		t.Fatal("expected an error for a state without a course id")
	}
}

func TestWatchReportsChangedRecord(t *testing.T) {
	p := newTestStore(t)

	// Seed the bucket so the directory exists before the watch starts.
	if err := p.SaveTabSettings("tab-1", todo.ParseSettings(nil)); err != nil {
		t.Fatalf("SaveTabSettings() = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() = %v", err)
	}

	s := todo.ParseSettings(nil)
	s.SetAutoMove(false)
	if err := p.SaveTabSettings("tab-1", s); err != nil {
		t.Fatalf("SaveTabSettings() = %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatal("event channel closed before a change arrived")
			}
			if ev.Type == EventInvalidated {
				return // full reload also covers the change
			}
			if ev.Key == "tab/tab-1" {
				return
			}
		case <-deadline:
			t.Fatal("no event for the settings write")
		}
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	p := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() = %v", err)
	}
	cancel()

	select {
	case _, ok := <-events:
		if ok {
			// Drain any event emitted before cancellation took effect.
			for range events {
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event channel did not close after cancel")
	}
}
