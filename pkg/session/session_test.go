package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coursedeck/todo/pkg/list"
	"github.com/coursedeck/todo/pkg/remote"
	"github.com/coursedeck/todo/pkg/remote/remotetest"
	"github.com/coursedeck/todo/pkg/store"
	"github.com/coursedeck/todo/pkg/todo"
)

type testConfig struct {
	path string
}

func (c *testConfig) BasePath() string  { return c.path }
func (c *testConfig) ServerURL() string { return "" }
func (c *testConfig) Token() string     { return "" }

func newStore(t *testing.T) store.Persistence {
	t.Helper()
	p, err := store.Load(&testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("store.Load() = %v", err)
	}
	return p
}

func openCourse(t *testing.T, api remote.API) *Session {
	t.Helper()
	s, err := Open(context.Background(), Config{
		Mode:       list.ModeCourse,
		CourseID:   "c1",
		CourseName: "Biology",
		TabID:      "tab-c1",
		Store:      newStore(t),
		API:        api,
		Grace:      20 * time.Millisecond,
		Debounce:   10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func onlyList(t *testing.T, s *Session) list.List {
	t.Helper()
	lists := s.Lists()
	if len(lists) != 1 {
		t.Fatalf("got %d lists, want 1", len(lists))
	}
	return lists[0]
}

func taskIn(t *testing.T, s *Session, listID, title string) todo.Task {
	t.Helper()
	for _, l := range s.Lists() {
		if l.ID != listID {
			continue
		}
		for _, task := range l.Tasks {
			if task.Title == title {
				return task
			}
		}
	}
	t.Fatalf("task %q not found in list %s", title, listID)
	return todo.Task{}
}

func TestCourseModeShowsOneList(t *testing.T) {
	s := openCourse(t, nil)

	l := onlyList(t, s)
	if l.ID != list.CourseListID("c1") {
		t.Errorf("list id = %q", l.ID)
	}
	if l.Name != "Biology" {
		t.Errorf("list name = %q", l.Name)
	}
	if l.EditableName {
		t.Error("course list must not be renameable")
	}
	if s.Selected() != l.ID {
		t.Errorf("selected = %q, want %q", s.Selected(), l.ID)
	}
}

func TestCourseModeResolvesNameFromBackend(t *testing.T) {
	fake := remotetest.NewFake()
	fake.AddSemester("sem-1", "Fall",
		remote.Course{ID: "c1", Name: "Organic Chemistry", SemesterID: "sem-1"})
	s := openCourse(t, fake)

	// The backend record wins over the caller-supplied name.
	if got := onlyList(t, s).Name; got != "Organic Chemistry" {
		t.Errorf("list name = %q, want %q", got, "Organic Chemistry")
	}
}

func TestCourseModeNameFallsBackOnFetchFailure(t *testing.T) {
	fake := remotetest.NewFake()
	fake.GetCourseErr = errors.New("backend down")
	s, err := Open(context.Background(), Config{
		Mode:     list.ModeCourse,
		CourseID: "c1",
		TabID:    "tab-c1",
		Store:    newStore(t),
		API:      fake,
		Grace:    20 * time.Millisecond,
		Debounce: 10 * time.Millisecond,
		Warn:     func(string, error) {},
	})
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer s.Close()

	if got := onlyList(t, s).Name; got != list.FallbackCourseName {
		t.Errorf("list name = %q, want %q", got, list.FallbackCourseName)
	}
}

func TestCompleteThenDelayedMove(t *testing.T) {
	s := openCourse(t, nil)
	listID := s.Selected()

	if err := s.CreateTask(listID, todo.TaskFields{Title: "read ch. 4"}); err != nil {
		t.Fatalf("CreateTask() = %v", err)
	}
	task := taskIn(t, s, listID, "read ch. 4")
	origin := task.SectionID

	if err := s.CompleteTask(listID, task.ID); err != nil {
		t.Fatalf("CompleteTask() = %v", err)
	}

	// Inside the grace window the task is done but still in place.
	got := taskIn(t, s, listID, "read ch. 4")
	if !got.Completed {
		t.Fatal("task not marked completed")
	}
	if got.SectionID != origin {
		t.Fatalf("task moved immediately to %q", got.SectionID)
	}

	waitFor(t, "auto-move", func() bool {
		return taskIn(t, s, listID, "read ch. 4").SectionID == todo.CompletedSectionID
	})
	moved := taskIn(t, s, listID, "read ch. 4")
	if moved.OriginSectionID != origin {
		t.Errorf("origin = %q, want %q", moved.OriginSectionID, origin)
	}
}

func TestRestoreWithinGraceCancelsMove(t *testing.T) {
	s := openCourse(t, nil)
	listID := s.Selected()

	if err := s.CreateTask(listID, todo.TaskFields{Title: "quiz prep"}); err != nil {
		t.Fatalf("CreateTask() = %v", err)
	}
	task := taskIn(t, s, listID, "quiz prep")
	origin := task.SectionID

	if err := s.CompleteTask(listID, task.ID); err != nil {
		t.Fatalf("CompleteTask() = %v", err)
	}
	if err := s.RestoreTask(listID, task.ID); err != nil {
		t.Fatalf("RestoreTask() = %v", err)
	}

	// Wait well past the grace; the cancelled timer must not fire.
	time.Sleep(100 * time.Millisecond)
	got := taskIn(t, s, listID, "quiz prep")
	if got.Completed {
		t.Error("task still completed after restore")
	}
	if got.SectionID != origin {
		t.Errorf("task in %q, want %q", got.SectionID, origin)
	}
}

func TestEditWithinGraceCancelsMove(t *testing.T) {
	s := openCourse(t, nil)
	listID := s.Selected()

	if err := s.CreateTask(listID, todo.TaskFields{Title: "skim paper"}); err != nil {
		t.Fatalf("CreateTask() = %v", err)
	}
	task := taskIn(t, s, listID, "skim paper")

	if err := s.CompleteTask(listID, task.ID); err != nil {
		t.Fatalf("CompleteTask() = %v", err)
	}
	if err := s.EditTask(listID, task.ID, todo.TaskFields{
		Title:    "read paper",
		Priority: todo.PriorityHigh,
	}); err != nil {
		t.Fatalf("EditTask() = %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	got := taskIn(t, s, listID, "read paper")
	if got.SectionID != todo.CompletedSectionID {
		// Auto-move is on, so the edited completed task stays parked; the
		// edit itself must have done the parking, not the cancelled timer.
		t.Errorf("task in %q, want Completed", got.SectionID)
	}
	if got.Priority != todo.PriorityHigh {
		t.Errorf("priority = %q", got.Priority)
	}
}

func TestAutoMoveOffCompletesInPlace(t *testing.T) {
	s := openCourse(t, nil)
	listID := s.Selected()

	if err := s.SetAutoMove(false); err != nil {
		t.Fatalf("SetAutoMove() = %v", err)
	}
	if err := s.CreateTask(listID, todo.TaskFields{Title: "lab report"}); err != nil {
		t.Fatalf("CreateTask() = %v", err)
	}
	task := taskIn(t, s, listID, "lab report")
	origin := task.SectionID

	if err := s.CompleteTask(listID, task.ID); err != nil {
		t.Fatalf("CompleteTask() = %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	got := taskIn(t, s, listID, "lab report")
	if !got.Completed || got.SectionID != origin {
		t.Errorf("task = completed %v in %q, want completed in %q", got.Completed, got.SectionID, origin)
	}
}

func TestCourseModeSyncsTabSettings(t *testing.T) {
	fake := remotetest.NewFake()
	fake.AddSemester("sem-1", "Fall",
		remote.Course{ID: "c1", Name: "Biology", SemesterID: "sem-1"})
	// Pretend the tab already exists so the session seeds an update baseline.
	ctx := context.Background()
	tab, err := fake.CreateTabForCourse(ctx, "c1", remote.TabCreate{TabType: remote.TabTypeTodo})
	if err != nil {
		t.Fatalf("CreateTabForCourse() = %v", err)
	}

	s, err := Open(ctx, Config{
		Mode:       list.ModeCourse,
		CourseID:   "c1",
		CourseName: "Biology",
		TabID:      tab.ID,
		Store:      newStore(t),
		API:        fake,
		Grace:      20 * time.Millisecond,
		Debounce:   10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer s.Close()

	if err := s.CreateTask(s.Selected(), todo.TaskFields{Title: "push me"}); err != nil {
		t.Fatalf("CreateTask() = %v", err)
	}

	waitFor(t, "remote update", func() bool { return fake.UpdateCalls() > 0 })
	got, _ := fake.Tab(tab.ID)
	storage := settingsCourseList(t, got.Settings)
	if _, found := firstByTitle(storage, "push me"); !found {
		t.Errorf("remote settings missing the task: %s", got.Settings)
	}
}

func settingsCourseList(t *testing.T, blob string) todo.ListStorage {
	t.Helper()
	s := todo.ParseSettings([]byte(blob))
	if s.CourseList == nil {
		t.Fatalf("no course list in %s", blob)
	}
	return *s.CourseList
}

func firstByTitle(s todo.ListStorage, title string) (todo.Task, bool) {
	for _, task := range s.Tasks {
		if task.Title == title {
			return task, true
		}
	}
	return todo.Task{}, false
}

func openSemester(t *testing.T, fake *remotetest.Fake) *Session {
	t.Helper()
	s, err := Open(context.Background(), Config{
		Mode:       list.ModeSemester,
		SemesterID: "sem-1",
		Store:      newStore(t),
		API:        fake,
		Grace:      20 * time.Millisecond,
		Debounce:   10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestSemesterModeOrdersCourseListsThenCustom(t *testing.T) {
	fake := remotetest.NewFake()
	fake.AddSemester("sem-1", "Fall",
		remote.Course{ID: "c2", Name: "Chemistry", SemesterID: "sem-1"},
		remote.Course{ID: "c1", Name: "Biology", SemesterID: "sem-1"})
	s := openSemester(t, fake)

	id, err := s.AddList("Errands")
	if err != nil {
		t.Fatalf("AddList() = %v", err)
	}

	lists := s.Lists()
	if len(lists) != 3 {
		t.Fatalf("got %d lists, want 3", len(lists))
	}
	if lists[0].Name != "Biology" || lists[1].Name != "Chemistry" {
		t.Errorf("course order = %q, %q", lists[0].Name, lists[1].Name)
	}
	if lists[2].ID != id || !lists[2].EditableName {
		t.Errorf("custom list = %+v", lists[2])
	}
}

func TestSemesterCourseEditSyncsToRemote(t *testing.T) {
	fake := remotetest.NewFake()
	fake.AddSemester("sem-1", "Fall",
		remote.Course{ID: "c1", Name: "Biology", SemesterID: "sem-1"})
	s := openSemester(t, fake)

	courseList := list.CourseListID("c1")
	if err := s.CreateTask(courseList, todo.TaskFields{Title: "essay draft"}); err != nil {
		t.Fatalf("CreateTask() = %v", err)
	}

	// First flush creates the remote tab, and the committed tab id lands in
	// the persisted cache.
	waitFor(t, "remote create", func() bool { return fake.CreateCalls() > 0 })
	waitFor(t, "tab id committed", func() bool {
		tab, ok := fake.CourseTab("c1")
		if !ok {
			return false
		}
		s := todo.ParseSettings([]byte(tab.Settings))
		if s.CourseList == nil {
			return false
		}
		_, found := firstByTitle(*s.CourseList, "essay draft")
		return found
	})

	// A follow-up edit reuses the adopted tab id instead of creating again.
	if err := s.CreateTask(courseList, todo.TaskFields{Title: "cite sources"}); err != nil {
		t.Fatalf("CreateTask() = %v", err)
	}
	waitFor(t, "remote update", func() bool { return fake.UpdateCalls() > 0 })
	if fake.CreateCalls() != 1 {
		t.Errorf("CreateCalls() = %d, want 1", fake.CreateCalls())
	}
}

func TestAddListRejectsBlankName(t *testing.T) {
	fake := remotetest.NewFake()
	fake.AddSemester("sem-1", "Fall")
	s := openSemester(t, fake)

	if _, err := s.AddList("   "); err != todo.ErrEmptyName {
		t.Fatalf("AddList(blank) = %v, want %v", err, todo.ErrEmptyName)
	}
	if got := len(s.Lists()); got != 0 {
		t.Errorf("got %d lists after rejected add, want 0", got)
	}
}

func TestCustomListMutationsStayLocal(t *testing.T) {
	fake := remotetest.NewFake()
	fake.AddSemester("sem-1", "Fall")
	s := openSemester(t, fake)

	id, err := s.AddList("Errands")
	if err != nil {
		t.Fatalf("AddList() = %v", err)
	}
	if err := s.CreateTask(id, todo.TaskFields{Title: "groceries"}); err != nil {
		t.Fatalf("CreateTask() = %v", err)
	}
	if err := s.RenameList(id, "Weekend"); err != nil {
		t.Fatalf("RenameList() = %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if n := fake.CreateCalls() + fake.UpdateCalls(); n != 0 {
		t.Errorf("custom list edits reached the remote, %d calls", n)
	}

	lists := s.Lists()
	if len(lists) != 1 || lists[0].Name != "Weekend" {
		t.Fatalf("lists = %+v", lists)
	}
	if _, found := firstByTitle(lists[0].Storage(), "groceries"); !found {
		t.Error("task missing from custom list")
	}
}

func TestDeleteListRepairsSelection(t *testing.T) {
	fake := remotetest.NewFake()
	fake.AddSemester("sem-1", "Fall",
		remote.Course{ID: "c1", Name: "Biology", SemesterID: "sem-1"})
	s := openSemester(t, fake)

	id, err := s.AddList("Scratch")
	if err != nil {
		t.Fatalf("AddList() = %v", err)
	}
	if got := s.Select(id); got != id {
		t.Fatalf("Select() = %q, want %q", got, id)
	}
	if err := s.DeleteList(id); err != nil {
		t.Fatalf("DeleteList() = %v", err)
	}
	if got := s.Selected(); got != list.CourseListID("c1") {
		t.Errorf("selection after delete = %q", got)
	}

	if err := s.DeleteList(list.CourseListID("c1")); err != ErrNotEditable {
		t.Errorf("deleting a course list = %v, want ErrNotEditable", err)
	}
}

func TestSemesterStatePersistsAcrossSessions(t *testing.T) {
	fake := remotetest.NewFake()
	fake.AddSemester("sem-1", "Fall",
		remote.Course{ID: "c1", Name: "Biology", SemesterID: "sem-1"})
	persist := newStore(t)
	ctx := context.Background()

	open := func() *Session {
		s, err := Open(ctx, Config{
			Mode:       list.ModeSemester,
			SemesterID: "sem-1",
			Store:      persist,
			API:        fake,
			Grace:      20 * time.Millisecond,
			Debounce:   10 * time.Millisecond,
		})
		if err != nil {
			t.Fatalf("Open() = %v", err)
		}
		return s
	}

	s := open()
	courseList := list.CourseListID("c1")
	if err := s.CreateTask(courseList, todo.TaskFields{Title: "keep me"}); err != nil {
		t.Fatalf("CreateTask() = %v", err)
	}
	waitFor(t, "remote create", func() bool { return fake.CreateCalls() > 0 })
	s.Close()

	s2 := open()
	defer s2.Close()
	if _, found := firstByTitle(taskStorage(t, s2, courseList), "keep me"); !found {
		t.Error("task lost across sessions")
	}

	// The second session reuses the committed tab id.
	if err := s2.CreateTask(courseList, todo.TaskFields{Title: "another"}); err != nil {
		t.Fatalf("CreateTask() = %v", err)
	}
	waitFor(t, "remote update", func() bool { return fake.UpdateCalls() > 0 })
	if fake.CreateCalls() != 1 {
		t.Errorf("CreateCalls() = %d, want 1", fake.CreateCalls())
	}
}

func taskStorage(t *testing.T, s *Session, listID string) todo.ListStorage {
	t.Helper()
	for _, l := range s.Lists() {
		if l.ID == listID {
			return l.Storage()
		}
	}
	t.Fatalf("list %s not found", listID)
	return todo.ListStorage{}
}

func TestUnsupportedModeHasNoLists(t *testing.T) {
	s, err := Open(context.Background(), Config{
		Mode:  list.ModeUnsupported,
		Store: newStore(t),
	})
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer s.Close()

	if lists := s.Lists(); len(lists) != 0 {
		t.Fatalf("got %d lists, want 0", len(lists))
	}
	if s.Selected() != "" {
		t.Errorf("selected = %q, want empty", s.Selected())
	}
	if err := s.AddSection("anything"); err != ErrListNotFound {
		t.Errorf("AddSection() = %v, want ErrListNotFound", err)
	}
}
