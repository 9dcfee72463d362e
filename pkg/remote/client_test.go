package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientCreateTabForCourse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/courses/c1/tabs/" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var create TabCreate
		if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
			t.Fatal(err)
		}
		if create.TabType != TabTypeTodo {
			t.Fatalf("unexpected tab type %q", create.TabType)
		}
		_ = json.NewEncoder(w).Encode(Tab{ID: "tab-1", TabType: create.TabType, Settings: create.Settings, CourseID: "c1"})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "sekrit")
	tab, err := c.CreateTabForCourse(context.Background(), "c1", TabCreate{TabType: TabTypeTodo, Settings: "{}"})
	if err != nil {
		t.Fatal(err)
	}
	if tab.ID != "tab-1" || tab.Settings != "{}" {
		t.Fatalf("unexpected tab %+v", tab)
	}
}

func TestClientUpdateTab(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/tabs/tab-9" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Settings string `json:"settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		_ = json.NewEncoder(w).Encode(Tab{ID: "tab-9", Settings: body.Settings})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	tab, err := c.UpdateTab(context.Background(), "tab-9", `{"version":1}`)
	if err != nil {
		t.Fatal(err)
	}
	if tab.Settings != `{"version":1}` {
		t.Fatalf("unexpected tab %+v", tab)
	}
}

func TestClientErrorIncludesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Course not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.GetCourse(context.Background(), "nope")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "Course not found") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestClientGetSemester(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/semesters/sem-1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Semester{
			ID:   "sem-1",
			Name: "Fall",
			Courses: []Course{
				{ID: "c1", Name: "Algebra", SemesterID: "sem-1"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	semester, err := c.GetSemester(context.Background(), "sem-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(semester.Courses) != 1 || semester.Courses[0].Name != "Algebra" {
		t.Fatalf("unexpected semester %+v", semester)
	}
}
