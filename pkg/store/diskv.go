package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/coursedeck/todo/pkg/list"
	"github.com/coursedeck/todo/pkg/todo"
)

// Key buckets. Keys are "<kind>/<id...>"; record ids are uuids and safe as
// path segments.
const (
	kindTab      = "tab"
	kindSemester = "semester"
	kindCourse   = "course"
)

// Persistence is the local settings store: per-tab settings for course mode,
// per-semester settings (custom lists and behavior), and the cached remote
// state of each course's list.
type Persistence interface {
	TabSettings(tabID string) (*todo.Settings, error)
	SaveTabSettings(tabID string, s *todo.Settings) error

	SemesterSettings(semesterID string) (*todo.Settings, error)
	SaveSemesterSettings(semesterID string, s *todo.Settings) error

	CourseStates(ctx context.Context, semesterID string) (map[string]list.CourseState, error)
	SaveCourseState(semesterID string, st list.CourseState) error
	DeleteCourseState(semesterID, courseID string) error

	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) TabSettings(tabID string) (*todo.Settings, error) {
	return p.readSettings(settingsKey(kindTab, tabID))
}

func (p *persistence) SaveTabSettings(tabID string, s *todo.Settings) error {
	return p.writeSettings(settingsKey(kindTab, tabID), s)
}

func (p *persistence) SemesterSettings(semesterID string) (*todo.Settings, error) {
	return p.readSettings(settingsKey(kindSemester, semesterID))
}

func (p *persistence) SaveSemesterSettings(semesterID string, s *todo.Settings) error {
	return p.writeSettings(settingsKey(kindSemester, semesterID), s)
}

// readSettings tolerates a missing record by returning fresh empty settings;
// malformed blobs are repaired by the parser, never surfaced.
func (p *persistence) readSettings(key string) (*todo.Settings, error) {
	if !p.d.Has(key) {
		return todo.ParseSettings(nil), nil
	}
	val, err := p.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return todo.ParseSettings(val), nil
}

func (p *persistence) writeSettings(key string, s *todo.Settings) error {
	if s == nil {
		return errors.New("store: nil settings")
	}
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *persistence) CourseStates(ctx context.Context, semesterID string) (map[string]list.CourseState, error) {
	prefix := kindCourse + "/" + semesterID + "/"
	states := make(map[string]list.CourseState)
	for key := range p.d.KeysPrefix(prefix, ctx.Done()) {
		val, err := p.d.Read(key)
		if err != nil {
			return nil, fmt.Errorf("store: read %s: %w", key, err)
		}
		var st list.CourseState
		if err := json.Unmarshal(val, &st); err != nil {
			// A corrupt cache entry is dropped; the next load pass rebuilds it.
			continue
		}
		if st.CourseID == "" {
			continue
		}
		states[st.CourseID] = st
	}
	return states, nil
}

func (p *persistence) SaveCourseState(semesterID string, st list.CourseState) error {
	if st.CourseID == "" {
		return errors.New("store: course state without course id")
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("store: encode course state: %w", err)
	}
	key := courseKey(semesterID, st.CourseID)
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *persistence) DeleteCourseState(semesterID, courseID string) error {
	key := courseKey(semesterID, courseID)
	if !p.d.Has(key) {
		return nil
	}
	return p.d.Erase(key)
}

func settingsKey(kind, id string) string {
	return kind + "/" + id
}

func courseKey(semesterID, courseID string) string {
	return kindCourse + "/" + semesterID + "/" + courseID
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return strings.Join(pathKey.Path, "/") + "/" + pathKey.FileName
}
