package todo

import (
	"encoding/json"
	"strings"
)

// SettingsVersion is the current settings blob version.
const SettingsVersion = 1

const (
	keyVersion     = "version"
	keyCourseList  = "courseList"
	keyCustomLists = "semesterCustomLists"
	keyBehavior    = "todoBehavior"
)

// Behavior holds the user-tunable todo behavior switches.
type Behavior struct {
	MoveCompletedToCompletedSection bool `json:"moveCompletedToCompletedSection"`
}

// CustomList is a semester-local list that is not bound to any course record.
type CustomList struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Sections []Section `json:"sections"`
	Tasks    []Task    `json:"tasks"`
	Created  Timestamp `json:"createdAt"`
	Updated  Timestamp `json:"updatedAt"`
}

// Storage returns the custom list's storage pair.
func (c CustomList) Storage() ListStorage {
	return ListStorage{Sections: c.Sections, Tasks: c.Tasks}
}

// Settings is the versioned persisted settings blob. Keys this package does
// not know about are captured on read and written back untouched, so other
// features' settings survive a round trip through this writer.
type Settings struct {
	Version     int
	CourseList  *ListStorage
	CustomLists []CustomList
	Behavior    *Behavior

	extra map[string]json.RawMessage
}

// AutoMove reports whether completed tasks should be relocated to the
// Completed section. Enabled unless explicitly switched off.
func (s *Settings) AutoMove() bool {
	if s == nil || s.Behavior == nil {
		return true
	}
	return s.Behavior.MoveCompletedToCompletedSection
}

// SetAutoMove records the auto-move behavior switch.
func (s *Settings) SetAutoMove(enabled bool) {
	s.Behavior = &Behavior{MoveCompletedToCompletedSection: enabled}
}

// ParseSettings decodes a settings blob. Malformed input is repaired to an
// empty current-version value rather than surfaced as an error; legacy blobs
// without a version are upgraded on read.
func ParseSettings(data []byte) *Settings {
	s := &Settings{Version: SettingsVersion}
	if len(data) == 0 {
		return s
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return s
	}

	for key, msg := range m {
		switch key {
		case keyVersion:
			var v int
			if err := json.Unmarshal(msg, &v); err == nil && v > 0 {
				s.Version = v
			}
		case keyCourseList:
			storage := Decode(msg)
			s.CourseList = &storage
		case keyCustomLists:
			var entries []json.RawMessage
			if err := json.Unmarshal(msg, &entries); err != nil {
				continue
			}
			for _, entry := range entries {
				var c CustomList
				if err := json.Unmarshal(entry, &c); err != nil {
					continue
				}
				if strings.TrimSpace(c.Name) == "" {
					continue
				}
				if c.ID == "" {
					c.ID = newID()
				}
				normalized := Normalize(c.Storage())
				c.Sections = normalized.Sections
				c.Tasks = normalized.Tasks
				s.CustomLists = append(s.CustomLists, c)
			}
		case keyBehavior:
			var b Behavior
			if err := json.Unmarshal(msg, &b); err == nil {
				s.Behavior = &b
			}
		default:
			if s.extra == nil {
				s.extra = make(map[string]json.RawMessage)
			}
			s.extra[key] = msg
		}
	}

	// Blobs written before versioning are upgraded in place.
	if s.Version == 0 {
		s.Version = SettingsVersion
	}
	return s
}

// Marshal encodes the settings blob, round-tripping unknown keys unchanged.
func (s *Settings) Marshal() ([]byte, error) {
	m := make(map[string]json.RawMessage, len(s.extra)+4)
	for key, msg := range s.extra {
		m[key] = msg
	}

	version := s.Version
	if version == 0 {
		version = SettingsVersion
	}
	var err error
	if m[keyVersion], err = json.Marshal(version); err != nil {
		return nil, err
	}
	if s.CourseList != nil {
		if m[keyCourseList], err = json.Marshal(s.CourseList); err != nil {
			return nil, err
		}
	}
	if s.CustomLists != nil {
		if m[keyCustomLists], err = json.Marshal(s.CustomLists); err != nil {
			return nil, err
		}
	}
	if s.Behavior != nil {
		if m[keyBehavior], err = json.Marshal(s.Behavior); err != nil {
			return nil, err
		}
	}
	return json.Marshal(m)
}

// AddCustomList appends a new semester-custom list and returns it.
func (s *Settings) AddCustomList(name string) *CustomList {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	now := Now()
	normalized := Normalize(ListStorage{})
	s.CustomLists = append(s.CustomLists, CustomList{
		ID:       newID(),
		Name:     name,
		Sections: normalized.Sections,
		Tasks:    normalized.Tasks,
		Created:  now,
		Updated:  now,
	})
	return &s.CustomLists[len(s.CustomLists)-1]
}

// RenameCustomList renames the list with the given id. Unknown ids and blank
// names are no-ops.
func (s *Settings) RenameCustomList(id, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for i := range s.CustomLists {
		if s.CustomLists[i].ID == id {
			s.CustomLists[i].Name = name
			s.CustomLists[i].Updated = Now()
			return true
		}
	}
	return false
}

// DeleteCustomList removes the list with the given id.
func (s *Settings) DeleteCustomList(id string) bool {
	for i := range s.CustomLists {
		if s.CustomLists[i].ID == id {
			s.CustomLists = append(s.CustomLists[:i], s.CustomLists[i+1:]...)
			return true
		}
	}
	return false
}

// SetCustomListStorage replaces the storage of the list with the given id.
func (s *Settings) SetCustomListStorage(id string, storage ListStorage) bool {
	for i := range s.CustomLists {
		if s.CustomLists[i].ID == id {
			normalized := Normalize(storage)
			s.CustomLists[i].Sections = normalized.Sections
			s.CustomLists[i].Tasks = normalized.Tasks
			s.CustomLists[i].Updated = Now()
			return true
		}
	}
	return false
}

// MergeCourseList writes storage into a serialized settings blob, leaving
// every unrelated key of the base blob untouched. An empty or malformed base
// produces a fresh current-version blob.
func MergeCourseList(base string, storage ListStorage) (string, error) {
	var m map[string]json.RawMessage
	if base != "" {
		if err := json.Unmarshal([]byte(base), &m); err != nil {
			m = nil
		}
	}
	if m == nil {
		m = make(map[string]json.RawMessage, 2)
	}

	normalized := Normalize(storage)
	listJSON, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	versionJSON, err := json.Marshal(SettingsVersion)
	if err != nil {
		return "", err
	}
	m[keyCourseList] = listJSON
	m[keyVersion] = versionJSON

	out, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
