package todo

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"
)

// Decode parses arbitrary persisted JSON into well-formed storage. Malformed,
// partial, or legacy-shaped input is silently repaired: entries that cannot be
// salvaged are dropped, everything else is coerced into the invariant shape.
func Decode(data []byte) ListStorage {
	var raw struct {
		Sections []json.RawMessage `json:"sections"`
		Tasks    []json.RawMessage `json:"tasks"`
	}
	if len(data) > 0 {
		// A decode failure leaves whatever prefix unmarshal managed; the
		// normalization pass below handles either way.
		_ = json.Unmarshal(data, &raw)
	}

	sections := make([]parsedSection, 0, len(raw.Sections))
	for i, msg := range raw.Sections {
		var rs rawSection
		if err := json.Unmarshal(msg, &rs); err != nil {
			continue
		}
		order, ok := numeric(rs.Order)
		if !ok {
			order = float64(i)
		}
		sections = append(sections, parsedSection{id: rs.ID, name: rs.Name, order: order})
	}

	tasks := make([]parsedTask, 0, len(raw.Tasks))
	for _, msg := range raw.Tasks {
		var rt rawTask
		if err := json.Unmarshal(msg, &rt); err != nil {
			continue
		}
		order, ok := numeric(rt.Order)
		tasks = append(tasks, parsedTask{
			task: Task{
				ID:              rt.ID,
				Title:           rt.Title,
				Description:     rt.Description,
				SectionID:       rt.SectionID,
				OriginSectionID: rt.OriginSectionID,
				DueDate:         rt.DueDate,
				DueTime:         rt.DueTime,
				Priority:        Priority(rt.Priority),
				Completed:       rt.Completed,
				Created:         rt.Created,
				Updated:         rt.Updated,
			},
			order:    order,
			hasOrder: ok,
		})
	}

	return normalize(sections, tasks)
}

// Normalize re-establishes every storage invariant over an in-memory value.
// It is idempotent up to regeneration of the Completed section.
func Normalize(in ListStorage) ListStorage {
	sections := make([]parsedSection, 0, len(in.Sections))
	for _, sec := range in.Sections {
		sections = append(sections, parsedSection{id: sec.ID, name: sec.Name, order: float64(sec.Order)})
	}
	tasks := make([]parsedTask, 0, len(in.Tasks))
	for _, t := range in.Tasks {
		tasks = append(tasks, parsedTask{task: t, order: float64(t.Order), hasOrder: true})
	}
	return normalize(sections, tasks)
}

type rawSection struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Order json.RawMessage `json:"order"`
}

type rawTask struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	SectionID       string          `json:"sectionId"`
	OriginSectionID string          `json:"originSectionId"`
	DueDate         string          `json:"dueDate"`
	DueTime         string          `json:"dueTime"`
	Priority        string          `json:"priority"`
	Completed       bool            `json:"completed"`
	Order           json.RawMessage `json:"order"`
	Created         Timestamp       `json:"createdAt"`
	Updated         Timestamp       `json:"updatedAt"`
}

type parsedSection struct {
	id    string
	name  string
	order float64
}

type parsedTask struct {
	task     Task
	order    float64
	hasOrder bool
}

// numeric extracts a finite float from a raw JSON value.
func numeric(msg json.RawMessage) (float64, bool) {
	if len(msg) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(msg, &f); err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func normalize(sections []parsedSection, tasks []parsedTask) ListStorage {
	out := ListStorage{}

	// User sections: drop blank ids and any claim on the Completed sentinel,
	// default blank names, stable-sort by order, dedupe by id keeping the
	// first occurrence, then renumber contiguously.
	kept := make([]parsedSection, 0, len(sections))
	for _, sec := range sections {
		id := strings.TrimSpace(sec.id)
		if id == "" || id == CompletedSectionID {
			continue
		}
		name := strings.TrimSpace(sec.name)
		if name == "" {
			name = "General"
		}
		kept = append(kept, parsedSection{id: id, name: name, order: sec.order})
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].order < kept[j].order })

	seen := make(map[string]struct{}, len(kept))
	for _, sec := range kept {
		if _, dup := seen[sec.id]; dup {
			continue
		}
		seen[sec.id] = struct{}{}
		out.Sections = append(out.Sections, Section{
			ID:    sec.id,
			Name:  sec.name,
			Order: len(out.Sections),
		})
	}

	fallback := UnsectionedID
	if len(out.Sections) > 0 {
		fallback = out.Sections[0].ID
	}

	out.Sections = append(out.Sections, Section{
		ID:       CompletedSectionID,
		Name:     CompletedSectionName,
		Order:    len(out.Sections),
		IsSystem: true,
	})

	keptTasks := make([]parsedTask, 0, len(tasks))
	for _, pt := range tasks {
		t := pt.task
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			continue
		}
		if t.ID == "" {
			t.ID = newID()
		}

		// Resolve the section reference. The sentinel and the unsectioned
		// bucket pass through; anything else must name a known user section
		// or falls back to the first one.
		claimed := t.SectionID
		switch {
		case claimed == CompletedSectionID:
		case claimed == UnsectionedID:
		default:
			known := false
			for _, sec := range out.Sections {
				if sec.ID == claimed && !sec.IsSystem {
					known = true
					break
				}
			}
			if !known {
				t.SectionID = fallback
			}
		}

		if t.SectionID == CompletedSectionID {
			t.Completed = true
		}

		origin := t.OriginSectionID
		if _, known := seen[origin]; !known {
			origin = ""
		}
		if origin == "" && t.Completed {
			// Derive a restore target from the section the task claimed
			// before any fallback was applied. An unknown claim leaves the
			// origin empty; restore then picks the fallback on its own.
			if _, known := seen[claimed]; known {
				origin = claimed
			}
		}
		t.OriginSectionID = origin

		t.DueDate = coerceDate(t.DueDate)
		t.DueTime = coerceClock(t.DueTime)
		t.Priority = ParsePriority(string(t.Priority))

		keptTasks = append(keptTasks, parsedTask{task: t, order: pt.order, hasOrder: pt.hasOrder})
	}

	// Missing order sorts after everything; ties break on creation time then
	// title so the result is stable across passes.
	sort.SliceStable(keptTasks, func(i, j int) bool {
		a, b := keptTasks[i], keptTasks[j]
		if a.hasOrder != b.hasOrder {
			return a.hasOrder
		}
		if a.hasOrder && a.order != b.order {
			return a.order < b.order
		}
		at, bt := a.task.Created.Time, b.task.Created.Time
		if !at.Equal(bt) {
			if at.IsZero() || bt.IsZero() {
				return bt.IsZero()
			}
			return at.Before(bt)
		}
		return a.task.Title < b.task.Title
	})

	for i, pt := range keptTasks {
		pt.task.Order = i
		out.Tasks = append(out.Tasks, pt.task)
	}

	return out
}

// coerceDate keeps strict YYYY-MM-DD values and drops anything else.
func coerceDate(v string) string {
	if v == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return ""
	}
	return v
}

// coerceClock keeps strict, range-checked HH:MM values and drops anything else.
func coerceClock(v string) string {
	if len(v) != 5 || v[2] != ':' {
		return ""
	}
	h, m := v[:2], v[3:]
	for _, r := range h + m {
		if r < '0' || r > '9' {
			return ""
		}
	}
	hour := int(h[0]-'0')*10 + int(h[1]-'0')
	minute := int(m[0]-'0')*10 + int(m[1]-'0')
	if hour > 23 || minute > 59 {
		return ""
	}
	return v
}
