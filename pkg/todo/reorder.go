package todo

import "sort"

// Reorder computes the placement of a dropped task. The target section id may
// be the unsectioned virtual id, which maps to the unsectioned bucket. When
// beforeTaskID names a task, the moved task is inserted directly before it;
// otherwise it lands after the last task already in the target section, or at
// the end when the section is empty.
//
// The drop is a no-op when the source task is unknown or completed, the
// target is the Completed section, or the target names a section not present
// in storage.
func Reorder(s ListStorage, taskID, targetSectionID, beforeTaskID string) ListStorage {
	if targetSectionID == UnsectionedVirtualID {
		targetSectionID = UnsectionedID
	}

	src, ok := s.Task(taskID)
	if !ok || src.Completed {
		return s
	}
	if targetSectionID == CompletedSectionID {
		return s
	}
	if targetSectionID != UnsectionedID && !s.isUserSection(targetSectionID) {
		return s
	}

	// Work over the total order shared across all sections.
	seq := make([]Task, len(s.Tasks))
	copy(seq, s.Tasks)
	sort.SliceStable(seq, func(i, j int) bool { return seq[i].Order < seq[j].Order })

	rest := make([]Task, 0, len(seq)-1)
	for _, t := range seq {
		if t.ID != taskID {
			rest = append(rest, t)
		}
	}

	at := -1
	if beforeTaskID != "" {
		for i, t := range rest {
			if t.ID == beforeTaskID {
				at = i
				break
			}
		}
	}
	if at < 0 {
		at = len(rest)
		for i := len(rest) - 1; i >= 0; i-- {
			if rest[i].SectionID == targetSectionID {
				at = i + 1
				break
			}
		}
	}

	src.SectionID = targetSectionID
	src.Updated = Now()

	out := s.clone()
	out.Tasks = make([]Task, 0, len(seq))
	out.Tasks = append(out.Tasks, rest[:at]...)
	out.Tasks = append(out.Tasks, src)
	out.Tasks = append(out.Tasks, rest[at:]...)
	for i := range out.Tasks {
		out.Tasks[i].Order = i
	}
	return Normalize(out)
}
