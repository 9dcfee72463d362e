// Package prompt provides the interactive input flow for task entry.
package prompt

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/coursedeck/todo/pkg/list"
	"github.com/coursedeck/todo/pkg/todo"
)

var promptTemplates = &promptui.PromptTemplates{
	Prompt:  "{{ . }} : ",
	Valid:   "{{ . | green }} : ",
	Invalid: "{{ . | red }} : ",
	Success: "{{ . | bold }} : ",
}

// Text asks for a single line. Empty input resolves to def; an empty def
// makes the answer required.
func Text(label, def string) (string, error) {
	validate := func(input string) error {
		if strings.TrimSpace(input) == "" && def == "" {
			return errors.New("required")
		}
		return nil
	}

	p := promptui.Prompt{
		Label:     label,
		Default:   def,
		Templates: promptTemplates,
		Validate:  validate,
	}
	result, err := p.Run()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(result) == "" {
		result = def
	}
	return strings.TrimSpace(result), nil
}

// Section picks a target section out of the list's user sections. The
// unsectioned bucket is always the first choice.
func Section(storage todo.ListStorage) (string, error) {
	type choice struct {
		Name string
		ID   string
	}
	choices := []choice{{Name: "(no section)", ID: todo.UnsectionedID}}
	for _, sec := range storage.UserSections() {
		choices = append(choices, choice{Name: sec.Name, ID: sec.ID})
	}

	s := promptui.Select{
		HideHelp: true,
		Label:    "Section",
		Items:    choices,
		Size:     10,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}?",
			Active:   "➜  {{ .Name | bold }}",
			Inactive: "   {{ .Name }}",
			Selected: "{{ .Name | bold }}",
		},
	}
	i, _, err := s.Run()
	if err != nil {
		return "", err
	}
	return choices[i].ID, nil
}

// Priority picks a task priority, defaulting the cursor to medium.
func Priority() (todo.Priority, error) {
	choices := []todo.Priority{
		todo.PriorityLow,
		todo.PriorityMedium,
		todo.PriorityHigh,
		todo.PriorityUrgent,
	}

	s := promptui.Select{
		HideHelp:  true,
		Label:     "Priority",
		Items:     choices,
		Size:      len(choices),
		CursorPos: 1,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}?",
			Active:   "➜  {{ . | bold }}",
			Inactive: "   {{ . }}",
			Selected: "{{ . | bold }}",
		},
	}
	i, _, err := s.Run()
	if err != nil {
		return todo.PriorityMedium, err
	}
	return choices[i], nil
}

// List picks one of the visible lists, with the current selection as the
// cursor start.
func List(selected string, lists []list.List) (string, error) {
	if len(lists) == 0 {
		return "", errors.New("no lists to choose from")
	}
	cursor := 0
	for i, l := range lists {
		if l.ID == selected {
			cursor = i
			break
		}
	}

	s := promptui.Select{
		HideHelp:  true,
		Label:     "List",
		Items:     lists,
		Size:      10,
		CursorPos: cursor,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}?",
			Active:   "➜  {{ .Name | bold }} {{ .Source | faint }}",
			Inactive: "   {{ .Name }} {{ .Source | faint }}",
			Selected: "{{ .Name | bold }}",
		},
	}
	i, _, err := s.Run()
	if err != nil {
		return "", err
	}
	return lists[i].ID, nil
}

// TaskFields walks through every field of a new task.
func TaskFields(storage todo.ListStorage) (todo.TaskFields, error) {
	var f todo.TaskFields
	var err error

	if f.Title, err = Text("Title", ""); err != nil {
		return f, err
	}
	if f.Description, err = Text("Description", " "); err != nil {
		return f, err
	}
	f.Description = strings.TrimSpace(f.Description)
	if f.SectionID, err = Section(storage); err != nil {
		return f, err
	}
	if f.Priority, err = Priority(); err != nil {
		return f, err
	}
	if f.DueDate, err = Text("Due date (YYYY-MM-DD, empty for none)", " "); err != nil {
		return f, err
	}
	f.DueDate = strings.TrimSpace(f.DueDate)
	if f.DueDate != "" {
		if f.DueTime, err = Text("Due time (HH:MM, empty for none)", " "); err != nil {
			return f, err
		}
		f.DueTime = strings.TrimSpace(f.DueTime)
	}
	return f, nil
}
