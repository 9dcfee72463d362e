package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/coursedeck/todo/pkg/list"
	"github.com/coursedeck/todo/pkg/todo"
)

type PrettyPrint struct {
	ShowID bool
}

const idWidth = 8

var spacing = strings.Repeat(" ", idWidth+2)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" task")
	default:
		_, _ = c.Println(" tasks")
	}
}

// List prints one list: every section header followed by its tasks, the
// unsectioned bucket first when it has any.
func (pp *PrettyPrint) List(l list.List) {
	storage := l.Storage()
	pp.TitleWithCount(l.Name, len(storage.Tasks))
	fmt.Println("")

	if loose := storage.SectionTasks(todo.UnsectionedID); len(loose) > 0 {
		pp.Tasks(loose...)
	}
	for _, sec := range storage.Sections {
		pp.Section(sec)
		pp.Tasks(storage.SectionTasks(sec.ID)...)
	}
}

func (pp *PrettyPrint) Section(sec todo.Section) {
	s := color.New(color.Bold)
	if sec.IsSystem {
		s = color.New(color.Bold, color.Faint)
	}
	if pp.ShowID {
		_, _ = s.Print(spacing)
	}
	_, _ = s.Println(sec.Name)
}

func (pp *PrettyPrint) Tasks(tasks ...todo.Task) {
	if len(tasks) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Print(spacing)
		}
		_, _ = f.Print(" none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	meta := color.New(color.Faint)

	for _, t := range tasks {
		if pp.ShowID {
			id := shortID(t.ID)
			_, _ = y.Print(id)
			_, _ = y.Print(strings.Repeat(" ", len(spacing)-len(id)))
		}

		line := color.New()
		box := "[ ]"
		if t.Completed {
			box = "[x]"
			line = color.New(color.Faint, color.CrossedOut)
		}
		_, _ = line.Printf("%s %s%s", box, priorityMark(t.Priority), t.Title)
		if due := dueLabel(t); due != "" {
			_, _ = meta.Printf("  (%s)", due)
		}
		fmt.Println("")
	}
	fmt.Println("")
}

func shortID(id string) string {
	if len(id) > idWidth {
		return id[:idWidth]
	}
	return id
}

func priorityMark(p todo.Priority) string {
	switch p {
	case todo.PriorityUrgent:
		return color.New(color.FgRed, color.Bold).Sprint("!! ")
	case todo.PriorityHigh:
		return color.New(color.FgRed).Sprint("! ")
	case todo.PriorityLow:
		return color.New(color.Faint).Sprint("~ ")
	default:
		return ""
	}
}

func dueLabel(t todo.Task) string {
	switch {
	case t.DueDate == "":
		return ""
	case t.DueTime == "":
		return "due " + t.DueDate
	default:
		return "due " + t.DueDate + " " + t.DueTime
	}
}
