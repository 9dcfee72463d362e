package printers

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/coursedeck/todo/pkg/list"
	"github.com/coursedeck/todo/pkg/todo"
)

// TablePrint renders the list overview as a table.
type TablePrint struct {
	ShowID bool
}

func (tp *TablePrint) Lists(selected string, lists ...list.List) {
	table := uitable.New()
	table.MaxColWidth = 50

	if tp.ShowID {
		table.AddRow("", "ID", "NAME", "SOURCE", "OPEN", "DONE")
	} else {
		table.AddRow("", "NAME", "SOURCE", "OPEN", "DONE")
	}

	for _, l := range lists {
		marker := " "
		if l.ID == selected {
			marker = "*"
		}
		open, done := 0, 0
		for _, t := range l.Tasks {
			if t.Completed {
				done++
			} else {
				open++
			}
		}
		if tp.ShowID {
			table.AddRow(marker, l.ID, l.Name, string(l.Source), open, done)
		} else {
			table.AddRow(marker, l.Name, string(l.Source), open, done)
		}
	}

	_, _ = fmt.Fprintln(color.Output, table)
}

// Sections renders a list's sections with their task counts.
func (tp *TablePrint) Sections(storage todo.ListStorage) {
	table := uitable.New()
	table.MaxColWidth = 50

	if tp.ShowID {
		table.AddRow("ID", "SECTION", "TASKS")
	} else {
		table.AddRow("SECTION", "TASKS")
	}
	for _, sec := range storage.Sections {
		n := len(storage.SectionTasks(sec.ID))
		if tp.ShowID {
			table.AddRow(sec.ID, sec.Name, n)
		} else {
			table.AddRow(sec.Name, n)
		}
	}

	_, _ = fmt.Fprintln(color.Output, table)
}
