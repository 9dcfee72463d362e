package options

import (
	"github.com/spf13/cobra"

	"github.com/coursedeck/todo/pkg/todo"
)

// TaskOptions captures task field flags for add and edit commands.
type TaskOptions struct {
	Description string
	Section     string
	Due         string
	At          string
	Priority    string
}

// AddTaskArgs wires the task field flags on the provided command.
func AddTaskArgs(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().StringVarP(&o.Description, "description", "d", "",
		"Longer free-form notes for the task.")
	cmd.Flags().StringVarP(&o.Section, "section", "s", "",
		"Section id the task belongs to.")
	cmd.Flags().StringVar(&o.Due, "due", "",
		`Due date, example: --due="2026-09-14".`)
	cmd.Flags().StringVar(&o.At, "at", "",
		`Due time, example: --at="14:30". Needs --due.`)
	cmd.Flags().StringVarP(&o.Priority, "priority", "p", "",
		"One of low, medium, high, urgent.")
}

// Fields assembles the flag values into task fields for the given title.
func (o *TaskOptions) Fields(title string) todo.TaskFields {
	return todo.TaskFields{
		Title:       title,
		Description: o.Description,
		SectionID:   o.Section,
		DueDate:     o.Due,
		DueTime:     o.At,
		Priority:    todo.ParsePriority(o.Priority),
	}
}

// TargetOptions captures drag-drop destination flags for the move command.
type TargetOptions struct {
	Section string
	Before  string
}

// AddTargetArgs wires the move destination flags on the provided command.
func AddTargetArgs(cmd *cobra.Command, o *TargetOptions) {
	cmd.Flags().StringVarP(&o.Section, "section", "s", "",
		"Destination section id. Empty means the unsectioned bucket.")
	cmd.Flags().StringVar(&o.Before, "before", "",
		"Insert ahead of this task id. Empty appends to the section.")
}
