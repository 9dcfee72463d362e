package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursedeck/todo/pkg/commands/options"
	"github.com/coursedeck/todo/pkg/runner/edit"
	"github.com/coursedeck/todo/pkg/session"
	"github.com/coursedeck/todo/pkg/todo"
)

func addEdit(topLevel *cobra.Command) {
	mo := &options.MountOptions{}
	lo := &options.ListOptions{}
	io := &options.IDOptions{}
	to := &options.TaskOptions{}

	title := ""
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "edit a task's fields",
		Example: `
coursedeck edit --id <task id> --priority high --course c1 --tab t1
coursedeck edit new title here --id <task id> --semester s1 --list Biology
`,
		Args: func(_ *cobra.Command, args []string) error {
			title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if io.ID == "" {
				return output.HandleError(errors.New("requires --id"))
			}
			s, err := open(cmd.Context(), mo)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			listID, err := resolveList(s, lo.List)
			if err != nil {
				return output.HandleError(err)
			}

			// Unset flags keep the task's current values.
			fields, err := mergeFields(cmd, s, listID, io.ID, title, to)
			if err != nil {
				return output.HandleError(err)
			}

			r := edit.Edit{
				ListID:  listID,
				ID:      io.ID,
				Fields:  fields,
				Session: s,
			}
			err = r.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddMountArgs(cmd, mo)
	options.AddListArgs(cmd, lo)
	options.AddIDArgs(cmd, io)
	options.AddTaskArgs(cmd, to)

	topLevel.AddCommand(cmd)
}

func mergeFields(cmd *cobra.Command, s *session.Session, listID, taskID, title string, to *options.TaskOptions) (todo.TaskFields, error) {
	storage, found := listStorage(s, listID)
	if !found {
		return todo.TaskFields{}, errors.New("list disappeared")
	}
	cur, found := storage.Task(taskID)
	if !found {
		return todo.TaskFields{}, todo.ErrTaskNotFound
	}

	f := todo.TaskFields{
		Title:       cur.Title,
		Description: cur.Description,
		SectionID:   cur.SectionID,
		DueDate:     cur.DueDate,
		DueTime:     cur.DueTime,
		Priority:    cur.Priority,
	}
	if cur.Completed && cur.OriginSectionID != "" {
		f.SectionID = cur.OriginSectionID
	}

	if title != "" {
		f.Title = title
	}
	if cmd.Flags().Changed("description") {
		f.Description = to.Description
	}
	if cmd.Flags().Changed("section") {
		f.SectionID = to.Section
	}
	if cmd.Flags().Changed("due") {
		f.DueDate = to.Due
	}
	if cmd.Flags().Changed("at") {
		f.DueTime = to.At
	}
	if cmd.Flags().Changed("priority") {
		f.Priority = todo.ParsePriority(to.Priority)
	}
	return f, nil
}
