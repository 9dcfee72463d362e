package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursedeck/todo/pkg/commands/options"
	"github.com/coursedeck/todo/pkg/prompt"
	"github.com/coursedeck/todo/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add something",
		Example: `
coursedeck add task finish the essay --course c1 --tab t1
coursedeck add section --semester s1 --list Biology
coursedeck add list Errands --semester s1
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTask(cmd)
	addSection(cmd)
	addList(cmd)

	topLevel.AddCommand(cmd)
}

func addTask(topLevel *cobra.Command) {
	mo := &options.MountOptions{}
	lo := &options.ListOptions{}
	to := &options.TaskOptions{}
	i := &options.InteractiveOptions{}

	title := ""
	cmd := &cobra.Command{
		Use:   "task [title]",
		Short: "add a task to a list",
		Example: `
coursedeck add task read chapter 4 --course c1 --tab t1 --due 2026-09-14
coursedeck add task -i --semester s1
`,
		Args: func(_ *cobra.Command, args []string) error {
			title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context(), mo)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			listID, err := resolveList(s, lo.List)
			if err != nil {
				return output.HandleError(err)
			}

			fields := to.Fields(title)
			if i.Interactive {
				storage, found := listStorage(s, listID)
				if !found {
					return output.HandleError(errors.New("list disappeared"))
				}
				if fields, err = prompt.TaskFields(storage); err != nil {
					return output.HandleError(err)
				}
			} else if title == "" {
				return output.HandleError(errors.New("requires a task title"))
			}

			r := add.Task{
				ListID:  listID,
				Fields:  fields,
				Session: s,
			}
			err = r.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddMountArgs(cmd, mo)
	options.AddListArgs(cmd, lo)
	options.AddTaskArgs(cmd, to)
	options.InteractiveArgs(cmd, i)

	topLevel.AddCommand(cmd)
}

func addSection(topLevel *cobra.Command) {
	mo := &options.MountOptions{}
	lo := &options.ListOptions{}

	cmd := &cobra.Command{
		Use:   "section",
		Short: "add a section to a list",
		Example: `
coursedeck add section --course c1 --tab t1
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context(), mo)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			listID, err := resolveList(s, lo.List)
			if err != nil {
				return output.HandleError(err)
			}

			r := add.Section{
				ListID:  listID,
				Session: s,
			}
			err = r.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddMountArgs(cmd, mo)
	options.AddListArgs(cmd, lo)

	topLevel.AddCommand(cmd)
}

func addList(topLevel *cobra.Command) {
	mo := &options.MountOptions{}

	name := ""
	cmd := &cobra.Command{
		Use:   "list [name]",
		Short: "add a custom list to the semester",
		Example: `
coursedeck add list Errands --semester s1
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a list name")
			}
			name = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context(), mo)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r := add.List{
				Name:    name,
				Session: s,
			}
			err = r.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddMountArgs(cmd, mo)

	topLevel.AddCommand(cmd)
}
