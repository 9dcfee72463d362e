package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursedeck/todo/pkg/commands/options"
	"github.com/coursedeck/todo/pkg/runner/move"
	"github.com/coursedeck/todo/pkg/todo"
)

func addMove(topLevel *cobra.Command) {
	mo := &options.MountOptions{}
	lo := &options.ListOptions{}
	io := &options.IDOptions{}
	to := &options.TargetOptions{}

	cmd := &cobra.Command{
		Use:   "move",
		Short: "move a task into a section, optionally before another task",
		Example: `
coursedeck move <task id> --section <section id> --course c1 --tab t1
coursedeck move <task id> --section "" --before <task id> --semester s1 --list Biology
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a task id")
			}
			io.ID = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd.Context(), mo)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			listID, err := resolveList(s, lo.List)
			if err != nil {
				return output.HandleError(err)
			}

			target := to.Section
			if target == "" {
				// The flag's empty default means the unsectioned bucket.
				target = todo.UnsectionedVirtualID
			}
			r := move.Move{
				ListID:  listID,
				ID:      io.ID,
				Section: target,
				Before:  to.Before,
				Session: s,
			}
			err = r.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddMountArgs(cmd, mo)
	options.AddListArgs(cmd, lo)
	options.AddTargetArgs(cmd, to)

	topLevel.AddCommand(cmd)
}
