package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursedeck/todo/pkg/commands/options"
	"github.com/coursedeck/todo/pkg/runner/complete"
)

func addComplete(topLevel *cobra.Command) {
	mo := &options.MountOptions{}
	lo := &options.ListOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "complete",
		Aliases: []string{"completed", "done"},
		Short:   "complete a task",
		Example: `
coursedeck complete <task id> --course c1 --tab t1
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

			r := complete.Complete{
				ListID:  listID,
				ID:      io.ID,
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
