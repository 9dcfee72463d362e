package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursedeck/todo/pkg/commands/options"
	"github.com/coursedeck/todo/pkg/prompt"
	"github.com/coursedeck/todo/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	mo := &options.MountOptions{}
	lo := &options.ListOptions{}
	io := &options.IDOptions{}
	i := &options.InteractiveOptions{}
	watch := false

	cmd := &cobra.Command{
		Use:   "get [list]",
		Short: "get the visible lists and their tasks",
		Example: `
coursedeck get --course c1 --tab t1
coursedeck get --semester s1 --all
coursedeck get Biology --semester s1
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				lo.List = strings.Join(args, " ")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context(), mo)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			listID := ""
			if !lo.All {
				if i.Interactive {
					if listID, err = prompt.List(s.Selected(), s.Lists()); err != nil {
						return output.HandleError(err)
					}
				} else if listID, err = resolveList(s, lo.List); err != nil {
					return output.HandleError(err)
				}
			}

			r := get.Get{
				ShowID:  io.ShowID,
				All:     lo.All,
				Table:   lo.Table,
				Watch:   watch,
				ListID:  listID,
				Session: s,
			}
			err = r.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddMountArgs(cmd, mo)
	options.AddListArgs(cmd, lo)
	options.AddAllListsArg(cmd, lo)
	options.AddShowIDArgs(cmd, io)
	options.InteractiveArgs(cmd, i)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false,
		"Keep running and repaint when another process edits the store.")

	topLevel.AddCommand(cmd)
}
