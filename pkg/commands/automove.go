package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coursedeck/todo/pkg/commands/options"
)

func addAutoMove(topLevel *cobra.Command) {
	mo := &options.MountOptions{}

	cmd := &cobra.Command{
		Use:   "automove [on|off]",
		Short: "show or toggle moving completed tasks to the Completed section",
		Example: `
coursedeck automove --course c1 --tab t1
coursedeck automove off --semester s1
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("expects at most one of: on, off")
			}
			if len(args) == 1 && args[0] != "on" && args[0] != "off" {
				return fmt.Errorf("unknown setting %q, expects on or off", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context(), mo)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			if len(args) == 1 {
				if err := s.SetAutoMove(args[0] == "on"); err != nil {
					return output.HandleError(err)
				}
			}

			state := "off"
			if s.AutoMove() {
				state = "on"
			}
			fmt.Printf("automove is %s\n", state)
			return nil
		},
	}

	options.AddMountArgs(cmd, mo)

	topLevel.AddCommand(cmd)
}
