package commands

import (
	"github.com/spf13/cobra"

	"github.com/coursedeck/todo/pkg/commands/options"
	"github.com/coursedeck/todo/pkg/runner/syncup"
)

func addSync(topLevel *cobra.Command) {
	mo := &options.MountOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "push pending changes and refresh from the backend",
		Example: `
coursedeck sync --semester s1
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd.Context(), mo)
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r := syncup.Sync{
				Session: s,
			}
			err = r.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddMountArgs(cmd, mo)

	topLevel.AddCommand(cmd)
}
