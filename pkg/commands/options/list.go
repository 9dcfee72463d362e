package options

import (
	"github.com/spf13/cobra"
)

// ListOptions captures common list selection flags for commands.
type ListOptions struct {
	List  string
	All   bool
	Table bool
}

// AddListArgs wires list-related flags on the provided command.
func AddListArgs(cmd *cobra.Command, o *ListOptions) {
	cmd.Flags().StringVarP(&o.List, "list", "l", "",
		"Specify the list by id or name.")
}

// AddAllListsArg registers flags that operate on every visible list.
func AddAllListsArg(cmd *cobra.Command, o *ListOptions) {
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Show every list.")
	cmd.Flags().BoolVar(&o.Table, "table", false,
		"Show the list overview as a table.")
}
