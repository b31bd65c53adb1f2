package main

import (
	"github.com/odvcencio/gitodb/pkg/object"
	"github.com/spf13/cobra"
)

func newLsTreeCmd(opts *globalOptions) *cobra.Command {
	var nameOnly bool

	cmd := &cobra.Command{
		Use:   "ls-tree [--name-only] <tree>",
		Short: "List the entries of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			return r.LsTree(object.Hash(args[0]), cmd.OutOrStdout(), nameOnly)
		},
	}

	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "list only entry names")
	return cmd
}
