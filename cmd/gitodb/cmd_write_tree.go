package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWriteTreeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "write-tree",
		Short: "Write the working directory as tree objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			h, err := r.WriteTree()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
