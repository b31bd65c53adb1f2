package main

import (
	"fmt"
	"path/filepath"

	"github.com/odvcencio/gitodb/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty repository (default: the --dir directory)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := opts.dir
			if len(args) == 1 {
				root = args[0]
			}

			// Init creates root and the .git skeleton below it.
			r, err := repo.Init(root, opts.repoOptions()...)
			if err != nil {
				return err
			}
			defer r.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty Git repository in %s%c\n", r.GitDir, filepath.Separator)
			return nil
		},
	}
}
