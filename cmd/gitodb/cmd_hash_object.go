package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/gitodb/pkg/object"
	"github.com/spf13/cobra"
)

func newHashObjectCmd(opts *globalOptions) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object [-w] <file>",
		Short: "Compute a blob hash for a file, optionally storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !write {
				content, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("hash-object: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), object.HashObject(object.TypeBlob, content))
				return nil
			}

			r, err := opts.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			h, err := r.WriteBlobFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the object into the object database")
	return cmd
}
