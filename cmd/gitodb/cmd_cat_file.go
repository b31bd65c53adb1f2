package main

import (
	"fmt"

	"github.com/odvcencio/gitodb/pkg/object"
	"github.com/odvcencio/gitodb/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatFileCmd(opts *globalOptions) *cobra.Command {
	var pretty, showType, showSize, exists bool

	cmd := &cobra.Command{
		Use:   "cat-file (-p | -t | -s | -e) <object>",
		Short: "Print the content, type or size of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			h := object.Hash(args[0])
			if exists {
				ok, err := r.Exists(h)
				if err != nil {
					return fmt.Errorf("cat-file: %w", err)
				}
				if !ok {
					return fmt.Errorf("cat-file %s: %w", h, object.ErrNotFound)
				}
				return nil
			}

			mode := repo.CatPretty
			switch {
			case showType:
				mode = repo.CatType
			case showSize:
				mode = repo.CatSize
			}
			return r.CatFile(h, cmd.OutOrStdout(), mode)
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "pretty-print the object content")
	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "print the object size")
	cmd.Flags().BoolVarP(&exists, "exists", "e", false, "exit with an error unless the object exists")
	cmd.MarkFlagsMutuallyExclusive("pretty", "type", "size", "exists")
	cmd.MarkFlagsOneRequired("pretty", "type", "size", "exists")
	return cmd
}
