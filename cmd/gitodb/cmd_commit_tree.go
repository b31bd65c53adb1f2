package main

import (
	"fmt"

	"github.com/odvcencio/gitodb/pkg/object"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCommitTreeCmd(opts *globalOptions) *cobra.Command {
	var (
		parents    []string
		message    string
		sign       bool
		signingKey string
	)

	cmd := &cobra.Command{
		Use:   "commit-tree <tree> [-p <parent>]... -m <message>",
		Short: "Create a commit object for a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var signer object.CommitSigner
			if sign || signingKey != "" {
				s, keyPath, err := newSSHCommitSigner(signingKey)
				if err != nil {
					return err
				}
				opts.log.Debug("signing commit", zap.String("key", keyPath))
				signer = s
			}

			r, err := opts.openRepo()
			if err != nil {
				return err
			}
			defer r.Close()

			parentHashes := make([]object.Hash, len(parents))
			for i, p := range parents {
				parentHashes[i] = object.Hash(p)
			}
			h, err := r.CommitTree(object.Hash(args[0]), parentHashes, message, signer)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&parents, "parent", "p", nil, "parent commit (repeatable)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().BoolVarP(&sign, "gpg-sign", "S", false, "sign the commit with an SSH key")
	cmd.Flags().StringVar(&signingKey, "signing-key", "", "SSH private key for -S (default: ~/.ssh/id_ed25519, id_ecdsa, id_rsa)")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}
