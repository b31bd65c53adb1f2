package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/gitodb/pkg/repo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "gitodb 0.1.0-dev"

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	dir        string
	configPath string
	verbose    bool

	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "gitodb",
		Short:         "Read and write git loose objects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.log = newLogger(cmd.ErrOrStderr(), opts.verbose)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.log.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "repository root")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: .git/gitodb.toml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(opts))
	root.AddCommand(newHashObjectCmd(opts))
	root.AddCommand(newCatFileCmd(opts))
	root.AddCommand(newLsTreeCmd(opts))
	root.AddCommand(newWriteTreeCmd(opts))
	root.AddCommand(newCommitTreeCmd(opts))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// openRepo opens the repository named by --dir with the global logger and
// config override applied.
func (o *globalOptions) openRepo() (*repo.Repo, error) {
	return repo.Open(o.dir, o.repoOptions()...)
}

func (o *globalOptions) repoOptions() []repo.Option {
	opts := []repo.Option{repo.WithLogger(o.log)}
	if o.configPath != "" {
		opts = append(opts, repo.WithConfigFile(o.configPath))
	}
	return opts
}
