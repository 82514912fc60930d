// Package cli defines the command-line interface for reviewdeck.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewdeck/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	WorkDir  string
	LogLevel logging.Level
}

// Execute builds the root command, runs it with the provided args and
// context, and returns any error.
func Execute(ctx context.Context, args []string) error {
	opts := &Options{
		LogLevel: logging.LevelInfo,
	}

	rootCmd := newRootCommand(opts)
	rootCmd.SetArgs(args)

	return rootCmd.ExecuteContext(ctx)
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reviewdeck",
		Short:         "reviewdeck syncs GitHub pull request review threads with your working copy",
		Long:          "reviewdeck finds the open pull request for the current branch, fetches its unresolved review threads, and lets you read, reply to, and resolve them from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.ParseLevel(cmd.Flag("log-level").Value.String())
			opts.LogLevel = level
			slog.SetDefault(logging.NewLogger(os.Stderr, level))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.WorkDir, "workdir", "C", ".", "Path to the working copy")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSyncCommand(opts),
		newReplyCommand(opts),
		newResolveCommand(opts),
		newExportCommand(opts),
		newAuthCommand(opts),
	)

	return cmd
}
