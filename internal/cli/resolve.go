package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCommand(opts *Options) *cobra.Command {
	var commentID int64

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the review thread containing a comment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ref, err := a.sync.Resolve(cmd.Context(), opts.WorkDir)
			if err != nil {
				return err
			}

			result, err := a.mutations.ResolveThread(cmd.Context(), ref, commentID)
			if err != nil {
				return err
			}

			if !result.Applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Comment %d belongs to no unresolved thread; nothing to do.\n", commentID)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Thread containing comment %d resolved.\n", commentID)
			renderView(cmd.OutOrStdout(), ref, a.session.View())
			return nil
		},
	}

	cmd.Flags().Int64Var(&commentID, "comment", 0, "ID of any comment in the thread to resolve")
	_ = cmd.MarkFlagRequired("comment")

	return cmd
}
