package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReplyCommand(opts *Options) *cobra.Command {
	var (
		commentID int64
		body      string
	)

	cmd := &cobra.Command{
		Use:   "reply",
		Short: "Reply to a review comment",
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

			result, err := a.mutations.ReplyToComment(cmd.Context(), ref, commentID, body)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Replied to comment %d as comment %d.\n", commentID, result.Reply.ID)
			renderView(cmd.OutOrStdout(), ref, a.session.View())
			return nil
		},
	}

	cmd.Flags().Int64Var(&commentID, "comment", 0, "ID of the comment to reply to")
	cmd.Flags().StringVarP(&body, "message", "m", "", "Reply body")
	_ = cmd.MarkFlagRequired("comment")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}
