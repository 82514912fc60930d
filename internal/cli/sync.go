package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewdeck/internal/application"
	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

func newSyncCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch unresolved review threads for the current branch's pull request",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			view, err := a.sync.Sync(cmd.Context(), opts.WorkDir)
			if errors.Is(err, model.ErrNoPullRequestForBranch) {
				fmt.Fprintln(cmd.OutOrStdout(), "No open pull request for the current branch.")
				return nil
			}
			if err != nil {
				return err
			}

			ref, _ := a.session.PullRequest()
			renderView(cmd.OutOrStdout(), ref, view)
			return nil
		},
	}
}

// renderView prints the thread view as an indented text tree: thread heads
// flush left, replies indented beneath them.
func renderView(w io.Writer, ref model.PullRequestRef, view *application.ThreadView) {
	items := view.Items()
	fmt.Fprintf(w, "%s: %d unresolved comments in %d threads\n", ref, view.Len(), len(items))

	for _, item := range items {
		printComment(w, item.Comment, "")
		for _, child := range item.Children {
			printComment(w, child, "    ")
		}
	}
}

func printComment(w io.Writer, c model.Comment, indent string) {
	fmt.Fprintf(w, "\n%s[%d] %s  %s:%d  %s\n", indent, c.ID, c.Author, c.Path, c.DisplayLine(), c.CreatedAt.Format("2006-01-02 15:04"))
	for _, line := range strings.Split(c.Body, "\n") {
		fmt.Fprintf(w, "%s    %s\n", indent, line)
	}
}
