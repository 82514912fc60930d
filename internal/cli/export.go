package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewdeck/internal/adapter/driving/export"
)

func newExportCommand(opts *Options) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write unresolved review threads as an HTML digest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			view, err := a.sync.Sync(cmd.Context(), opts.WorkDir)
			if err != nil {
				return err
			}
			ref, _ := a.session.PullRequest()

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			if err := export.WriteDigest(out, ref, view); err != nil {
				return fmt.Errorf("writing digest: %w", err)
			}
			if outPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Digest written to %s.\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")

	return cmd
}
