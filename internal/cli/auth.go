package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	githubadapter "github.com/ericfisherdev/reviewdeck/internal/adapter/driven/github"
)

func newAuthCommand(_ *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored GitHub token",
	}

	var token string
	setToken := &cobra.Command{
		Use:   "set-token",
		Short: "Validate and store a GitHub personal access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			username, err := githubadapter.ValidateToken(cmd.Context(), token, a.cfg.HTTPTimeout)
			if err != nil {
				return err
			}

			if err := a.creds.SetToken(cmd.Context(), token); err != nil {
				return err
			}
			a.provider.Invalidate()

			fmt.Fprintf(cmd.OutOrStdout(), "Token stored for %s.\n", username)
			return nil
		},
	}
	setToken.Flags().StringVar(&token, "token", "", "GitHub personal access token")
	_ = setToken.MarkFlagRequired("token")

	cmd.AddCommand(setToken)
	return cmd
}
