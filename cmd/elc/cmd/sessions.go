package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
)

func sessionsCmd() *cobra.Command {
	sessionsRoot := &cobra.Command{
		Use:   "sessions",
		Short: "Manage listing sessions",
		Long: "A session holds one seller's eBay tokens, sign-in state and draft.\n" +
			"Select a session for other commands with --session or ELC_SESSION.",
	}

	sessionsRoot.AddCommand(
		sessionsCreateCmd(),
		sessionsGetCmd(),
		sessionsDeleteCmd(),
	)

	return sessionsRoot
}

func sessionsCreateCmd() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a new session",
		Example: `  elc sessions create
  elc sessions create --env production`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			v, err := c.CreateSession(context.Background(), ebay.Environment(env))
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), v)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created session %s (%s)\n", v.ID, v.Environment)
			fmt.Fprintf(cmd.OutOrStdout(), "export ELC_SESSION=%s\n", v.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&env, "env", "", "eBay environment: production or sandbox (default from server)")
	return cmd
}

func sessionsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the session and its draft",
		Example: `  elc sessions get --session 01HZX3K5W4T9Q8R7M6N5P4S3V2
  ELC_SESSION=01HZX3K5W4T9Q8R7M6N5P4S3V2 elc sessions get --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := sessionID()
			if err != nil {
				return err
			}
			v, err := newClient().GetSession(context.Background(), id)
			if err != nil {
				return err
			}
			return renderView(cmd.OutOrStdout(), v)
		},
	}
}

func sessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the session and its stored tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := sessionID()
			if err != nil {
				return err
			}
			if err := newClient().DeleteSession(context.Background(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", id)
			return nil
		},
	}
}
