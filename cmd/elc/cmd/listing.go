package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate listing copy with the LLM",
		Long: "Writes a title and description from the draft's title, manufacturer\n" +
			"and summary. The result can be edited with draft set.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := sessionID()
			if err != nil {
				return err
			}
			v, err := newClient().GenerateListing(context.Background(), id)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), v)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", v.Draft.GeneratedTitle, v.Draft.GeneratedDescription)
			return nil
		},
	}
}

func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Assemble the listing from the draft",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := sessionID()
			if err != nil {
				return err
			}
			l, err := newClient().CreateListing(context.Background(), id)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), l)
			}
			return printListing(cmd.OutOrStdout(), l)
		},
	}
}

func quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show the server's daily eBay call quota",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := newClient().Quota(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), u)
			}
			return printQuota(cmd.OutOrStdout(), u)
		},
	}
}
