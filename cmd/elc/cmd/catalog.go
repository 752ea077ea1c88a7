package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	catRoot := &cobra.Command{
		Use:   "categories",
		Short: "Pick the listing category",
		Long: "Category suggestions come from the eBay Taxonomy API using the\n" +
			"draft title. Selecting one loads its item specifics.",
	}

	catRoot.AddCommand(
		&cobra.Command{
			Use:   "suggest",
			Short: "Suggest categories for the draft title",
			RunE: func(cmd *cobra.Command, _ []string) error {
				id, err := sessionID()
				if err != nil {
					return err
				}
				v, err := newClient().SuggestCategories(context.Background(), id)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(cmd.OutOrStdout(), v.Suggestions)
				}
				if len(v.Suggestions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No categories found.")
					return nil
				}
				return printSuggestions(cmd.OutOrStdout(), v.Suggestions)
			},
		},
		&cobra.Command{
			Use:     "select <index>",
			Short:   "Choose a suggested category by index",
			Example: `  elc categories select 0`,
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := sessionID()
				if err != nil {
					return err
				}
				index, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid index %q: %w", args[0], err)
				}
				v, err := newClient().SelectCategory(context.Background(), id, index)
				if err != nil {
					return err
				}
				return renderView(cmd.OutOrStdout(), v)
			},
		},
	)

	return catRoot
}

func aspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aspect <name> [value]",
		Short: "Answer an item specific",
		Long:  "Sets the value of an item specific. Omitting the value clears it.",
		Example: `  elc aspect Brand Apple
  elc aspect "Storage Capacity" "128 GB"
  elc aspect Color`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sessionID()
			if err != nil {
				return err
			}
			var value string
			if len(args) == 2 {
				value = args[1]
			}
			v, err := newClient().SetAspect(context.Background(), id, args[0], value)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), v)
			}
			return printAspects(cmd.OutOrStdout(), v.Aspects, v.Draft.SelectedAspects)
		},
	}
}
