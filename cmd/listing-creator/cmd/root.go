// Package cmd implements the CLI commands for listing-creator.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "listing-creator",
	Short: "Draft and publish eBay listings",
	Long: "An API-first service that walks a seller through eBay OAuth consent, " +
		"suggests categories and item specifics from the Taxonomy API, and " +
		"writes listing copy with an LLM.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(authCommand())
	rootCmd.AddCommand(versionCommand())
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
