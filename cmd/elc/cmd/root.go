// Package cmd implements the elc CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/ebay-listing-creator/internal/api/client"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "elc",
		Short: "CLI client for the eBay Listing Creator",
		Long: "elc is a command-line client for the eBay Listing Creator API.\n" +
			"It drives a listing session from the terminal: sign in to eBay,\n" +
			"fill in the draft, pick a category and generate listing copy.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.elc.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().
		String("session", "", "session ID (or ELC_SESSION)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))
	cobra.CheckErr(viper.BindPFlag("session", rootCmd.PersistentFlags().Lookup("session")))

	rootCmd.AddCommand(sessionsCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(refreshCmd())
	rootCmd.AddCommand(draftCmd())
	rootCmd.AddCommand(mediaCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(aspectCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(quotaCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".elc")
	}

	viper.SetEnvPrefix("ELC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

var errNoSession = errors.New("no session selected: pass --session or set ELC_SESSION")

// sessionID returns the selected session.
func sessionID() (string, error) {
	id := viper.GetString("session")
	if id == "" {
		return "", errNoSession
	}
	return id, nil
}
