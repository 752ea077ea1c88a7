package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/ebay-listing-creator/internal/config"
	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
	"github.com/donaldgifford/ebay-listing-creator/pkg/logger"
)

func authCommand() *cobra.Command {
	authRoot := &cobra.Command{
		Use:   "auth",
		Short: "Check eBay OAuth configuration",
		Long: "Offline helpers for verifying eBay credentials without starting the\n" +
			"server or creating a session.",
	}
	authRoot.AddCommand(authURLCommand(), authAppTokenCommand())
	return authRoot
}

func authURLCommand() *cobra.Command {
	var (
		envName string
		state   string
	)

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the user consent URL",
		Example: `  listing-creator auth url
  listing-creator auth url --env production --state 01J9Z3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := newAuthTarget(envName)
			if err != nil {
				return err
			}
			u, err := t.client.BuildAuthorizationURL(t.env, t.scopes, state)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	cmd.Flags().StringVar(&envName, "env", "", "eBay environment (default from config)")
	cmd.Flags().StringVar(&state, "state", "", "state parameter to embed")
	return cmd
}

func authAppTokenCommand() *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "app-token",
		Short: "Request an application token",
		Long:  "Runs the client-credentials grant and reports the token lifetime.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := newAuthTarget(envName)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			tok, err := t.client.GetAppToken(ctx, t.env)
			if err != nil {
				return err
			}
			return printAppToken(cmd.OutOrStdout(), t.env, tok)
		},
	}
	cmd.Flags().StringVar(&envName, "env", "", "eBay environment (default from config)")
	return cmd
}

// authTarget is an OAuth client bound to one environment and its scopes.
type authTarget struct {
	client *ebay.OAuthClient
	env    ebay.Environment
	scopes []string
}

func newAuthTarget(envName string) (*authTarget, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if envName == "" {
		envName = cfg.Ebay.DefaultEnvironment
	}
	env, err := ebay.ParseEnvironment(envName)
	if err != nil {
		return nil, err
	}

	newTokens, err := tokenStoreFactory(&cfg.Ebay)
	if err != nil {
		return nil, err
	}
	catalog, err := ebay.ParseEnvironment(cfg.Ebay.CatalogEnvironment)
	if err != nil {
		return nil, err
	}

	scopes, ok := cfg.Ebay.Scopes[string(env)]
	if !ok {
		scopes = ebay.DefaultScopes(env)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	return &authTarget{
		client: ebay.NewOAuthClient(cfg.Ebay.Credentials(), newTokens(),
			ebay.WithHTTPClient(&http.Client{Timeout: cfg.Ebay.Timeout}),
			ebay.WithCatalogEnvironment(catalog),
			ebay.WithLogger(log),
		),
		env:    env,
		scopes: scopes,
	}, nil
}

func printAppToken(w io.Writer, env ebay.Environment, tok *ebay.AppToken) error {
	_, err := fmt.Fprintf(w, "environment: %s\ntoken:       %s\nexpires in:  %s\n",
		env,
		maskToken(tok.AccessToken),
		time.Duration(tok.ExpiresIn)*time.Second,
	)
	return err
}

// maskToken keeps the first and last four characters of a secret.
func maskToken(s string) string {
	if len(s) <= 12 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
