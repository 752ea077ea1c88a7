package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/ebay-listing-creator/internal/api/client"
	"github.com/donaldgifford/ebay-listing-creator/internal/listing"
)

func loginCmd() *cobra.Command {
	var (
		wait     bool
		timeout  time.Duration
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start eBay sign-in",
		Long: "Requests the eBay consent URL for the session. Open it in a browser;\n" +
			"eBay redirects to the callback listener, which completes sign-in.\n" +
			"With --wait the command polls until the session is authorized.",
		Example: `  elc login
  elc login --wait --timeout 5m`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := sessionID()
			if err != nil {
				return err
			}
			c := newClient()
			v, err := c.Login(context.Background(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !wait {
				return renderView(out, v)
			}

			fmt.Fprintf(out, "Open this URL to sign in:\n\n  %s\n\nWaiting for eBay...\n", v.ConsentURL)

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			v, err = waitForAuth(ctx, c, id, interval)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Signed in.")
			return renderView(out, v)
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "poll until sign-in completes")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "how long to wait for sign-in")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "polling interval")
	return cmd
}

// waitForAuth polls the session until it leaves the waiting states. A
// session that falls back to unauthenticated carries the failure reason.
func waitForAuth(
	ctx context.Context,
	c *apiclient.Client,
	id string,
	interval time.Duration,
) (*listing.View, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		v, err := c.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		switch v.AuthState {
		case listing.Authorized:
			return v, nil
		case listing.Unauthenticated:
			if v.AuthError != "" {
				return nil, fmt.Errorf("sign-in failed: %s", v.AuthError)
			}
			return nil, errors.New("sign-in was cancelled")
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for sign-in: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the draft",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sessionAction(cmd.OutOrStdout(), (*apiclient.Client).Logout)
		},
	}
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the eBay user token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sessionAction(cmd.OutOrStdout(), (*apiclient.Client).RefreshUserToken)
		},
	}
}

// sessionAction runs a no-argument session call and renders the result.
func sessionAction(
	w io.Writer,
	call func(*apiclient.Client, context.Context, string) (*listing.View, error),
) error {
	id, err := sessionID()
	if err != nil {
		return err
	}
	v, err := call(newClient(), context.Background(), id)
	if err != nil {
		return err
	}
	return renderView(w, v)
}
