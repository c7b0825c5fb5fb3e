package cmd

import (
	"fmt"

	"jose/internal/oauth"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// newLoginCmd creates the login command.
func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate with your ChatGPT account",
		Long: fmt.Sprintf(`Authenticate with your ChatGPT account via OAuth.

This starts a browser-based login flow. A local server on port %d receives
the redirect from the authorization server; if the browser cannot reach
this machine (e.g. over SSH), paste the redirect URL into the terminal
instead.

Credentials are stored with owner-only permissions and refreshed
automatically by later commands.`, oauth.DefaultCallbackPort),
		Args: cobra.NoArgs,
		RunE: runLogin,
	}
}

func runLogin(cmd *cobra.Command, args []string) error {
	initLogging()

	auth, err := newAuthenticator()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Starting OAuth login flow...")
	fmt.Fprintf(cmd.OutOrStdout(), "Note: make sure port %d is not in use\n", oauth.DefaultCallbackPort)

	if _, err := auth.Login(cmd.Context()); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), text.FgGreen.Sprint("\nLogin successful! Credentials saved."))
	return nil
}
