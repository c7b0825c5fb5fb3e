package cmd

import (
	"fmt"
	"time"

	"jose/internal/oauth"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long: `Show the current authentication status: whether credentials exist,
when the access token expires, and the account they belong to.`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	initLogging()

	store, err := oauth.NewCredentialStore("")
	if err != nil {
		return err
	}

	creds := store.Load()
	if creds == nil {
		fmt.Fprintln(cmd.OutOrStdout(), text.FgYellow.Sprint("Not authenticated."))
		fmt.Fprintln(cmd.OutOrStdout(), "Run: jose login")
		return nil
	}

	out := cmd.OutOrStdout()

	if exp := oauth.Expiry(creds.Tokens.AccessToken); !exp.IsZero() {
		status := text.FgGreen.Sprint("Authenticated")
		if exp.Before(time.Now()) {
			status = text.FgYellow.Sprint("Authenticated (token expired, will refresh on next use)")
		}
		fmt.Fprintf(out, "Status:        %s\n", status)
		fmt.Fprintf(out, "Token expires: %s\n", exp.UTC().Format("2006-01-02 15:04:05 UTC"))
	} else if creds.Tokens.AccessToken != "" {
		fmt.Fprintf(out, "Status:        %s\n", text.FgGreen.Sprint("Authenticated"))
	} else {
		fmt.Fprintf(out, "Status:        %s\n", text.FgYellow.Sprint("Credential file exists but carries no access token"))
		fmt.Fprintln(out, "Run: jose login")
		return nil
	}

	if creds.Tokens.AccountID != "" {
		fmt.Fprintf(out, "Account:       %s\n", creds.Tokens.AccountID)
	}
	if creds.LastRefresh != "" {
		fmt.Fprintf(out, "Last refresh:  %s\n", creds.LastRefresh)
	}

	return nil
}
