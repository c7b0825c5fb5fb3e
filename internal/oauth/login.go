package oauth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"jose/pkg/logging"
)

// refreshMargin is how close to expiry an access token may get before it
// is refreshed. The margin absorbs clock skew and in-flight request
// latency.
const refreshMargin = 5 * time.Minute

// successPageGrace is how long the login flow waits after completion so
// the browser can load the success page before the server shuts down.
const successPageGrace = 500 * time.Millisecond

// AuthenticatorConfig configures the Authenticator. Zero values select
// production defaults.
type AuthenticatorConfig struct {
	// Endpoints is the provider endpoint set.
	Endpoints Endpoints

	// Store persists the credentials. Required.
	Store *CredentialStore

	// HTTPClient overrides the token endpoint HTTP client.
	HTTPClient *http.Client

	// Stdin is the source for the manual redirect fallback.
	// Defaults to os.Stdin.
	Stdin io.Reader

	// Out receives user-facing progress messages. Defaults to os.Stdout.
	Out io.Writer

	// OpenBrowser opens the authorization URL. Defaults to OpenBrowser.
	OpenBrowser func(url string) error
}

// Authenticator drives the end-to-end login flow and gates every
// authenticated operation on a valid token pair.
type Authenticator struct {
	endpoints   Endpoints
	client      *Client
	store       *CredentialStore
	stdin       io.Reader
	out         io.Writer
	openBrowser func(url string) error
}

// NewAuthenticator creates an Authenticator from the given configuration.
func NewAuthenticator(cfg AuthenticatorConfig) *Authenticator {
	stdin := cfg.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	open := cfg.OpenBrowser
	if open == nil {
		open = OpenBrowser
	}

	return &Authenticator{
		endpoints:   cfg.Endpoints,
		client:      NewClient(cfg.Endpoints, cfg.HTTPClient),
		store:       cfg.Store,
		stdin:       stdin,
		out:         out,
		openBrowser: open,
	}
}

// Login runs the browser-based authorization flow and persists the
// resulting credentials.
//
// Two sources can complete the flow: the local callback server receiving
// the browser redirect, and a redirect URL pasted into the terminal for
// environments where the browser cannot reach this machine. Whichever
// delivers a result first wins; the other is abandoned. The wait is
// unbounded unless the context is cancelled.
func (a *Authenticator) Login(ctx context.Context) (*Credentials, error) {
	pkce, err := GeneratePKCE()
	if err != nil {
		return nil, err
	}

	state, err := GenerateState()
	if err != nil {
		return nil, err
	}

	var server *CallbackServer
	exchange := func(ctx context.Context, code string) (*Tokens, error) {
		token, err := a.client.ExchangeCode(ctx, code, RedirectURI(server.Port()), pkce)
		if err != nil {
			return nil, err
		}
		tokens := TokensFromOAuth2(token)
		return &tokens, nil
	}

	server = NewCallbackServer(a.endpoints.CallbackPort, state, exchange)
	redirectURI, err := server.Start()
	if err != nil {
		return nil, err
	}
	defer server.Stop()

	authURL := a.client.AuthorizationURL(pkce, state, redirectURI)

	fmt.Fprintln(a.out, "Opening browser for authentication...")
	fmt.Fprintf(a.out, "If the browser doesn't open, visit:\n%s\n", authURL)

	if err := a.openBrowser(authURL); err != nil {
		logging.Warn("oauth", err, "could not open browser")
	}

	fmt.Fprintln(a.out, "\nWaiting for authentication callback...")
	fmt.Fprintln(a.out, "(If the browser can't reach this machine, paste the redirect URL here)")

	go a.watchStdin(ctx, server)

	select {
	case result := <-server.Result():
		if result.Err != nil {
			return nil, result.Err
		}

		// Let the browser fetch the success page before shutdown.
		time.Sleep(successPageGrace)

		creds := &Credentials{
			Tokens:      *result.Tokens,
			LastRefresh: time.Now().UTC().Format(time.RFC3339),
		}
		if err := a.store.Save(creds); err != nil {
			logging.Warn("oauth", err, "login succeeded but saving credentials failed")
			fmt.Fprintln(a.out, "Warning: credentials could not be saved and will not survive this process.")
		}
		return creds, nil

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// watchStdin reads lines from standard input until one contains a redirect
// URL with an authorization code, then feeds it through the same exchange
// and completion path as the browser callback.
func (a *Authenticator) watchStdin(ctx context.Context, server *CallbackServer) {
	scanner := bufio.NewScanner(a.stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.Contains(line, "code=") {
			continue
		}

		code, ok := codeFromRedirectURL(line)
		if !ok {
			continue
		}

		fmt.Fprintln(a.out, "Processing pasted URL...")

		tokens, err := server.exchange(ctx, code)
		server.Complete(tokens, err)
		return
	}
}

// codeFromRedirectURL extracts the code query parameter from a pasted
// redirect URL.
func codeFromRedirectURL(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	code := parsed.Query().Get("code")
	return code, code != ""
}

// ValidTokens loads the persisted credentials and returns a ready-to-use
// access token and account ID, refreshing first when the access token is
// missing, undecodable, or within refreshMargin of expiry.
//
// Returns ErrAuthRequired when there are no credentials or no refresh
// token to recover with. A failed refresh leaves the stored credentials
// untouched on disk so a later re-login can still succeed; no stale token
// is ever returned.
func (a *Authenticator) ValidTokens(ctx context.Context) (accessToken, accountID string, err error) {
	creds := a.store.Load()
	if creds == nil {
		return "", "", ErrAuthRequired
	}

	if !needsRefresh(creds.Tokens.AccessToken) {
		return creds.Tokens.AccessToken, creds.Tokens.AccountID, nil
	}

	if creds.Tokens.RefreshToken == "" {
		// Unrecoverable without re-login.
		return "", "", ErrAuthRequired
	}

	token, err := a.client.Refresh(ctx, creds.Tokens.RefreshToken)
	if err != nil {
		return "", "", err
	}

	tokens := TokensFromOAuth2(token)
	if tokens.RefreshToken == "" {
		// The server chose not to rotate the refresh token.
		tokens.RefreshToken = creds.Tokens.RefreshToken
	}

	updated := &Credentials{
		Tokens:      tokens,
		LastRefresh: time.Now().UTC().Format(time.RFC3339),
	}
	if err := a.store.Save(updated); err != nil {
		logging.Warn("oauth", err, "refreshed tokens could not be saved")
	}

	logging.Debug("oauth", "access token refreshed")
	return tokens.AccessToken, tokens.AccountID, nil
}

// Store returns the credential store backing this authenticator.
func (a *Authenticator) Store() *CredentialStore {
	return a.store
}

// needsRefresh reports whether an access token must be refreshed before
// use: absent or undecodable claims, a missing expiry, or an expiry within
// refreshMargin of now.
func needsRefresh(accessToken string) bool {
	if accessToken == "" {
		return true
	}

	exp := Expiry(accessToken)
	if exp.IsZero() {
		return true
	}

	return !time.Now().Add(refreshMargin).Before(exp)
}
