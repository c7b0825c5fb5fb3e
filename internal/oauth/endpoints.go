package oauth

import "fmt"

const (
	// DefaultClientID is the OAuth client identifier registered for the
	// Codex CLI flow. jose reuses it to authenticate against the same
	// authorization server.
	DefaultClientID = "app_EMoamEEZ73f0CkXaXp7hrann"

	// DefaultIssuer is the authorization server.
	DefaultIssuer = "https://auth.openai.com"

	// DefaultCallbackPort is the only redirect port registered with the
	// authorization server. The flow cannot fall back to another port; if
	// this one is taken, login fails with a PortInUseError.
	DefaultCallbackPort = 1455

	// CallbackPath is the redirect path registered with the authorization
	// server.
	CallbackPath = "/auth/callback"
)

// Endpoints holds the provider constants for the OAuth flow. They are
// injected into the Client and Authenticator constructors rather than read
// from globals so that tests can substitute a local authorization server.
type Endpoints struct {
	// ClientID is the OAuth client identifier.
	ClientID string

	// AuthorizeURL is the authorization endpoint opened in the browser.
	AuthorizeURL string

	// TokenURL is the token endpoint used for code exchange and refresh.
	TokenURL string

	// CallbackPort is the local port the callback server binds to.
	// A value of 0 selects an ephemeral port (tests only).
	CallbackPort int
}

// DefaultEndpoints returns the production endpoint set.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		ClientID:     DefaultClientID,
		AuthorizeURL: DefaultIssuer + "/oauth/authorize",
		TokenURL:     DefaultIssuer + "/oauth/token",
		CallbackPort: DefaultCallbackPort,
	}
}

// RedirectURI returns the redirect URI for the given local port. The
// authorization server matches this value against its registered redirect
// URI, so the host is always "localhost".
func RedirectURI(port int) string {
	return fmt.Sprintf("http://localhost:%d%s", port, CallbackPath)
}
