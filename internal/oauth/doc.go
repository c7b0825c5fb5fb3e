// Package oauth implements the Codex OAuth 2.0 login flow used by jose to
// authenticate against a ChatGPT subscription.
//
// The flow is Authorization Code with PKCE for a public client:
//
//  1. Generate a PKCE verifier/challenge pair and a state parameter.
//  2. Start a local callback server on the registered port (1455) and open
//     the authorization URL in the user's browser.
//  3. The browser redirect (or a redirect URL pasted into the terminal when
//     the browser cannot reach the local listener) delivers the
//     authorization code.
//  4. The code is exchanged server-side for id/access/refresh tokens, the
//     account ID is extracted from the id_token claims, and the resulting
//     credentials are persisted to ~/.jose/auth.json with owner-only
//     permissions.
//
// Subsequent commands go through Authenticator.ValidTokens, which refreshes
// the access token ahead of expiry using the stored refresh token. Access
// tokens, authorization codes and refresh tokens are never logged.
package oauth
