package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultHTTPTimeout is the timeout for token endpoint requests.
const DefaultHTTPTimeout = 30 * time.Second

// oauthScope is the scope requested in both the authorization request and
// the refresh grant. offline_access is what yields the refresh token.
const oauthScope = "openid profile email offline_access"

// Client talks to the authorization server's token endpoint. It performs
// the authorization-code exchange during login and refresh grants
// afterwards.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
}

// NewClient creates a token endpoint client. A nil httpClient selects a
// default with DefaultHTTPTimeout.
func NewClient(endpoints Endpoints, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}

	return &Client{
		endpoints:  endpoints,
		httpClient: httpClient,
	}
}

// AuthorizationURL builds the URL the user opens in the browser to grant
// consent. The two provider-specific flags enable the simplified Codex
// flow and organization claims in the id_token.
func (c *Client) AuthorizationURL(pkce *PKCEChallenge, state, redirectURI string) string {
	params := url.Values{
		"response_type":             {"code"},
		"client_id":                 {c.endpoints.ClientID},
		"redirect_uri":              {redirectURI},
		"scope":                     {oauthScope},
		"code_challenge":            {pkce.CodeChallenge},
		"code_challenge_method":     {pkce.CodeChallengeMethod},
		"id_token_add_organizations": {"true"},
		"codex_cli_simplified_flow": {"true"},
		"state":                     {state},
	}

	return c.endpoints.AuthorizeURL + "?" + params.Encode()
}

// tokenResponse is the subset of the token endpoint response we consume.
type tokenResponse struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// ExchangeCode exchanges an authorization code for tokens. The PKCE
// verifier (not the challenge) accompanies the request so the server can
// bind the code to this login attempt.
//
// The authorization code is never logged and never included in errors.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string, pkce *PKCEChallenge) (*oauth2.Token, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"client_id":     {c.endpoints.ClientID},
		"code_verifier": {pkce.CodeVerifier},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoints.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &TokenExchangeError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	token, status, err := c.doTokenRequest(req)
	if err != nil {
		return nil, &TokenExchangeError{StatusCode: status, Err: err}
	}

	return token, nil
}

// Refresh exchanges a refresh token for a new token set. The server may
// choose not to rotate the refresh token, in which case the response omits
// it and the caller keeps the old one.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	payload, err := json.Marshal(map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
		"client_id":     c.endpoints.ClientID,
		"scope":         oauthScope,
	})
	if err != nil {
		return nil, &TokenRefreshError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoints.TokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &TokenRefreshError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	token, status, err := c.doTokenRequest(req)
	if err != nil {
		return nil, &TokenRefreshError{StatusCode: status, Err: err}
	}

	return token, nil
}

// doTokenRequest performs a token endpoint request and parses the response
// into an oauth2.Token with the id_token carried in its extra data.
// Returns the HTTP status code alongside any error so callers can build
// their typed errors.
func (c *Client) doTokenRequest(req *http.Request) (*oauth2.Token, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(body)))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("malformed token response: %w", err)
	}

	if tr.AccessToken == "" {
		return nil, resp.StatusCode, errors.New("token response missing access_token")
	}

	token := &oauth2.Token{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tr.TokenType,
	}

	if tr.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	if tr.IDToken != "" {
		token = token.WithExtra(map[string]interface{}{
			"id_token": tr.IDToken,
		})
	}

	return token, resp.StatusCode, nil
}
