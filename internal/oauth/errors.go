package oauth

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned when no usable credentials exist and the user
// must run `jose login`.
var ErrAuthRequired = errors.New("authentication required")

// ErrMissingCode is returned when the authorization callback arrives
// without a code parameter.
var ErrMissingCode = errors.New("authorization response missing code")

// ErrStateMismatch is returned when the state parameter on the callback
// does not match the one generated for this login attempt.
var ErrStateMismatch = errors.New("state parameter mismatch")

// PortInUseError indicates the registered callback port is already bound,
// most likely by another running instance. The flow must not retry on a
// different port because only this one is registered with the
// authorization server.
type PortInUseError struct {
	Port int
	Err  error
}

// Error implements the error interface.
func (e *PortInUseError) Error() string {
	return fmt.Sprintf("port %d is already in use (is another jose login running?)", e.Port)
}

// Unwrap returns the underlying bind error.
func (e *PortInUseError) Unwrap() error {
	return e.Err
}

// TokenExchangeError indicates the authorization-code exchange against the
// token endpoint failed. The authorization code itself is never included.
type TokenExchangeError struct {
	// StatusCode is the HTTP status of the token endpoint response, or 0
	// for transport-level failures.
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *TokenExchangeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("token exchange failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("token exchange failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *TokenExchangeError) Unwrap() error {
	return e.Err
}

// TokenRefreshError indicates a refresh-token grant failed. The stored
// credentials are left untouched on disk so a later re-login can still
// succeed.
type TokenRefreshError struct {
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *TokenRefreshError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("token refresh failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *TokenRefreshError) Unwrap() error {
	return e.Err
}
