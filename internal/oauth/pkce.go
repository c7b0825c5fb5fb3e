package oauth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const (
	// pkceVerifierBytes is the number of random bytes for the PKCE code
	// verifier. 64 bytes hex-encode to a 128-character verifier, the length
	// the authorization server expects from the Codex CLI flow.
	pkceVerifierBytes = 64

	// stateBytes is the number of random bytes for the OAuth state
	// parameter. 32 bytes encode to 43 base64url characters.
	stateBytes = 32
)

// PKCEChallenge represents a PKCE (Proof Key for Code Exchange) pair bound
// to a single login attempt. The verifier is kept in memory only and is
// discarded after the code exchange.
type PKCEChallenge struct {
	// CodeVerifier is the cryptographically random secret. It is sent only
	// in the server-side token request, never to the browser.
	CodeVerifier string

	// CodeChallenge is the base64url-encoded (no padding) SHA-256 hash of
	// the verifier, sent in the authorization request.
	CodeChallenge string

	// CodeChallengeMethod is always "S256".
	CodeChallengeMethod string
}

// GeneratePKCE generates a new PKCE code verifier and its S256 challenge.
func GeneratePKCE() (*PKCEChallenge, error) {
	buf := make([]byte, pkceVerifierBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate PKCE verifier: %w", err)
	}

	verifier := hex.EncodeToString(buf)
	hash := sha256.Sum256([]byte(verifier))

	return &PKCEChallenge{
		CodeVerifier:        verifier,
		CodeChallenge:       base64.RawURLEncoding.EncodeToString(hash[:]),
		CodeChallengeMethod: "S256",
	}, nil
}

// GenerateState generates a random state parameter linking the
// authorization response back to the login attempt that produced it.
func GenerateState() (string, error) {
	buf := make([]byte, stateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
