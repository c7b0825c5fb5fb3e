package oauth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// defaultCredentialDir is the per-user directory holding the credential
// file, relative to the home directory.
const defaultCredentialDir = ".jose"

// credentialFile is the name of the credential file inside the directory.
const credentialFile = "auth.json"

// Tokens is the token set obtained from the authorization server.
type Tokens struct {
	// IDToken is the OIDC identity token; only used to extract AccountID.
	IDToken string `json:"id_token"`

	// AccessToken is the short-lived bearer token used in API calls.
	AccessToken string `json:"access_token"`

	// RefreshToken is the long-lived token used to mint new access tokens.
	RefreshToken string `json:"refresh_token"`

	// AccountID is the ChatGPT account identifier extracted from IDToken.
	// May be empty when claim extraction failed; the credentials are then
	// still usable for refresh but not for API calls.
	AccountID string `json:"account_id"`
}

// Credentials is the persisted unit of trust.
type Credentials struct {
	Tokens Tokens `json:"tokens"`

	// LastRefresh is the RFC 3339 timestamp of the most recent successful
	// refresh or initial login.
	LastRefresh string `json:"last_refresh"`
}

// TokensFromOAuth2 converts an exchange or refresh result into the
// persisted token set, extracting the account ID from the id_token carried
// in the token's extra data.
func TokensFromOAuth2(token *oauth2.Token) Tokens {
	idToken, _ := token.Extra("id_token").(string)

	return Tokens{
		IDToken:      idToken,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		AccountID:    AccountID(idToken),
	}
}

// CredentialStore persists credentials to a single JSON file with
// owner-only permissions. There is no locking; concurrent processes race
// with last-writer-wins semantics, which is acceptable for an interactive
// single-user tool.
type CredentialStore struct {
	path string
}

// NewCredentialStore creates a store backed by the given file path.
// An empty path selects the default location under the home directory.
func NewCredentialStore(path string) (*CredentialStore, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, defaultCredentialDir, credentialFile)
	}

	return &CredentialStore{path: path}, nil
}

// Path returns the file path backing the store.
func (s *CredentialStore) Path() string {
	return s.path
}

// Load reads the persisted credentials. A missing or unreadable file and
// corrupt JSON all yield nil; the caller treats that as "not logged in".
func (s *CredentialStore) Load() *Credentials {
	// #nosec G304 -- the path is fixed at construction, not user input
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil
	}

	return &creds
}

// Save writes the full credential record, replacing any previous content.
// The parent directory is created on demand with owner-only permissions.
func (s *CredentialStore) Save(creds *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}

	return nil
}
