package oauth

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func TestGeneratePKCE(t *testing.T) {
	pkce, err := GeneratePKCE()
	if err != nil {
		t.Fatalf("GeneratePKCE() failed: %v", err)
	}

	// 64 random bytes hex-encode to 128 characters
	if len(pkce.CodeVerifier) != 128 {
		t.Errorf("CodeVerifier length = %d, want 128", len(pkce.CodeVerifier))
	}

	if pkce.CodeChallengeMethod != "S256" {
		t.Errorf("CodeChallengeMethod = %q, want S256", pkce.CodeChallengeMethod)
	}

	// The challenge must be the base64url-encoded SHA256 of the verifier
	hash := sha256.Sum256([]byte(pkce.CodeVerifier))
	expected := base64.RawURLEncoding.EncodeToString(hash[:])

	if pkce.CodeChallenge != expected {
		t.Errorf("CodeChallenge = %q, want %q", pkce.CodeChallenge, expected)
	}
}

func TestGeneratePKCE_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 10000; i++ {
		pkce, err := GeneratePKCE()
		if err != nil {
			t.Fatalf("GeneratePKCE() failed on iteration %d: %v", i, err)
		}

		if seen[pkce.CodeVerifier] {
			t.Fatalf("Duplicate code verifier generated on iteration %d", i)
		}
		seen[pkce.CodeVerifier] = true
	}
}

func TestGenerateState(t *testing.T) {
	state, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() failed: %v", err)
	}

	// 32 bytes base64url-encode to 43 characters
	if len(state) != 43 {
		t.Errorf("State length = %d, want 43", len(state))
	}

	other, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() failed: %v", err)
	}
	if state == other {
		t.Error("two generated states are identical")
	}
}
