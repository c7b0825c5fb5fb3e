package oauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// authClaimNamespace is the custom claim bucket the authorization server
// embeds in its id_tokens.
const authClaimNamespace = "https://api.openai.com/auth"

// accountIDClaim is the account identifier inside the auth claim bucket.
// It is required, together with the access token, for Responses API calls.
const accountIDClaim = "chatgpt_account_id"

// ParseClaims decodes the payload of a JWT without verifying its signature.
// Trust in these tokens comes from the direct TLS channel to the
// authorization server, not from local signature checks.
//
// Claim extraction is advisory: any decode or parse failure returns nil
// rather than an error.
func ParseClaims(token string) jwt.MapClaims {
	if token == "" {
		return nil
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}

// AccountID extracts the ChatGPT account identifier from an id_token.
// Returns an empty string if the token or the claim is absent; the caller
// decides whether that is fatal.
func AccountID(idToken string) string {
	claims := ParseClaims(idToken)
	if claims == nil {
		return ""
	}

	bucket, ok := claims[authClaimNamespace].(map[string]interface{})
	if !ok {
		return ""
	}

	accountID, _ := bucket[accountIDClaim].(string)
	return accountID
}

// Expiry returns the "exp" claim of a token, or the zero time if the token
// cannot be decoded or carries no expiry.
func Expiry(token string) time.Time {
	claims := ParseClaims(token)
	if claims == nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
