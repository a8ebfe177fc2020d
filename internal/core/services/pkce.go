package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// verifierBytes sized so the encoded verifier lands inside the 43-128
// character range RFC 7636 allows.
const verifierBytes = 64

// randomToken returns n random bytes as unpadded base64url.
func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// generateCodeVerifier creates the PKCE code verifier.
func generateCodeVerifier() (string, error) {
	return randomToken(verifierBytes)
}

// generateCodeChallenge derives the S256 challenge for a verifier.
func generateCodeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// generateState creates the anti-CSRF state parameter.
func generateState() (string, error) {
	return randomToken(32)
}
