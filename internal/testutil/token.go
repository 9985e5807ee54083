package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// DefaultTokenClaims returns a well-formed identity token claim set bound to
// the given nonce. Individual tests override fields as needed.
func DefaultTokenClaims(nonce string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":            "subject-1",
		"aud":            "client-id-1",
		"iss":            "https://accounts.google.com",
		"iat":            now.Unix(),
		"exp":            now.Add(time.Hour).Unix(),
		"nonce":          nonce,
		"email":          "user@example.com",
		"email_verified": true,
		"name":           "Test User",
	}
}

// MintIDToken signs a claim set into a compact token string. The signing key
// is irrelevant: the client decodes tokens without verification.
func MintIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}
