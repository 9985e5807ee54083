package oauth

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthorizationURL(t *testing.T) {
	raw := AuthorizationURL("client-id-1", "https://app.example.com/auth/callback", "nonce-abc")
	require.True(t, strings.HasPrefix(raw, GoogleAuthEndpoint+"?"))

	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	params := parsed.Query()
	require.Equal(t, "client-id-1", params.Get("client_id"))
	require.Equal(t, "https://app.example.com/auth/callback", params.Get("redirect_uri"))
	require.Equal(t, "id_token", params.Get("response_type"))
	require.Equal(t, "openid email profile", params.Get("scope"))
	require.Equal(t, "nonce-abc", params.Get("nonce"))
}

func TestIDTokenFromCallback(t *testing.T) {
	token, err := IDTokenFromCallback("https://app.example.com/auth/callback#id_token=eyJhbGciOi.header.sig&authuser=0")
	require.NoError(t, err)
	require.Equal(t, "eyJhbGciOi.header.sig", token)
}

func TestIDTokenFromCallback_QueryIgnored(t *testing.T) {
	// Tokens only arrive in the fragment; a query-string token is not the
	// implicit flow and is rejected.
	_, err := IDTokenFromCallback("https://app.example.com/auth/callback?id_token=abc")
	require.Error(t, err)
}

func TestIDTokenFromCallback_MissingToken(t *testing.T) {
	_, err := IDTokenFromCallback("https://app.example.com/auth/callback#state=xyz")
	require.Error(t, err)
}
