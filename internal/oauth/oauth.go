// Package oauth builds the Google implicit-flow login URL and extracts the
// identity token from the provider callback. The flow requests an id_token
// directly (no code exchange), with the ephemeral nonce bound into the token
// by the provider.
package oauth

import (
	"fmt"
	"net/url"
)

// GoogleAuthEndpoint is Google's OAuth 2.0 authorization endpoint.
const GoogleAuthEndpoint = "https://accounts.google.com/o/oauth2/v2/auth"

const defaultScope = "openid email profile"

// AuthorizationURL builds the login URL for the implicit id_token flow. The
// nonce must come from a committed ephemeral key pair; the provider echoes
// it inside the signed token, which is what binds the token to the key pair.
func AuthorizationURL(clientID, redirectURI, nonce string) string {
	params := url.Values{}
	params.Set("client_id", clientID)
	params.Set("redirect_uri", redirectURI)
	params.Set("response_type", "id_token")
	params.Set("scope", defaultScope)
	params.Set("nonce", nonce)

	return GoogleAuthEndpoint + "?" + params.Encode()
}

// IDTokenFromCallback extracts the id_token from a provider callback URL.
// The implicit flow returns the token in the URL fragment, not the query.
func IDTokenFromCallback(callbackURL string) (string, error) {
	parsed, err := url.Parse(callbackURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse callback url: %w", err)
	}

	fragment, err := url.ParseQuery(parsed.Fragment)
	if err != nil {
		return "", fmt.Errorf("failed to parse callback fragment: %w", err)
	}

	token := fragment.Get("id_token")
	if token == "" {
		return "", fmt.Errorf("no id_token in callback url")
	}
	return token, nil
}
