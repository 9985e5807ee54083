package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// IDToken is the decoded claim set of an OAuth identity token. The client
// never verifies the token signature locally; issuer trust is delegated to
// the salt service, which re-checks iss and aud server-side.
type IDToken struct {
	jwt.RegisteredClaims
	Nonce         string `json:"nonce,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
	GivenName     string `json:"given_name,omitempty"`
	FamilyName    string `json:"family_name,omitempty"`
	Locale        string `json:"locale,omitempty"`
	Picture       string `json:"picture,omitempty"`
}

// Aud returns the single intended audience (application client id). Google
// issues id tokens with a scalar aud claim; jwt/v5 normalizes it to a slice.
func (t *IDToken) Aud() string {
	if len(t.Audience) == 0 {
		return ""
	}
	return t.Audience[0]
}
