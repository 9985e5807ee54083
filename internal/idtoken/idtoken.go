// Package idtoken parses OAuth identity tokens and polices their claims.
// It deliberately never verifies the token signature: issuer trust is
// enforced server-side by the salt service, which re-checks iss and aud
// before deriving a salt. The client only needs structural and logical
// validity (schema, expiry, nonce binding).
package idtoken

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/athleteiq/keyless/internal/model"
)

// Decode parses a compact token string into its claim set without signature
// verification. It returns model.ErrDecode for an unparsable token and
// model.ErrSchema when required claims (sub, aud, iss, iat, exp, nonce) are
// missing.
func Decode(tokenString string) (*model.IDToken, error) {
	claims := &model.IDToken{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDecode, err)
	}

	if err := checkSchema(claims); err != nil {
		return nil, err
	}

	return claims, nil
}

func checkSchema(claims *model.IDToken) error {
	switch {
	case claims.Subject == "":
		return fmt.Errorf("%w: sub", model.ErrSchema)
	case claims.Aud() == "":
		return fmt.Errorf("%w: aud", model.ErrSchema)
	case claims.Issuer == "":
		return fmt.Errorf("%w: iss", model.ErrSchema)
	case claims.IssuedAt == nil:
		return fmt.Errorf("%w: iat", model.ErrSchema)
	case claims.ExpiresAt == nil:
		return fmt.Errorf("%w: exp", model.ErrSchema)
	case claims.Nonce == "":
		return fmt.Errorf("%w: nonce", model.ErrSchema)
	}
	return nil
}

// IsValid reports whether a decoded token carries a nonce and is not expired.
// Issuer and audience are intentionally not checked here; callers must match
// them against the expected provider and client id before salt resolution.
func IsValid(claims *model.IDToken) bool {
	return IsValidAt(claims, time.Now())
}

// IsValidAt is IsValid against an explicit clock.
func IsValidAt(claims *model.IDToken, now time.Time) bool {
	if claims == nil || claims.Nonce == "" {
		return false
	}
	if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time) {
		return false
	}
	return true
}

// Validate decodes and validates in one step, returning nil on any failure.
// A token that decodes but fails the schema is indistinguishable from an
// undecodable one at this level; precise classification exists only in Decode.
func Validate(tokenString string) *model.IDToken {
	claims, err := Decode(tokenString)
	if err != nil {
		return nil
	}
	if !IsValid(claims) {
		return nil
	}
	return claims
}
