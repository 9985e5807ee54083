// Package salt derives the deterministic per-user salt that binds an OAuth
// identity to its keyless account. The salt is an HKDF expansion of a server
// secret keyed by the token's identity claims, so the same user always
// receives the same salt and the server stores nothing.
package salt

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/athleteiq/keyless/internal/idtoken"
	"github.com/athleteiq/keyless/internal/logger"
	"github.com/athleteiq/keyless/internal/model"
)

// GoogleIssuer is the only issuer the salt service accepts.
const GoogleIssuer = "https://accounts.google.com"

const saltBytes = 32

var _ model.SaltResolver = (*Service)(nil)

// Service derives salts from identity tokens. It holds the long-lived HKDF
// secret; rotating the secret changes every derived salt and therefore every
// derived address.
type Service struct {
	secret   []byte
	clientID string
	logger   *logger.Logger
}

func NewService(secret, clientID string, logger *logger.Logger) *Service {
	return &Service{
		secret:   []byte(secret),
		clientID: clientID,
		logger:   logger,
	}
}

// ResolveSalt decodes the token, gates it on issuer and audience, and
// returns the hex-encoded HKDF salt.
func (s *Service) ResolveSalt(_ context.Context, rawToken string) (string, error) {
	token, err := idtoken.Decode(rawToken)
	if err != nil {
		s.logger.Info("Salt service: rejected undecodable token",
			"error", err.Error())
		return "", fmt.Errorf("failed to decode token: %w", err)
	}

	if token.Issuer != GoogleIssuer {
		s.logger.Info("Salt service: rejected token issuer",
			"iss", token.Issuer)
		return "", fmt.Errorf("unexpected issuer: %w", model.ErrInvalidToken)
	}
	if token.Aud() != s.clientID {
		s.logger.Info("Salt service: rejected token audience",
			"sub", token.Subject)
		return "", fmt.Errorf("unexpected audience: %w", model.ErrInvalidToken)
	}

	// Salt parameter is unique per OAuth provider registration, info is
	// unique per user. Both orderings are load-bearing: changing either
	// changes every derived address.
	hkdfSalt := []byte(token.Subject + token.Aud() + token.Email)
	info := []byte(token.Email + token.Subject + token.Issuer)

	out := make([]byte, saltBytes)
	if _, err := io.ReadFull(hkdf.New(sha256.New, s.secret, hkdfSalt, info), out); err != nil {
		return "", fmt.Errorf("failed to derive salt: %w", err)
	}

	s.logger.Debug("Salt service: derived salt",
		"sub", token.Subject)

	return hex.EncodeToString(out), nil
}
