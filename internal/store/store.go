// Package store is the single source of truth for keyless login state:
// known accounts, the active account, and the one in-flight ephemeral key
// pair. It is constructible (no package-level state); persistence goes
// through an injected StateStorage port and happens after every mutation.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/athleteiq/keyless/internal/ephemeral"
	"github.com/athleteiq/keyless/internal/idtoken"
	"github.com/athleteiq/keyless/internal/keyless"
	"github.com/athleteiq/keyless/internal/logger"
	"github.com/athleteiq/keyless/internal/model"
)

// Store holds account state for one client. Mutating operations persist the
// whole state before returning.
//
// SwitchKeylessAccount clears the active account up front, so a stale
// account is never visible mid-switch; two overlapping switches still race
// on the final write and the last one wins. That matches the intended
// single-login-attempt usage.
type Store struct {
	mu      sync.Mutex
	state   model.AccountState
	storage model.StateStorage
	salts   model.SaltResolver
	deriver *keyless.Deriver
	logger  *logger.Logger
}

// New creates a Store over the given persistence port and collaborators.
// Call Load before use to rehydrate previously persisted state.
func New(storage model.StateStorage, salts model.SaltResolver, deriver *keyless.Deriver, logger *logger.Logger) *Store {
	return &Store{
		storage: storage,
		salts:   salts,
		deriver: deriver,
		logger:  logger,
	}
}

// Load rehydrates persisted state and revalidates it. Stale or unreadable
// state is dropped silently: a missing or expired session presents as
// logged out, never as an error.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.storage.Load(ctx)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Info("Account store: dropping unreadable persisted state",
				"error", err.Error())
		}
		return nil
	}

	state, err := decodeState(data)
	if err != nil {
		s.logger.Info("Account store: dropping undecodable persisted state",
			"error", err.Error())
		return nil
	}

	state.ActiveAccount = keyless.ValidateAccount(state.ActiveAccount)
	state.EphemeralKeyPair = ephemeral.Validate(state.EphemeralKeyPair)

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	return nil
}

// CommitEphemeralKeyPair stores the key pair as the in-flight login attempt,
// replacing any previous one. Committing an already-expired pair is a caller
// bug and fails with ErrInvalidKeyPair.
func (s *Store) CommitEphemeralKeyPair(ctx context.Context, pair model.EphemeralKeyPair) error {
	if !ephemeral.IsValid(pair) {
		return fmt.Errorf("%w: already expired", model.ErrInvalidKeyPair)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.EphemeralKeyPair = &pair
	return s.persistLocked(ctx)
}

// GetEphemeralKeyPair returns the in-flight key pair if it is still valid.
// Expiry is re-checked on every read; an expired pair is treated as absent
// but not erased until overwritten.
func (s *Store) GetEphemeralKeyPair() *model.EphemeralKeyPair {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ephemeral.Validate(s.state.EphemeralKeyPair)
}

// SwitchKeylessAccount validates the identity token, binds it to the
// in-flight ephemeral key pair, resolves the salt, derives the account and
// makes it active. The previously active account is cleared immediately, so
// a failed switch leaves the client logged out rather than on a stale
// account.
func (s *Store) SwitchKeylessAccount(ctx context.Context, jwt string) (*model.KeylessAccount, error) {
	s.mu.Lock()
	s.state.ActiveAccount = nil
	if err := s.persistLocked(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	pair := ephemeral.Validate(s.state.EphemeralKeyPair)
	s.mu.Unlock()

	decoded := idtoken.Validate(jwt)
	if decoded == nil {
		return nil, fmt.Errorf("%w: could not decode", model.ErrInvalidToken)
	}

	// Anti-replay: this OAuth response must carry the nonce of this
	// client's own in-flight key pair.
	if pair == nil || pair.Nonce != decoded.Nonce {
		return nil, model.ErrNonceMismatch
	}

	salt, err := s.salts.ResolveSalt(ctx, jwt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSaltResolution, err)
	}

	account, err := s.deriver.Derive(ctx, jwt, salt, *pair)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.upsertLocked(account)
	s.state.ActiveAccount = account
	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Account store: switched active account",
		"sub", decoded.Subject,
		"address", account.Address,
		"attested", account.HasAttestation())

	return account, nil
}

// DisconnectKeylessAccount clears the active account. The account stays in
// the accounts collection and the ephemeral key pair is untouched.
func (s *Store) DisconnectKeylessAccount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ActiveAccount = nil
	return s.persistLocked(ctx)
}

// ActiveAccount returns the active account, or nil when logged out.
func (s *Store) ActiveAccount() *model.KeylessAccount {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ActiveAccount == nil {
		return nil
	}
	account := *s.state.ActiveAccount
	return &account
}

// Accounts returns a copy of the known accounts.
func (s *Store) Accounts() []model.KeylessAccount {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]model.KeylessAccount, len(s.state.Accounts))
	copy(accounts, s.state.Accounts)
	return accounts
}

// upsertLocked replaces the entry with the same token subject or appends a
// new one. A returning user keeps a single entry with a refreshed token and
// attestation but the same deterministic address.
func (s *Store) upsertLocked(account *model.KeylessAccount) {
	for i := range s.state.Accounts {
		existing := s.state.Accounts[i].DecodedJWT
		if existing != nil && existing.Subject == account.DecodedJWT.Subject {
			s.state.Accounts[i] = *account
			return
		}
	}
	s.state.Accounts = append(s.state.Accounts, *account)
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := encodeState(s.state)
	if err != nil {
		return fmt.Errorf("failed to encode account state: %w", err)
	}
	if err := s.storage.Save(ctx, data); err != nil {
		return fmt.Errorf("failed to persist account state: %w", err)
	}
	return nil
}
