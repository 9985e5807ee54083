// Package keyless binds an off-chain OAuth identity to a deterministic
// on-chain address. Address computation is pure; attestation acquisition is
// a separate best-effort step so the two can be tested and operated
// independently.
package keyless

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/athleteiq/keyless/internal/ephemeral"
	"github.com/athleteiq/keyless/internal/idtoken"
	"github.com/athleteiq/keyless/internal/logger"
	"github.com/athleteiq/keyless/internal/model"
)

// ComputeAddress derives the deterministic account address for the given
// claims and salt. Same (sub, email, aud, salt) always yields the same
// address; the ephemeral key pair plays no part in it.
func ComputeAddress(claims *model.IDToken, salt string) (string, error) {
	seed := Seed(claims.Subject, claims.Email, claims.Aud(), salt)

	priv, err := crypto.ToECDSA(seed[:])
	if err != nil {
		// Only reachable if the seed falls outside the secp256k1 scalar
		// range, which has negligible probability for hash output.
		return "", fmt.Errorf("failed to derive key from seed: %w", err)
	}

	return crypto.PubkeyToAddress(priv.PublicKey).Hex(), nil
}

// Deriver produces keyless accounts, optionally attaching a prover
// attestation.
type Deriver struct {
	prover model.Prover
	logger *logger.Logger
}

// NewDeriver creates a Deriver. The prover may be nil, in which case accounts
// are derived without attestation fields.
func NewDeriver(prover model.Prover, logger *logger.Logger) *Deriver {
	return &Deriver{prover: prover, logger: logger}
}

// Derive decodes the token, computes the deterministic address and assembles
// the account. The token is re-decoded here even though callers validate it
// first; a malformed token aborts derivation with ErrDecode/ErrSchema and no
// partial account. Prover failure is non-fatal and only leaves the
// attestation fields unset.
func (d *Deriver) Derive(ctx context.Context, jwt, salt string, pair model.EphemeralKeyPair) (*model.KeylessAccount, error) {
	claims, err := idtoken.Decode(jwt)
	if err != nil {
		return nil, err
	}

	address, err := ComputeAddress(claims, salt)
	if err != nil {
		return nil, err
	}

	account := &model.KeylessAccount{
		Address:          address,
		EphemeralKeyPair: pair,
		Salt:             salt,
		JWT:              jwt,
		DecodedJWT:       claims,
	}

	d.attachAttestation(ctx, account, claims)

	return account, nil
}

func (d *Deriver) attachAttestation(ctx context.Context, account *model.KeylessAccount, claims *model.IDToken) {
	if d.prover == nil {
		return
	}

	result, err := d.prover.RequestAttestation(ctx, model.AttestationRequest{
		Sub:   claims.Subject,
		Email: claims.Email,
		Aud:   claims.Aud(),
		Salt:  account.Salt,
	})
	if err != nil {
		d.logger.Info("Deriver: proceeding without attestation",
			"address", account.Address,
			"error", err.Error())
		return
	}

	account.Timestamp = model.BigInt(result.Timestamp)
	account.Signature = result.Signature
	account.ProofHash = result.ProofHash
}

// ValidateAccount revalidates a persisted account: the ephemeral key pair
// must be unexpired, the embedded token valid, and the token nonce must match
// the key pair's nonce. Returns nil for anything stale; a stale session
// presents as logged out, never as an error.
func ValidateAccount(account *model.KeylessAccount) *model.KeylessAccount {
	if account == nil {
		return nil
	}
	if !ephemeral.IsValid(account.EphemeralKeyPair) {
		return nil
	}
	claims := idtoken.Validate(account.JWT)
	if claims == nil {
		return nil
	}
	if claims.Nonce != account.EphemeralKeyPair.Nonce {
		return nil
	}
	return account
}
