// Package ephemeral produces the short-lived key material that binds one
// login attempt to this client. The nonce travels inside the OAuth request
// and must come back unmodified in the identity token; everything else stays
// local until derivation.
package ephemeral

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/athleteiq/keyless/internal/model"
)

// DefaultExpiry bounds a login attempt to one day.
const DefaultExpiry = 24 * time.Hour

const nonceRandomLen = 16

// Create generates a fresh random key pair expiring after the given duration
// (DefaultExpiry when non-positive). The nonce is a one-way hash over the
// derived address, the expiry epoch and fresh randomness, so a captured OAuth
// redirect cannot be replayed against a different key pair.
func Create(expiry time.Duration) (model.EphemeralKeyPair, error) {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}

	priv, err := crypto.GenerateKey()
	if err != nil {
		return model.EphemeralKeyPair{}, fmt.Errorf("failed to generate key pair: %w", err)
	}

	address := crypto.PubkeyToAddress(priv.PublicKey)
	maxEpoch := time.Now().Add(expiry).Unix()

	nonce, err := computeNonce(address.Bytes(), maxEpoch)
	if err != nil {
		return model.EphemeralKeyPair{}, err
	}

	return model.EphemeralKeyPair{
		PrivateKey:     hexutil.Encode(crypto.FromECDSA(priv)),
		PublicKey:      hexutil.Encode(crypto.FromECDSAPub(&priv.PublicKey)),
		Address:        address.Hex(),
		Nonce:          nonce,
		ExpiryDateSecs: model.BigInt(maxEpoch),
	}, nil
}

func computeNonce(address []byte, maxEpoch int64) (string, error) {
	randomness := make([]byte, nonceRandomLen)
	if _, err := rand.Read(randomness); err != nil {
		return "", fmt.Errorf("failed to read nonce randomness: %w", err)
	}

	var epoch [8]byte
	binary.BigEndian.PutUint64(epoch[:], uint64(maxEpoch))

	return hex.EncodeToString(crypto.Keccak256(address, epoch[:], randomness)), nil
}

// IsValid reports whether the key pair has not yet expired.
func IsValid(pair model.EphemeralKeyPair) bool {
	return IsValidAt(pair, time.Now())
}

// IsValidAt is IsValid against an explicit clock. A pair is valid strictly
// before its expiry second and invalid from the expiry second on.
func IsValidAt(pair model.EphemeralKeyPair, now time.Time) bool {
	return now.Unix() < pair.ExpiryDateSecs.Int64()
}

// Validate returns the pair if it is still valid, nil otherwise. It never
// fails: an expired pair is treated as absent.
func Validate(pair *model.EphemeralKeyPair) *model.EphemeralKeyPair {
	if pair == nil || !IsValid(*pair) {
		return nil
	}
	return pair
}
