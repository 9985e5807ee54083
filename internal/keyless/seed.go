package keyless

import (
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2s"
)

// Seed derives the 32-byte account seed from identity claims and the
// server-issued salt.
//
// The formula is a pinned protocol constant shared with the prover service
// and must never change: two independent blake2s digests over different
// orderings of the inputs are concatenated into a 64-byte intermediate value
// and folded through keccak256. The double-hash step widens the intermediate
// beyond a single 32-byte digest before the final fold.
//
//	h1   = blake2s256(sub || email || aud || salt)
//	h2   = blake2s256(salt || email || aud || sub || salt)
//	seed = keccak256(h1 || h2)
//
// The salt participates in its hex-encoded form.
func Seed(sub, email, aud, salt string) [32]byte {
	h1 := blake2s.Sum256([]byte(sub + email + aud + salt))
	h2 := blake2s.Sum256([]byte(salt + email + aud + sub + salt))

	wide := make([]byte, 0, len(h1)+len(h2))
	wide = append(wide, h1[:]...)
	wide = append(wide, h2[:]...)

	var seed [32]byte
	copy(seed[:], crypto.Keccak256(wide))
	return seed
}
