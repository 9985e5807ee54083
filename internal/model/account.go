package model

// KeylessAccount is a derived blockchain account bound to an OAuth identity.
// Address is a pure function of (sub, email, aud, salt); re-deriving with the
// same identity and salt reproduces the same address across sessions.
//
// The attestation fields (Timestamp, Signature, ProofHash) are best-effort:
// they are unset when the prover service was unavailable during derivation,
// and callers that need an on-chain verification step must check for their
// presence explicitly.
type KeylessAccount struct {
	Address          string           `json:"address"`
	EphemeralKeyPair EphemeralKeyPair `json:"ephemeralKeyPair"`
	Salt             string           `json:"salt"`
	JWT              string           `json:"jwt"`
	DecodedJWT       *IDToken         `json:"decodedJwt"`
	Timestamp        BigInt           `json:"timestamp,omitempty"`
	Signature        string           `json:"signature,omitempty"`
	ProofHash        string           `json:"proof_hash,omitempty"`
}

// HasAttestation reports whether the prover attached a verifiable attestation.
func (a *KeylessAccount) HasAttestation() bool {
	return a.ProofHash != "" && a.Signature != ""
}

// AccountState is the persisted account-store state. Accounts are unique by
// token subject; at most one account is active and at most one login attempt
// (ephemeral key pair) is in flight.
type AccountState struct {
	Version          int               `json:"version"`
	Accounts         []KeylessAccount  `json:"accounts"`
	ActiveAccount    *KeylessAccount   `json:"activeAccount,omitempty"`
	EphemeralKeyPair *EphemeralKeyPair `json:"ephemeralKeyPair,omitempty"`
}
