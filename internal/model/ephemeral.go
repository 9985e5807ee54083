package model

import "time"

// EphemeralKeyPair binds one login attempt to this client. The nonce is
// embedded in the OAuth request and must reappear unmodified in the returned
// identity token; the private key never leaves the client.
type EphemeralKeyPair struct {
	PrivateKey     string `json:"privateKey"`
	PublicKey      string `json:"publicKey"`
	Address        string `json:"address"`
	Nonce          string `json:"nonce"`
	ExpiryDateSecs BigInt `json:"expiryDateSecs"`
}

// ExpiresAt returns the expiry as a time.Time.
func (p EphemeralKeyPair) ExpiresAt() time.Time {
	return time.Unix(p.ExpiryDateSecs.Int64(), 0)
}
