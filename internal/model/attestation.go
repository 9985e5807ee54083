package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AttestationRequest carries the identity material the prover attests to.
type AttestationRequest struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Aud   string `json:"aud"`
	Salt  string `json:"salt"`
}

// AttestationResult is the prover's successful response payload.
type AttestationResult struct {
	ProofHash       string `json:"proof_hash"`
	Signature       string `json:"signature"`
	Timestamp       int64  `json:"timestamp"`
	EthereumAddress string `json:"ethereum_address"`
}

// Attestation is a stored attestation record issued by the prover service.
type Attestation struct {
	ID          uuid.UUID
	Subject     string
	Audience    string
	Email       string
	Address     string
	ProofHash   string
	Signature   string
	ArtifactKey string
	Timestamp   int64
	CreatedAt   time.Time
}

// AttestationStore defines persistence operations for attestations.
type AttestationStore interface {
	Create(ctx context.Context, attestation Attestation) (Attestation, error)
	GetByProofHash(ctx context.Context, proofHash string) (Attestation, error)
	ListByAddress(ctx context.Context, address string) ([]Attestation, error)
}
