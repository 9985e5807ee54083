// Package prover issues signed attestations over derived identity material.
// The service recomputes the deterministic address from the request, stores
// an opaque proof artifact, and signs a compact envelope binding timestamp,
// proof hash and address together. Proof generation itself is delegated to
// an external circuit; everything around it (hashing, signing, persistence)
// lives here.
package prover

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2s"

	"github.com/athleteiq/keyless/internal/keyless"
	"github.com/athleteiq/keyless/internal/logger"
	"github.com/athleteiq/keyless/internal/model"
)

const artifactVersion = 1

// SigningMessage builds the envelope string the prover signs. The format is
// a pinned protocol constant shared with verifiers.
func SigningMessage(timestamp int64, proofHash, address string) string {
	return fmt.Sprintf("%d:%s:%s", timestamp, proofHash, address)
}

// ArtifactKey returns the object-store key for a proof hash.
func ArtifactKey(proofHash string) string {
	return "proofs/" + proofHash + ".json"
}

// Service issues attestations. It holds the prover's long-lived signing key.
type Service struct {
	signer       *ecdsa.PrivateKey
	attestations model.AttestationStore
	artifacts    model.BlobStorage
	logger       *logger.Logger
	now          func() time.Time
}

// NewService creates an attestation service from a hex-encoded secp256k1
// signing key.
func NewService(signingKeyHex string, attestations model.AttestationStore, artifacts model.BlobStorage, logger *logger.Logger) (*Service, error) {
	signer, err := crypto.HexToECDSA(strings.TrimPrefix(signingKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	return &Service{
		signer:       signer,
		attestations: attestations,
		artifacts:    artifacts,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// SignerAddress returns the address attestation signatures recover to.
func (s *Service) SignerAddress() string {
	return crypto.PubkeyToAddress(s.signer.PublicKey).Hex()
}

type proofArtifact struct {
	Version   int    `json:"version"`
	Address   string `json:"ethereum_address"`
	Statement string `json:"statement"`
	Timestamp int64  `json:"timestamp"`
}

// Attest recomputes the address for the request, stores the proof artifact
// and returns the signed attestation envelope.
func (s *Service) Attest(ctx context.Context, req model.AttestationRequest) (*model.AttestationResult, error) {
	if req.Sub == "" || req.Email == "" || req.Aud == "" || req.Salt == "" {
		return nil, fmt.Errorf("missing required fields: %w", model.ErrSchema)
	}

	seed := keyless.Seed(req.Sub, req.Email, req.Aud, req.Salt)
	priv, err := crypto.ToECDSA(seed[:])
	if err != nil {
		return nil, fmt.Errorf("failed to derive key from seed: %w", err)
	}
	address := crypto.PubkeyToAddress(priv.PublicKey).Hex()

	timestamp := s.now().Unix()

	// The statement commits to the full request tuple without storing any
	// raw identity claims in the artifact.
	statement := crypto.Keccak256([]byte(req.Sub + req.Email + req.Aud + req.Salt))
	artifact, err := json.Marshal(proofArtifact{
		Version:   artifactVersion,
		Address:   address,
		Statement: hex.EncodeToString(statement),
		Timestamp: timestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal proof artifact: %w", err)
	}

	digest := blake2s.Sum256(artifact)
	proofHash := hex.EncodeToString(digest[:])

	signature, err := s.sign(SigningMessage(timestamp, proofHash, address))
	if err != nil {
		return nil, fmt.Errorf("failed to sign attestation: %w", err)
	}

	key := ArtifactKey(proofHash)
	if err := s.artifacts.Upload(ctx, key, bytes.NewReader(artifact)); err != nil {
		s.logger.Error("Prover service: failed to store proof artifact",
			"proof_hash", proofHash,
			"error", err.Error())
		return nil, fmt.Errorf("failed to store proof artifact: %w", err)
	}

	record := model.Attestation{
		ID:          uuid.New(),
		Subject:     req.Sub,
		Audience:    req.Aud,
		Email:       req.Email,
		Address:     address,
		ProofHash:   proofHash,
		Signature:   signature,
		ArtifactKey: key,
		Timestamp:   timestamp,
	}
	if _, err := s.attestations.Create(ctx, record); err != nil {
		s.logger.Error("Prover service: failed to persist attestation",
			"proof_hash", proofHash,
			"error", err.Error())
		return nil, fmt.Errorf("failed to persist attestation: %w", err)
	}

	s.logger.Info("Prover service: issued attestation",
		"address", address,
		"proof_hash", proofHash)

	return &model.AttestationResult{
		ProofHash:       proofHash,
		Signature:       signature,
		Timestamp:       timestamp,
		EthereumAddress: address,
	}, nil
}

// sign hashes the envelope with keccak256, applies the personal-message
// prefix over the digest and signs with the service key. The recovery byte
// is shifted to 27/28 to match wallet tooling.
func (s *Service) sign(message string) (string, error) {
	inner := crypto.Keccak256([]byte(message))
	prefixed := crypto.Keccak256(append([]byte("\x19Ethereum Signed Message:\n32"), inner...))

	sig, err := crypto.Sign(prefixed, s.signer)
	if err != nil {
		return "", err
	}
	sig[64] += 27

	return "0x" + hex.EncodeToString(sig), nil
}
