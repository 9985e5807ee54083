package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/athleteiq/keyless/internal/model"
)

var _ model.AttestationStore = (*AttestationRepository)(nil)

type AttestationRepository struct {
	db *Connection
}

func NewAttestationRepository(db *Connection) *AttestationRepository {
	return &AttestationRepository{db: db}
}

func (r *AttestationRepository) Create(ctx context.Context, attestation model.Attestation) (model.Attestation, error) {
	const query = `
        INSERT INTO attestations (
            id, subject, audience, email, address, proof_hash, signature, artifact_key, attested_at, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW())
        RETURNING created_at
    `

	if attestation.ID == uuid.Nil {
		attestation.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		attestation.ID, attestation.Subject, attestation.Audience, attestation.Email,
		attestation.Address, attestation.ProofHash, attestation.Signature,
		attestation.ArtifactKey, attestation.Timestamp,
	).Scan(&attestation.CreatedAt)
	if err != nil {
		return model.Attestation{}, fmt.Errorf("failed to create attestation: %w", err)
	}
	return attestation, nil
}

func (r *AttestationRepository) GetByProofHash(ctx context.Context, proofHash string) (model.Attestation, error) {
	const query = `
        SELECT id, subject, audience, email, address, proof_hash, signature, artifact_key, attested_at, created_at
        FROM attestations WHERE proof_hash = $1
    `
	var a model.Attestation
	err := r.db.QueryRow(ctx, query, proofHash).Scan(
		&a.ID, &a.Subject, &a.Audience, &a.Email, &a.Address,
		&a.ProofHash, &a.Signature, &a.ArtifactKey, &a.Timestamp, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Attestation{}, model.ErrNotFound
		}
		return model.Attestation{}, fmt.Errorf("failed to get attestation by proof hash: %w", err)
	}
	return a, nil
}

func (r *AttestationRepository) ListByAddress(ctx context.Context, address string) ([]model.Attestation, error) {
	const query = `
        SELECT id, subject, audience, email, address, proof_hash, signature, artifact_key, attested_at, created_at
        FROM attestations WHERE address = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, address)
	if err != nil {
		return nil, fmt.Errorf("failed to list attestations by address: %w", err)
	}
	defer rows.Close()

	var attestations []model.Attestation
	for rows.Next() {
		var a model.Attestation
		if err := rows.Scan(
			&a.ID, &a.Subject, &a.Audience, &a.Email, &a.Address,
			&a.ProofHash, &a.Signature, &a.ArtifactKey, &a.Timestamp, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attestation: %w", err)
		}
		attestations = append(attestations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attestations: %w", err)
	}
	return attestations, nil
}
