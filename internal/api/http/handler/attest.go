package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/athleteiq/keyless/internal/logger"
	"github.com/athleteiq/keyless/internal/model"
	"github.com/athleteiq/keyless/internal/prover"
)

// AttestationService issues signed attestations for identity material.
type AttestationService interface {
	Attest(ctx context.Context, req model.AttestationRequest) (*model.AttestationResult, error)
}

// Attest serves POST /api/zklogin.
type Attest struct {
	service AttestationService
	logger  *logger.Logger
}

func NewAttest(service AttestationService, logger *logger.Logger) *Attest {
	return &Attest{service: service, logger: logger}
}

type attestResponse struct {
	Success         bool   `json:"success"`
	EthereumAddress string `json:"ethereum_address"`
	ProofHash       string `json:"proof_hash"`
	Timestamp       int64  `json:"timestamp"`
	Signature       string `json:"signature"`
	Message         string `json:"message"`
}

func (h *Attest) Prove(w http.ResponseWriter, r *http.Request) {
	var req model.AttestationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Attest(r.Context(), req)
	if err != nil {
		h.logger.Error("Attest handler: attestation failed",
			"sub", req.Sub,
			"error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, attestResponse{
		Success:         true,
		EthereumAddress: result.EthereumAddress,
		ProofHash:       result.ProofHash,
		Timestamp:       result.Timestamp,
		Signature:       result.Signature,
		Message:         prover.SigningMessage(result.Timestamp, result.ProofHash, result.EthereumAddress),
	})
}
