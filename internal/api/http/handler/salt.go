// Package handler implements the HTTP handlers for the keyless server
// surface: salt resolution, attestation issuance and liveness.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/athleteiq/keyless/internal/logger"
	"github.com/athleteiq/keyless/internal/model"
)

// Salt serves POST /api/auth/salt.
type Salt struct {
	resolver model.SaltResolver
	logger   *logger.Logger
}

func NewSalt(resolver model.SaltResolver, logger *logger.Logger) *Salt {
	return &Salt{resolver: resolver, logger: logger}
}

type saltRequest struct {
	JWT string `json:"jwt"`
}

type saltResponse struct {
	Salt string `json:"salt"`
}

func (h *Salt) Resolve(w http.ResponseWriter, r *http.Request) {
	var req saltRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.JWT == "" {
		writeError(w, http.StatusBadRequest, "JWT is required")
		return
	}

	salt, err := h.resolver.ResolveSalt(r.Context(), req.JWT)
	if err != nil {
		h.logger.Info("Salt handler: resolution rejected",
			"error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, saltResponse{Salt: salt})
}
