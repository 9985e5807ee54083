package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/athleteiq/keyless/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleError maps service errors to HTTP status and message. Rejected
// tokens deliberately get the same opaque message regardless of which gate
// failed.
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrDecode), errors.Is(err, model.ErrSchema):
		writeError(w, http.StatusBadRequest, "malformed request")
	case errors.Is(err, model.ErrInvalidToken):
		writeError(w, http.StatusForbidden, "Something went wrong")
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
