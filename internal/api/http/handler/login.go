package handler

import (
	"net/http"

	"github.com/athleteiq/keyless/internal/oauth"
)

// Login serves GET /api/auth/login: it builds the provider login URL for a
// client-supplied ephemeral nonce.
type Login struct {
	clientID    string
	redirectURI string
}

func NewLogin(clientID, redirectURI string) *Login {
	return &Login{clientID: clientID, redirectURI: redirectURI}
}

type loginResponse struct {
	URL string `json:"url"`
}

func (h *Login) URL(w http.ResponseWriter, r *http.Request) {
	nonce := r.URL.Query().Get("nonce")
	if nonce == "" {
		writeError(w, http.StatusBadRequest, "nonce is required")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		URL: oauth.AuthorizationURL(h.clientID, h.redirectURI, nonce),
	})
}
