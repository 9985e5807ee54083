// Package router wires handlers and middleware into the server's HTTP mux.
package router

import (
	"net/http"

	"github.com/athleteiq/keyless/internal/api/http/handler"
	"github.com/athleteiq/keyless/internal/api/http/middleware"
	"github.com/athleteiq/keyless/internal/logger"
	"github.com/athleteiq/keyless/internal/model"
)

// Router assembles the keyless server routes.
type Router struct {
	saltResolver model.SaltResolver
	attestations handler.AttestationService
	clientID     string
	redirectURI  string
	logger       *logger.Logger
}

// New creates a Router over the salt resolver and attestation service.
func New(
	saltResolver model.SaltResolver,
	attestations handler.AttestationService,
	clientID string,
	redirectURI string,
	logger *logger.Logger,
) *Router {
	return &Router{
		saltResolver: saltResolver,
		attestations: attestations,
		clientID:     clientID,
		redirectURI:  redirectURI,
		logger:       logger,
	}
}

// Register builds the handler chain: routes wrapped in request logging.
func (r *Router) Register() http.Handler {
	salt := handler.NewSalt(r.saltResolver, r.logger)
	attest := handler.NewAttest(r.attestations, r.logger)
	login := handler.NewLogin(r.clientID, r.redirectURI)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/login", login.URL)
	mux.HandleFunc("POST /api/auth/salt", salt.Resolve)
	mux.HandleFunc("POST /api/zklogin", attest.Prove)
	mux.HandleFunc("GET /live", handler.Live)

	logging := middleware.NewLogging(r.logger)
	return logging.Handle(mux)
}
