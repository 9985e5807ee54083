package model

import (
	"context"
	"io"
	"net"
)

// SaltResolver returns the deterministic per-user salt for a validated
// identity token. Any error is fatal for the current login attempt.
type SaltResolver interface {
	ResolveSalt(ctx context.Context, jwt string) (string, error)
}

// Prover requests a proof attestation for derived identity material.
// Errors are non-fatal to derivation; callers proceed without attestation.
type Prover interface {
	RequestAttestation(ctx context.Context, req AttestationRequest) (*AttestationResult, error)
}

// StateStorage is the client persistence port for the account store.
// Load returns ErrNotFound when no state has been persisted yet.
type StateStorage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// BlobStorage stores opaque proof artifacts.
type BlobStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SecurityLayer produces network listeners, plain or TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a transport server with an explicit lifecycle.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
