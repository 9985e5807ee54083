package prover

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/athleteiq/keyless/internal/model"
)

const attestPath = "/api/zklogin"

var _ model.Prover = (*Client)(nil)

// Client requests attestations over HTTP from a running prover service.
// Callers treat every error as non-fatal, so the client only reports what
// went wrong and never retries.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type attestResponse struct {
	Success         bool   `json:"success"`
	EthereumAddress string `json:"ethereum_address"`
	ProofHash       string `json:"proof_hash"`
	Timestamp       int64  `json:"timestamp"`
	Signature       string `json:"signature"`
	Message         string `json:"message"`
}

// RequestAttestation posts the identity material and returns the signed
// attestation envelope.
func (c *Client) RequestAttestation(ctx context.Context, req model.AttestationRequest) (*model.AttestationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal attestation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+attestPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create attestation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach prover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("prover returned status %d", resp.StatusCode)
	}

	var decoded attestResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode prover response: %w", err)
	}
	if !decoded.Success {
		return nil, fmt.Errorf("prover reported failure")
	}

	return &model.AttestationResult{
		ProofHash:       decoded.ProofHash,
		Signature:       decoded.Signature,
		Timestamp:       decoded.Timestamp,
		EthereumAddress: decoded.EthereumAddress,
	}, nil
}
