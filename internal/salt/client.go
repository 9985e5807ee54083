package salt

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

const resolvePath = "/api/auth/salt"

var _ model.SaltResolver = (*Client)(nil)

// Client resolves salts over HTTP from a running salt service.
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

type resolveRequest struct {
	JWT string `json:"jwt"`
}

type resolveResponse struct {
	Salt  string `json:"salt"`
	Error string `json:"error,omitempty"`
}

// ResolveSalt posts the raw token and returns the service's salt. Every
// failure mode wraps model.ErrSaltResolution so callers abort the login.
func (c *Client) ResolveSalt(ctx context.Context, jwt string) (string, error) {
	body, err := json.Marshal(resolveRequest{JWT: jwt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal salt request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+resolvePath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create salt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrSaltResolution, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: salt service returned status %d", model.ErrSaltResolution, resp.StatusCode)
	}

	var decoded resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: failed to decode salt response: %w", model.ErrSaltResolution, err)
	}
	if decoded.Salt == "" {
		return "", fmt.Errorf("%w: empty salt in response", model.ErrSaltResolution)
	}

	return decoded.Salt, nil
}
