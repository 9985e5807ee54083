package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/athleteiq/keyless/internal/model"
	"github.com/athleteiq/keyless/internal/testutil"
)

type stubAttestations struct {
	result *model.AttestationResult
	err    error
	got    model.AttestationRequest
}

func (s *stubAttestations) Attest(_ context.Context, req model.AttestationRequest) (*model.AttestationResult, error) {
	s.got = req
	return s.result, s.err
}

func TestAttest_Prove(t *testing.T) {
	service := &stubAttestations{result: &model.AttestationResult{
		ProofHash:       "abcd",
		Signature:       "0xsig",
		Timestamp:       1747413600,
		EthereumAddress: "0x0000000000000000000000000000000000000001",
	}}
	h := NewAttest(service, testutil.MakeNoopLogger())

	rec := postJSON(t, h.Prove, `{"sub":"subject-1","email":"user@example.com","aud":"client-id-1","salt":"00ff"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "subject-1", service.got.Sub)

	var resp attestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "abcd", resp.ProofHash)
	require.Equal(t, "1747413600:abcd:0x0000000000000000000000000000000000000001", resp.Message)
}

func TestAttest_Prove_MissingFields(t *testing.T) {
	service := &stubAttestations{err: fmt.Errorf("missing required fields: %w", model.ErrSchema)}
	h := NewAttest(service, testutil.MakeNoopLogger())

	rec := postJSON(t, h.Prove, `{"sub":"subject-1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttest_Prove_BadBody(t *testing.T) {
	h := NewAttest(&stubAttestations{}, testutil.MakeNoopLogger())

	rec := postJSON(t, h.Prove, `not-json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttest_Prove_ServiceFailure(t *testing.T) {
	service := &stubAttestations{err: errors.New("db down")}
	h := NewAttest(service, testutil.MakeNoopLogger())

	rec := postJSON(t, h.Prove, `{"sub":"s","email":"e","aud":"a","salt":"x"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
