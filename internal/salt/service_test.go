package salt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/athleteiq/keyless/internal/model"
	"github.com/athleteiq/keyless/internal/testutil"
)

const (
	testSecret   = "test-jwt-secret"
	testClientID = "client-id-1"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(testSecret, testClientID, testutil.MakeNoopLogger())
}

func TestResolveSalt_Deterministic(t *testing.T) {
	s := newTestService(t)
	token := testutil.MintIDToken(t, testutil.DefaultTokenClaims("n"))

	first, err := s.ResolveSalt(context.Background(), token)
	require.NoError(t, err)
	second, err := s.ResolveSalt(context.Background(), token)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Regexp(t, `^[0-9a-f]{64}$`, first)
}

func TestResolveSalt_DistinctPerSubject(t *testing.T) {
	s := newTestService(t)

	claimsA := testutil.DefaultTokenClaims("n")
	claimsA["sub"] = "subject-a"
	claimsB := testutil.DefaultTokenClaims("n")
	claimsB["sub"] = "subject-b"

	saltA, err := s.ResolveSalt(context.Background(), testutil.MintIDToken(t, claimsA))
	require.NoError(t, err)
	saltB, err := s.ResolveSalt(context.Background(), testutil.MintIDToken(t, claimsB))
	require.NoError(t, err)

	require.NotEqual(t, saltA, saltB)
}

func TestResolveSalt_SecretChangesSalt(t *testing.T) {
	token := testutil.MintIDToken(t, testutil.DefaultTokenClaims("n"))
	log := testutil.MakeNoopLogger()

	saltA, err := NewService("secret-a", testClientID, log).ResolveSalt(context.Background(), token)
	require.NoError(t, err)
	saltB, err := NewService("secret-b", testClientID, log).ResolveSalt(context.Background(), token)
	require.NoError(t, err)

	require.NotEqual(t, saltA, saltB)
}

func TestResolveSalt_IssuerGate(t *testing.T) {
	s := newTestService(t)
	claims := testutil.DefaultTokenClaims("n")
	claims["iss"] = "https://evil.example.com"

	_, err := s.ResolveSalt(context.Background(), testutil.MintIDToken(t, claims))
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestResolveSalt_AudienceGate(t *testing.T) {
	s := newTestService(t)
	claims := testutil.DefaultTokenClaims("n")
	claims["aud"] = "some-other-client"

	_, err := s.ResolveSalt(context.Background(), testutil.MintIDToken(t, claims))
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestResolveSalt_UndecodableToken(t *testing.T) {
	s := newTestService(t)

	_, err := s.ResolveSalt(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, model.ErrDecode)
}
