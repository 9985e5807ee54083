package keyless

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/athleteiq/keyless/internal/ephemeral"
	"github.com/athleteiq/keyless/internal/model"
	"github.com/athleteiq/keyless/internal/testutil"
)

type stubProver struct {
	result  *model.AttestationResult
	err     error
	calls   int
	lastReq model.AttestationRequest
}

func (p *stubProver) RequestAttestation(_ context.Context, req model.AttestationRequest) (*model.AttestationResult, error) {
	p.calls++
	p.lastReq = req
	return p.result, p.err
}

func testClaims(sub, email, aud string) *model.IDToken {
	return &model.IDToken{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  sub,
			Audience: jwt.ClaimStrings{aud},
		},
		Email: email,
	}
}

func testSalt() string {
	return "00ff" + strings.Repeat("0", 60)
}

func TestSeed_Deterministic(t *testing.T) {
	a := Seed("u1", "a@b.com", "client123", testSalt())
	b := Seed("u1", "a@b.com", "client123", testSalt())
	require.Equal(t, a, b)
}

func TestComputeAddress_Deterministic(t *testing.T) {
	claims := testClaims("u1", "a@b.com", "client123")

	first, err := ComputeAddress(claims, testSalt())
	require.NoError(t, err)
	second, err := ComputeAddress(claims, testSalt())
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Regexp(t, `^0x[0-9a-fA-F]{40}$`, first)
}

func TestComputeAddress_SensitiveToEveryInput(t *testing.T) {
	base, err := ComputeAddress(testClaims("u1", "a@b.com", "client123"), testSalt())
	require.NoError(t, err)

	variants := map[string]*model.IDToken{
		"sub":   testClaims("u2", "a@b.com", "client123"),
		"email": testClaims("u1", "x@b.com", "client123"),
		"aud":   testClaims("u1", "a@b.com", "client456"),
	}
	for name, claims := range variants {
		t.Run(name, func(t *testing.T) {
			addr, err := ComputeAddress(claims, testSalt())
			require.NoError(t, err)
			require.NotEqual(t, base, addr)
		})
	}

	t.Run("salt", func(t *testing.T) {
		addr, err := ComputeAddress(testClaims("u1", "a@b.com", "client123"), "11ff"+strings.Repeat("0", 60))
		require.NoError(t, err)
		require.NotEqual(t, base, addr)
	})
}

func TestDerive_SameIdentityDifferentEphemeralPairs(t *testing.T) {
	d := NewDeriver(nil, testutil.MakeNoopLogger())

	pairA, err := ephemeral.Create(time.Hour)
	require.NoError(t, err)
	pairB, err := ephemeral.Create(time.Hour)
	require.NoError(t, err)

	claims := testutil.DefaultTokenClaims(pairA.Nonce)
	claims["sub"] = "u1"
	claims["email"] = "a@b.com"
	claims["aud"] = "client123"
	tokenA := testutil.MintIDToken(t, claims)
	claims["nonce"] = pairB.Nonce
	tokenB := testutil.MintIDToken(t, claims)

	accA, err := d.Derive(context.Background(), tokenA, testSalt(), pairA)
	require.NoError(t, err)
	accB, err := d.Derive(context.Background(), tokenB, testSalt(), pairB)
	require.NoError(t, err)

	// The derived account address is identity-bound; the ephemeral wallet is not.
	require.Equal(t, accA.Address, accB.Address)
	require.NotEqual(t, accA.EphemeralKeyPair.Address, accB.EphemeralKeyPair.Address)
}

func TestDerive_MalformedTokenAborts(t *testing.T) {
	d := NewDeriver(nil, testutil.MakeNoopLogger())

	_, err := d.Derive(context.Background(), "garbage", testSalt(), model.EphemeralKeyPair{})
	require.ErrorIs(t, err, model.ErrDecode)
}

func TestDerive_AttachesAttestation(t *testing.T) {
	prover := &stubProver{result: &model.AttestationResult{
		ProofHash:       "abc123",
		Signature:       "0xsig",
		Timestamp:       1_900_000_000,
		EthereumAddress: "0xderived",
	}}
	d := NewDeriver(prover, testutil.MakeNoopLogger())

	pair, err := ephemeral.Create(time.Hour)
	require.NoError(t, err)
	token := testutil.MintIDToken(t, testutil.DefaultTokenClaims(pair.Nonce))

	account, err := d.Derive(context.Background(), token, testSalt(), pair)
	require.NoError(t, err)

	require.Equal(t, 1, prover.calls)
	require.Equal(t, "subject-1", prover.lastReq.Sub)
	require.Equal(t, testSalt(), prover.lastReq.Salt)
	require.Equal(t, "abc123", account.ProofHash)
	require.Equal(t, "0xsig", account.Signature)
	require.Equal(t, int64(1_900_000_000), account.Timestamp.Int64())
	require.True(t, account.HasAttestation())
}

func TestDerive_ProverFailureIsNonFatal(t *testing.T) {
	prover := &stubProver{err: errors.New("prover unreachable")}
	d := NewDeriver(prover, testutil.MakeNoopLogger())

	pair, err := ephemeral.Create(time.Hour)
	require.NoError(t, err)
	token := testutil.MintIDToken(t, testutil.DefaultTokenClaims(pair.Nonce))

	account, err := d.Derive(context.Background(), token, testSalt(), pair)
	require.NoError(t, err)

	require.Regexp(t, `^0x[0-9a-fA-F]{40}$`, account.Address)
	require.Empty(t, account.ProofHash)
	require.Empty(t, account.Signature)
	require.Zero(t, account.Timestamp.Int64())
	require.False(t, account.HasAttestation())
}

func TestValidateAccount(t *testing.T) {
	pair, err := ephemeral.Create(time.Hour)
	require.NoError(t, err)
	token := testutil.MintIDToken(t, testutil.DefaultTokenClaims(pair.Nonce))

	d := NewDeriver(nil, testutil.MakeNoopLogger())
	account, err := d.Derive(context.Background(), token, testSalt(), pair)
	require.NoError(t, err)

	t.Run("valid account passes", func(t *testing.T) {
		require.NotNil(t, ValidateAccount(account))
	})

	t.Run("expired ephemeral key pair", func(t *testing.T) {
		stale := *account
		stale.EphemeralKeyPair.ExpiryDateSecs = model.BigInt(time.Now().Add(-time.Minute).Unix())
		require.Nil(t, ValidateAccount(&stale))
	})

	t.Run("nonce mismatch", func(t *testing.T) {
		tampered := *account
		tampered.EphemeralKeyPair.Nonce = "different-nonce"
		require.Nil(t, ValidateAccount(&tampered))
	})

	t.Run("expired token", func(t *testing.T) {
		claims := testutil.DefaultTokenClaims(pair.Nonce)
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		stale := *account
		stale.JWT = testutil.MintIDToken(t, claims)
		require.Nil(t, ValidateAccount(&stale))
	})

	t.Run("nil account", func(t *testing.T) {
		require.Nil(t, ValidateAccount(nil))
	})
}
