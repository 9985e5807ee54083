//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/athleteiq/keyless/internal/model"
	repo "github.com/athleteiq/keyless/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "keyless_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/keyless_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestAttestationRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ar := repo.NewAttestationRepository(conn)

	a := model.Attestation{
		ID:          uuid.New(),
		Subject:     "subject-1",
		Audience:    "client-id-1",
		Email:       "user@example.com",
		Address:     "0x0000000000000000000000000000000000000001",
		ProofHash:   "aaaa",
		Signature:   "0xsig",
		ArtifactKey: "proofs/aaaa.json",
		Timestamp:   time.Now().Unix(),
	}
	saved, err := ar.Create(ctx, a)
	require.NoError(t, err)
	require.Equal(t, a.ID, saved.ID)
	require.False(t, saved.CreatedAt.IsZero())

	byHash, err := ar.GetByProofHash(ctx, "aaaa")
	require.NoError(t, err)
	require.Equal(t, a.ID, byHash.ID)
	require.Equal(t, a.Timestamp, byHash.Timestamp)

	_, err = ar.GetByProofHash(ctx, "missing")
	require.ErrorIs(t, err, model.ErrNotFound)

	second := a
	second.ID = uuid.New()
	second.ProofHash = "bbbb"
	second.ArtifactKey = "proofs/bbbb.json"
	_, err = ar.Create(ctx, second)
	require.NoError(t, err)

	list, err := ar.ListByAddress(ctx, a.Address)
	require.NoError(t, err)
	require.Len(t, list, 2)

	empty, err := ar.ListByAddress(ctx, "0x0000000000000000000000000000000000000099")
	require.NoError(t, err)
	require.Empty(t, empty)
}
