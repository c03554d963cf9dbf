package service

import (
	"context"
	"testing"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
	"github.com/patchbay-dev/patchbay/internal/platform/registry"
	"github.com/patchbay-dev/patchbay/internal/platform/store"
	"github.com/stretchr/testify/require"
)

func newTestConnectionService(t *testing.T, st store.Store) *ConnectionService {
	t.Helper()

	reg, err := registry.New(testConnectors("https://example.com/authorize", "https://example.com/token"))
	require.NoError(t, err)

	return &ConnectionService{
		Store:    st,
		Registry: reg,
		Vault:    &CredentialVault{Store: st},
	}
}

func TestCreateConnection(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestConnectionService(t, st)

	t.Run("oauth2 starts pending", func(t *testing.T) {
		conn, err := svc.Create(ctx, CreateConnectionRequest{
			ConnectorName: "github",
			OwnerID:       "owner-1",
			Name:          "my github",
		})
		require.NoError(t, err)
		require.Equal(t, domain.ConnectionPending, conn.Status)
		require.Equal(t, "my github", conn.Name)
		require.NotEmpty(t, conn.ID)
	})

	t.Run("auth none activates immediately", func(t *testing.T) {
		conn, err := svc.Create(ctx, CreateConnectionRequest{
			ConnectorName: "httpbin",
			OwnerID:       "owner-1",
		})
		require.NoError(t, err)
		require.Equal(t, domain.ConnectionActive, conn.Status)
	})

	t.Run("api key with secret activates and stores credential", func(t *testing.T) {
		conn, err := svc.Create(ctx, CreateConnectionRequest{
			ConnectorName: "openweathermap",
			OwnerID:       "owner-1",
			APIKey:        "owm-key",
		})
		require.NoError(t, err)
		require.Equal(t, domain.ConnectionActive, conn.Status)

		cred, err := svc.Vault.Get(ctx, conn.ID)
		require.NoError(t, err)
		require.Equal(t, "owm-key", cred.APIKey)
	})

	t.Run("api key without secret stays pending", func(t *testing.T) {
		conn, err := svc.Create(ctx, CreateConnectionRequest{
			ConnectorName: "openweathermap",
			OwnerID:       "owner-1",
		})
		require.NoError(t, err)
		require.Equal(t, domain.ConnectionPending, conn.Status)

		_, err = svc.Vault.Get(ctx, conn.ID)
		require.ErrorIs(t, err, ErrNoCredential)
	})

	t.Run("empty name falls back to connector display name", func(t *testing.T) {
		conn, err := svc.Create(ctx, CreateConnectionRequest{
			ConnectorName: "github",
			OwnerID:       "owner-1",
		})
		require.NoError(t, err)
		require.Equal(t, "GitHub", conn.Name)
	})

	t.Run("unknown connector", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateConnectionRequest{
			ConnectorName: "does-not-exist",
			OwnerID:       "owner-1",
		})
		require.ErrorIs(t, err, registry.ErrNotFound)
	})
}

func TestListConnections(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestConnectionService(t, st)

	gh, err := svc.Create(ctx, CreateConnectionRequest{ConnectorName: "github", OwnerID: "owner-1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateConnectionRequest{ConnectorName: "httpbin", OwnerID: "owner-1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateConnectionRequest{ConnectorName: "github", OwnerID: "owner-2"})
	require.NoError(t, err)

	all, err := svc.List(ctx, "owner-1", "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := svc.List(ctx, "owner-1", "github")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, gh.ID, filtered[0].ID)
}

func TestRevokeConnection(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestConnectionService(t, st)

	conn, err := svc.Create(ctx, CreateConnectionRequest{
		ConnectorName: "openweathermap",
		OwnerID:       "owner-1",
		APIKey:        "owm-key",
	})
	require.NoError(t, err)

	revoked, err := svc.Revoke(ctx, conn.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ConnectionRevoked, revoked.Status)

	// The credential is purged with the revocation
	_, err = svc.Vault.Get(ctx, conn.ID)
	require.ErrorIs(t, err, ErrNoCredential)

	// Revoking again is fine; the credential delete is idempotent
	_, err = svc.Revoke(ctx, conn.ID)
	require.NoError(t, err)

	_, err = svc.Revoke(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteConnection(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestConnectionService(t, st)

	conn, err := svc.Create(ctx, CreateConnectionRequest{
		ConnectorName: "openweathermap",
		OwnerID:       "owner-1",
		APIKey:        "owm-key",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, conn.ID))

	_, err = svc.Get(ctx, conn.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.Vault.Get(ctx, conn.ID)
	require.ErrorIs(t, err, ErrNoCredential)

	require.ErrorIs(t, svc.Delete(ctx, "missing"), store.ErrNotFound)
}
