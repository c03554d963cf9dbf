package service

import (
	"context"
	"testing"
	"time"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
	"github.com/stretchr/testify/require"
)

func TestVaultRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	vault := &CredentialVault{Store: st}

	conn := seedConnection(t, st, "github", domain.ConnectionActive)

	cred := domain.Credential{
		AccessToken:  "gho_access",
		RefreshToken: "ghr_refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		Scope:        "repo read:user",
	}
	require.NoError(t, vault.Put(ctx, conn.ID, cred))

	got, err := vault.Get(ctx, conn.ID)
	require.NoError(t, err)
	require.Equal(t, cred.AccessToken, got.AccessToken)
	require.Equal(t, cred.RefreshToken, got.RefreshToken)
	require.Equal(t, cred.TokenType, got.TokenType)
	require.True(t, cred.Expiry.Equal(got.Expiry))
}

func TestVaultCiphertextIsOpaque(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	vault := &CredentialVault{Store: st}

	conn := seedConnection(t, st, "github", domain.ConnectionActive)
	require.NoError(t, vault.Put(ctx, conn.ID, domain.Credential{AccessToken: "super-secret-token"}))

	rec, err := st.Credentials().GetCredential(ctx, conn.ID)
	require.NoError(t, err)
	require.NotContains(t, string(rec.Ciphertext), "super-secret-token")
}

func TestVaultPutReplacesExisting(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	vault := &CredentialVault{Store: st}

	conn := seedConnection(t, st, "github", domain.ConnectionActive)

	require.NoError(t, vault.Put(ctx, conn.ID, domain.Credential{AccessToken: "first"}))
	require.NoError(t, vault.Put(ctx, conn.ID, domain.Credential{AccessToken: "second"}))

	got, err := vault.Get(ctx, conn.ID)
	require.NoError(t, err)
	require.Equal(t, "second", got.AccessToken)
}

func TestVaultGetMissing(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	vault := &CredentialVault{Store: st}

	_, err := vault.Get(ctx, "nope")
	require.ErrorIs(t, err, ErrNoCredential)
}

func TestVaultDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	vault := &CredentialVault{Store: st}

	conn := seedConnection(t, st, "github", domain.ConnectionActive)
	require.NoError(t, vault.Put(ctx, conn.ID, domain.Credential{AccessToken: "tok"}))

	require.NoError(t, vault.Delete(ctx, conn.ID))
	require.NoError(t, vault.Delete(ctx, conn.ID)) // second delete is a no-op

	_, err := vault.Get(ctx, conn.ID)
	require.ErrorIs(t, err, ErrNoCredential)
}
