package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
	"github.com/patchbay-dev/patchbay/internal/platform/store"
	"github.com/patchbay-dev/patchbay/pkg/cryptox"
)

// CredentialVault stores connection secrets encrypted at rest. Credentials
// are serialized to JSON and sealed with the platform master key before they
// ever reach the store; reads reverse the process. The vault itself does no
// refreshing or lifecycle work, it is a dumb encrypted keyed blob store.
type CredentialVault struct {
	Store store.Store
}

// Put encrypts and persists the credential for a connection, replacing any
// previous value.
func (v *CredentialVault) Put(ctx context.Context, connectionID string, cred domain.Credential) error {
	return v.PutTx(ctx, v.Store, connectionID, cred)
}

// PutTx is Put against an explicit store handle, so callers can bundle the
// write into a larger transaction.
func (v *CredentialVault) PutTx(ctx context.Context, s store.Store, connectionID string, cred domain.Credential) error {
	plaintext, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}

	ciphertext, err := cryptox.EncryptSecret(plaintext)
	if err != nil {
		return fmt.Errorf("encrypt credential: %w", err)
	}

	now := time.Now().UTC()
	return s.Credentials().UpsertCredential(ctx, domain.CredentialRecord{
		ConnectionID: connectionID,
		Ciphertext:   ciphertext,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Get decrypts and returns the credential for a connection.
// Returns ErrNoCredential when none is stored.
func (v *CredentialVault) Get(ctx context.Context, connectionID string) (domain.Credential, error) {
	rec, err := v.Store.Credentials().GetCredential(ctx, connectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Credential{}, ErrNoCredential
		}
		return domain.Credential{}, err
	}

	plaintext, err := cryptox.DecryptSecret(rec.Ciphertext)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("decrypt credential: %w", err)
	}

	var cred domain.Credential
	if err := json.Unmarshal(plaintext, &cred); err != nil {
		return domain.Credential{}, fmt.Errorf("unmarshal credential: %w", err)
	}
	return cred, nil
}

// Delete removes the stored credential. Deleting an absent credential is
// not an error, so revocation is idempotent.
func (v *CredentialVault) Delete(ctx context.Context, connectionID string) error {
	return v.Store.Credentials().DeleteCredential(ctx, connectionID)
}
