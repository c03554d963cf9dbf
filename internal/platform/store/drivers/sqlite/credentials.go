package sqlite

import (
	"context"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
)

type credentialsRepo struct {
	q dbtx
}

func (r *credentialsRepo) UpsertCredential(ctx context.Context, rec domain.CredentialRecord) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO credentials (connection_id, ciphertext, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (connection_id) DO UPDATE SET
			ciphertext = excluded.ciphertext,
			updated_at = excluded.updated_at`,
		rec.ConnectionID, rec.Ciphertext, rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

func (r *credentialsRepo) GetCredential(ctx context.Context, connectionID string) (domain.CredentialRecord, error) {
	var rec domain.CredentialRecord
	err := r.q.QueryRowContext(ctx, `
		SELECT connection_id, ciphertext, created_at, updated_at
		FROM credentials WHERE connection_id = ?`, connectionID).
		Scan(&rec.ConnectionID, &rec.Ciphertext, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return domain.CredentialRecord{}, mapNotFound(err)
	}
	return rec, nil
}

func (r *credentialsRepo) DeleteCredential(ctx context.Context, connectionID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM credentials WHERE connection_id = ?`, connectionID)
	return err
}
