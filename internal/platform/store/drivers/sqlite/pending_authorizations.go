package sqlite

import (
	"context"
	"time"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
)

type pendingAuthorizationsRepo struct {
	q dbtx
}

func (r *pendingAuthorizationsRepo) CreatePendingAuthorization(ctx context.Context, p domain.PendingAuthorization) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO pending_authorizations (id, state_hash, connection_id, connector_name, redirect_uri, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.StateHash, p.ConnectionID, p.ConnectorName, p.RedirectURI, p.ExpiresAt, p.CreatedAt,
	)
	return err
}

// ConsumePendingAuthorization deletes and returns the record in a single
// statement, so two racing callers cannot both redeem the same state.
func (r *pendingAuthorizationsRepo) ConsumePendingAuthorization(ctx context.Context, stateHash string) (domain.PendingAuthorization, error) {
	var p domain.PendingAuthorization
	err := r.q.QueryRowContext(ctx, `
		DELETE FROM pending_authorizations WHERE state_hash = ?
		RETURNING id, state_hash, connection_id, connector_name, redirect_uri, expires_at, created_at`,
		stateHash).
		Scan(&p.ID, &p.StateHash, &p.ConnectionID, &p.ConnectorName, &p.RedirectURI, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		return domain.PendingAuthorization{}, mapNotFound(err)
	}
	return p, nil
}

func (r *pendingAuthorizationsRepo) DeleteExpiredPendingAuthorizations(ctx context.Context, now time.Time) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM pending_authorizations WHERE expires_at < ?`, now)
	return err
}
