package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
	"github.com/patchbay-dev/patchbay/internal/platform/store"
)

type connectionsRepo struct {
	q dbtx
}

const connectionColumns = `id, connector_name, owner_id, name, status, config, account, created_at, updated_at`

func (r *connectionsRepo) CreateConnection(ctx context.Context, c domain.Connection) error {
	cfg, err := marshalConfig(c.Config)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO connections (id, connector_name, owner_id, name, status, config, account, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ConnectorName, c.OwnerID, c.Name, string(c.Status), cfg,
		mapStringNull(c.Account), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *connectionsRepo) GetConnectionByID(ctx context.Context, id string) (domain.Connection, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+connectionColumns+`
		FROM connections WHERE id = ?`, id)
	return scanConnection(row)
}

func (r *connectionsRepo) ListConnectionsByOwner(ctx context.Context, ownerID, connectorName string) ([]domain.Connection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM connections WHERE owner_id = ?`
	args := []any{ownerID}
	if connectorName != "" {
		query += ` AND connector_name = ?`
		args = append(args, connectorName)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Connection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *connectionsRepo) TransitionConnectionStatus(ctx context.Context, id string, from []domain.ConnectionStatus, to domain.ConnectionStatus) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(from)), ",")
	args := []any{string(to), time.Now().UTC(), id}
	for _, s := range from {
		args = append(args, string(s))
	}

	res, err := r.q.ExecContext(ctx, `
		UPDATE connections SET status = ?, updated_at = ?
		WHERE id = ? AND status IN (`+placeholders+`)`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *connectionsRepo) SetConnectionStatus(ctx context.Context, id string, status domain.ConnectionStatus) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE connections SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *connectionsRepo) SetConnectionAccount(ctx context.Context, id, account string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE connections SET account = ?, updated_at = ? WHERE id = ?`,
		mapStringNull(account), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *connectionsRepo) DeleteConnection(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM connections WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanConnection(s scanner) (domain.Connection, error) {
	var (
		c       domain.Connection
		status  string
		cfg     string
		account sql.NullString
	)
	err := s.Scan(&c.ID, &c.ConnectorName, &c.OwnerID, &c.Name, &status, &cfg, &account, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Connection{}, mapNotFound(err)
	}

	c.Status = domain.ConnectionStatus(status)
	c.Account = mapNullString(account)
	c.Config, err = unmarshalConfig(cfg)
	if err != nil {
		return domain.Connection{}, err
	}
	return c, nil
}
