package store

import (
	"context"
	"errors"
	"time"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and let tests fake one
// slice of the store at a time.
type Store interface {
	Connections() Connections
	Credentials() Credentials
	PendingAuthorizations() PendingAuthorizations

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise committed. Prefer this over Tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Connections interface {
	// CreateConnection inserts a new connection (id is provided by the app via ULID).
	CreateConnection(ctx context.Context, c domain.Connection) error

	// GetConnectionByID returns a connection by id.
	GetConnectionByID(ctx context.Context, id string) (domain.Connection, error)

	// ListConnectionsByOwner returns all of an owner's connections, newest
	// first. connectorName narrows the list when non-empty.
	ListConnectionsByOwner(ctx context.Context, ownerID, connectorName string) ([]domain.Connection, error)

	// TransitionConnectionStatus is a single conditional write: the status
	// becomes `to` only if the current status is one of `from`. Returns
	// ErrNotFound when no row matched (unknown id or disallowed source state).
	TransitionConnectionStatus(ctx context.Context, id string, from []domain.ConnectionStatus, to domain.ConnectionStatus) error

	// SetConnectionStatus sets the status unconditionally and bumps updated_at.
	SetConnectionStatus(ctx context.Context, id string, status domain.ConnectionStatus) error

	// SetConnectionAccount records the external account label.
	SetConnectionAccount(ctx context.Context, id, account string) error

	// DeleteConnection removes the row. Credential purge is the caller's
	// job, inside the same transaction.
	DeleteConnection(ctx context.Context, id string) error
}

type Credentials interface {
	// UpsertCredential stores or replaces the encrypted credential blob for
	// a connection.
	UpsertCredential(ctx context.Context, rec domain.CredentialRecord) error

	// GetCredential returns the encrypted blob for a connection.
	GetCredential(ctx context.Context, connectionID string) (domain.CredentialRecord, error)

	// DeleteCredential removes the blob. Deleting an absent credential is
	// not an error.
	DeleteCredential(ctx context.Context, connectionID string) error
}

type PendingAuthorizations interface {
	// CreatePendingAuthorization stores a freshly issued authorization state.
	CreatePendingAuthorization(ctx context.Context, p domain.PendingAuthorization) error

	// ConsumePendingAuthorization atomically deletes and returns the record
	// for a state fingerprint. Exactly one concurrent caller wins; the rest
	// get ErrNotFound.
	ConsumePendingAuthorization(ctx context.Context, stateHash string) (domain.PendingAuthorization, error)

	// DeleteExpiredPendingAuthorizations removes records past their TTL.
	DeleteExpiredPendingAuthorizations(ctx context.Context, now time.Time) error
}
