package domain

import "time"

// ConnectionStatus is the lifecycle state of a connection.
type ConnectionStatus string

const (
	ConnectionPending     ConnectionStatus = "pending"
	ConnectionAuthorizing ConnectionStatus = "authorizing"
	ConnectionActive      ConnectionStatus = "active"
	ConnectionError       ConnectionStatus = "error"
	ConnectionRevoked     ConnectionStatus = "revoked"
)

// Connection is one owner's instance of a connector. Secret material never
// lives here; it is keyed by the connection id in the credential store so
// this record can be serialized and logged freely.
type Connection struct {
	ID            string
	ConnectorName string
	OwnerID       string
	Name          string
	Status        ConnectionStatus
	Config        map[string]any // connector-specific, non-secret settings
	Account       string         // external account label (e.g. OIDC subject), display only
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
