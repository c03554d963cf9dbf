package domain

import "time"

// PendingAuthorization is the short-lived CSRF binding between an issued
// authorization URL and its callback. Keyed by a fingerprint of the opaque
// state token (the raw value only ever travels through the redirect).
// Consumed exactly once; swept by housekeeping when expired.
type PendingAuthorization struct {
	ID            string
	StateHash     string // deterministic fingerprint (base64url SHA-256) of the state token
	ConnectionID  string
	ConnectorName string
	RedirectURI   string
	ExpiresAt     time.Time
	CreatedAt     time.Time
}
