package domain

import "time"

// Credential is the secret material backing an active connection. Which
// fields are set depends on the connector's auth type. Stored only in
// encrypted form by the credential vault.
type Credential struct {
	// oauth2
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"` // typically "Bearer"
	Expiry       time.Time `json:"expiry,omitempty"`     // zero means no known expiry
	Scope        string    `json:"scope,omitempty"`      // space-delimited

	// api_key
	APIKey string `json:"api_key,omitempty"`

	// basic
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Expired reports whether the access token is past its expiry, with a small
// skew so tokens about to lapse are refreshed before use.
func (c Credential) Expired(now time.Time, skew time.Duration) bool {
	if c.Expiry.IsZero() {
		return false
	}
	return !now.Add(skew).Before(c.Expiry)
}

// CredentialRecord is the persisted, encrypted form of a Credential.
// The plaintext never touches the store.
type CredentialRecord struct {
	ConnectionID string
	Ciphertext   []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
