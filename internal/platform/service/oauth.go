package service

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
	"github.com/patchbay-dev/patchbay/internal/platform/registry"
	"github.com/patchbay-dev/patchbay/internal/platform/store"
	"github.com/patchbay-dev/patchbay/pkg/cryptox"
	"github.com/patchbay-dev/patchbay/pkg/idx"
	"github.com/patchbay-dev/patchbay/pkg/slogx"
)

// tokenSkew is how early a token counts as expired, so calls never go out
// with a token about to lapse mid-flight.
const tokenSkew = 30 * time.Second

// OAuthBroker drives the three-legged authorization-code flow for oauth2
// connectors: issuing authorization URLs bound to one-shot CSRF states,
// exchanging callback codes for tokens, and refreshing tokens on demand.
type OAuthBroker struct {
	Store    store.Store
	Registry *registry.Registry
	Vault    *CredentialVault

	// PendingTTL bounds how long an issued authorization URL stays valid.
	PendingTTL time.Duration

	// ExchangeTimeout bounds outbound calls to provider token endpoints.
	ExchangeTimeout time.Duration

	// HTTPClient is used for token endpoint calls. Defaults to
	// http.DefaultClient; tests point it at a stub provider.
	HTTPClient *http.Client

	refreshGroup singleflight.Group
}

// AuthorizationGrant is the result of initiating an authorization flow.
// The raw state travels to the provider and back through the redirect; only
// its fingerprint is persisted.
type AuthorizationGrant struct {
	AuthorizationURL string
	State            string
	ConnectionID     string
}

// oauthConfig builds the provider configuration for a connector, pulling
// client credentials from the environment variables the catalog names.
func (b *OAuthBroker) oauthConfig(c domain.Connector, redirectURI string) (*oauth2.Config, error) {
	if c.Auth.Type != domain.AuthTypeOAuth2 {
		return nil, ErrUnsupportedAuthType
	}

	clientID := os.Getenv(c.Auth.ClientIDEnv)
	clientSecret := os.Getenv(c.Auth.ClientSecretEnv)
	if clientID == "" || clientSecret == "" {
		return nil, ErrProviderNotConfigured
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       c.Auth.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.Auth.AuthURL,
			TokenURL: c.Auth.TokenURL,
		},
	}, nil
}

// Initiate starts the authorization flow for a connection. It persists the
// one-shot pending authorization BEFORE returning the URL, so a callback
// can never arrive for a state we have no record of, and moves the
// connection to authorizing.
//
// Re-initiating is allowed from any non-revoked state: a user can restart a
// stuck or failed authorization, and re-consenting an active connection
// simply rotates its credential on completion.
func (b *OAuthBroker) Initiate(ctx context.Context, connectionID, connectorName, redirectURI string) (*AuthorizationGrant, error) {
	log := slogx.FromContext(ctx)

	conn, err := b.Store.Connections().GetConnectionByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.ConnectorName != connectorName {
		return nil, ErrConnectorMismatch
	}

	connector, err := b.Registry.Get(connectorName)
	if err != nil {
		return nil, err
	}

	cfg, err := b.oauthConfig(connector, redirectURI)
	if err != nil {
		return nil, err
	}

	state, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pending := domain.PendingAuthorization{
		ID:            idx.MustNew().String(),
		StateHash:     cryptox.FingerprintToken(state),
		ConnectionID:  conn.ID,
		ConnectorName: connectorName,
		RedirectURI:   redirectURI,
		ExpiresAt:     now.Add(b.PendingTTL),
		CreatedAt:     now,
	}
	if err := b.Store.PendingAuthorizations().CreatePendingAuthorization(ctx, pending); err != nil {
		return nil, err
	}

	err = b.Store.Connections().TransitionConnectionStatus(ctx, conn.ID,
		[]domain.ConnectionStatus{
			domain.ConnectionPending,
			domain.ConnectionAuthorizing,
			domain.ConnectionError,
			domain.ConnectionActive,
		},
		domain.ConnectionAuthorizing,
	)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotActive
		}
		return nil, err
	}

	// access_type=offline and prompt=consent coax providers into returning
	// a refresh token on every grant, not just the first.
	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	log.Info("authorization initiated",
		"connection_id", conn.ID,
		"connector", connectorName,
	)

	return &AuthorizationGrant{
		AuthorizationURL: authURL,
		State:            state,
		ConnectionID:     conn.ID,
	}, nil
}

// Complete finishes the authorization flow from a provider redirect.
//
// The pending authorization is consumed first, in a single atomic step, so
// a replayed state loses before anything else happens and an unknown state
// mutates nothing. Failures after the consume mark the connection as
// errored since the one-shot state is already spent and the flow cannot be
// resumed.
func (b *OAuthBroker) Complete(ctx context.Context, state, code string) (domain.Connection, error) {
	return b.complete(ctx, "", state, code)
}

// CompleteFor is Complete for relayed callbacks, where the caller also
// claims a connection id. The claim must match the pending record resolved
// from the state; a mismatch fails ErrInvalidState.
func (b *OAuthBroker) CompleteFor(ctx context.Context, connectionID, state, code string) (domain.Connection, error) {
	return b.complete(ctx, connectionID, state, code)
}

func (b *OAuthBroker) complete(ctx context.Context, expectedConnectionID, state, code string) (domain.Connection, error) {
	log := slogx.FromContext(ctx)

	pending, err := b.Store.PendingAuthorizations().ConsumePendingAuthorization(ctx, cryptox.FingerprintToken(state))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Connection{}, ErrInvalidState
		}
		return domain.Connection{}, err
	}

	now := time.Now().UTC()
	if now.After(pending.ExpiresAt) {
		b.markError(ctx, pending.ConnectionID)
		return domain.Connection{}, ErrInvalidState
	}

	if expectedConnectionID != "" && expectedConnectionID != pending.ConnectionID {
		// The state resolved, but to a different connection than claimed.
		// The one-shot record is spent either way, so the flow is dead.
		b.markError(ctx, pending.ConnectionID)
		return domain.Connection{}, ErrInvalidState
	}

	// A connection revoked while the flow was in flight must stay revoked;
	// its state is spent but nothing else happens, not even the exchange.
	conn, err := b.Store.Connections().GetConnectionByID(ctx, pending.ConnectionID)
	if err != nil {
		return domain.Connection{}, ErrInvalidState
	}
	if conn.Status == domain.ConnectionRevoked {
		return domain.Connection{}, ErrInvalidState
	}

	// An empty code means the provider denied or aborted the grant. The
	// state is already burned; flag the flow without an outbound call.
	if code == "" {
		b.markError(ctx, pending.ConnectionID)
		return domain.Connection{}, ErrExchangeFailed
	}

	connector, err := b.Registry.Get(pending.ConnectorName)
	if err != nil {
		b.markError(ctx, pending.ConnectionID)
		return domain.Connection{}, err
	}

	cfg, err := b.oauthConfig(connector, pending.RedirectURI)
	if err != nil {
		b.markError(ctx, pending.ConnectionID)
		return domain.Connection{}, err
	}

	token, err := b.exchange(ctx, cfg, code)
	if err != nil {
		b.markError(ctx, pending.ConnectionID)
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			log.Warn("code exchange rejected by provider",
				"connection_id", pending.ConnectionID,
				"provider_error", retrieveErr.ErrorCode,
			)
			return domain.Connection{}, ErrExchangeFailed
		}
		return domain.Connection{}, err
	}

	account := accountFromIDToken(token)

	// The credential write and the activation land together so "active"
	// always implies a stored credential. Activation is a conditional
	// transition: if a concurrent revoke won, the whole transaction rolls
	// back and the purged credential stays purged.
	err = b.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Connections().TransitionConnectionStatus(ctx, pending.ConnectionID,
			[]domain.ConnectionStatus{
				domain.ConnectionPending,
				domain.ConnectionAuthorizing,
				domain.ConnectionError,
				domain.ConnectionActive,
			},
			domain.ConnectionActive,
		); err != nil {
			return err
		}
		if err := b.Vault.PutTx(ctx, tx, pending.ConnectionID, credentialFromToken(token)); err != nil {
			return err
		}
		if account != "" {
			return tx.Connections().SetConnectionAccount(ctx, pending.ConnectionID, account)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Connection{}, ErrInvalidState
		}
		b.markError(ctx, pending.ConnectionID)
		return domain.Connection{}, err
	}

	log.Info("authorization completed",
		"connection_id", pending.ConnectionID,
		"connector", pending.ConnectorName,
	)

	return b.Store.Connections().GetConnectionByID(ctx, pending.ConnectionID)
}

// exchange performs the code-for-token exchange with a bounded timeout.
func (b *OAuthBroker) exchange(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
	timeout := b.ExchangeTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if b.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, b.HTTPClient)
	}
	return cfg.Exchange(ctx, code)
}

// Fresh returns a credential that is valid for immediate use, refreshing it
// first if the access token is expired or about to expire.
func (b *OAuthBroker) Fresh(ctx context.Context, connectionID string) (domain.Credential, error) {
	cred, err := b.Vault.Get(ctx, connectionID)
	if err != nil {
		return domain.Credential{}, err
	}

	if !cred.Expired(time.Now(), tokenSkew) {
		return cred, nil
	}

	return b.Refresh(ctx, connectionID, cred)
}

// Refresh exchanges the refresh token for a new access token and stores the
// result. Concurrent refreshes for the same connection are collapsed into
// one provider call. A refresh failure invalidates the credential and marks
// the connection errored; an expired token without a refresh token returns
// ErrCredentialExpired without touching the connection, since re-authorizing
// is the only way forward either way and the stored state is still honest.
func (b *OAuthBroker) Refresh(ctx context.Context, connectionID string, cred domain.Credential) (domain.Credential, error) {
	if cred.RefreshToken == "" {
		return domain.Credential{}, ErrCredentialExpired
	}

	v, err, _ := b.refreshGroup.Do(connectionID, func() (any, error) {
		log := slogx.FromContext(ctx)

		conn, err := b.Store.Connections().GetConnectionByID(ctx, connectionID)
		if err != nil {
			return nil, err
		}

		connector, err := b.Registry.Get(conn.ConnectorName)
		if err != nil {
			return nil, err
		}

		cfg, err := b.oauthConfig(connector, "")
		if err != nil {
			return nil, err
		}

		tctx := ctx
		if b.HTTPClient != nil {
			tctx = context.WithValue(ctx, oauth2.HTTPClient, b.HTTPClient)
		}

		src := cfg.TokenSource(tctx, &oauth2.Token{
			AccessToken:  cred.AccessToken,
			RefreshToken: cred.RefreshToken,
			TokenType:    cred.TokenType,
			Expiry:       time.Now().Add(-time.Minute), // force the refresh
		})

		token, err := src.Token()
		if err != nil {
			log.Warn("token refresh failed",
				"connection_id", connectionID,
				"error", err,
			)
			// The refresh token is burned. Drop the credential and flag
			// the connection so the owner knows to re-authorize.
			_ = b.Vault.Delete(ctx, connectionID)
			_ = b.Store.Connections().SetConnectionStatus(ctx, connectionID, domain.ConnectionError)
			return nil, ErrCredentialExpired
		}

		fresh := credentialFromToken(token)
		if fresh.RefreshToken == "" {
			// Providers may omit the refresh token on renewal; keep ours.
			fresh.RefreshToken = cred.RefreshToken
		}

		if err := b.Vault.Put(ctx, connectionID, fresh); err != nil {
			return nil, err
		}
		return fresh, nil
	})
	if err != nil {
		return domain.Credential{}, err
	}
	return v.(domain.Credential), nil
}

// markError flags a connection after an unrecoverable authorization
// failure. Best effort: the original error matters more. The write is
// conditional so a revoked connection is never dragged back into the
// lifecycle.
func (b *OAuthBroker) markError(ctx context.Context, connectionID string) {
	err := b.Store.Connections().TransitionConnectionStatus(ctx, connectionID,
		[]domain.ConnectionStatus{
			domain.ConnectionPending,
			domain.ConnectionAuthorizing,
			domain.ConnectionActive,
			domain.ConnectionError,
		},
		domain.ConnectionError,
	)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Error("failed to mark connection errored",
			"connection_id", connectionID,
			"error", err,
		)
	}
}

// credentialFromToken converts a provider token into vault form.
func credentialFromToken(t *oauth2.Token) domain.Credential {
	cred := domain.Credential{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry.UTC(),
	}
	if t.Expiry.IsZero() {
		cred.Expiry = time.Time{}
	}
	if scope, ok := t.Extra("scope").(string); ok {
		cred.Scope = scope
	}
	return cred
}

// accountFromIDToken pulls a display label out of an OIDC id_token, when the
// provider sent one. The token is not verified: the label is cosmetic and
// the id_token arrived over the same TLS channel as the access token.
func accountFromIDToken(t *oauth2.Token) string {
	raw, ok := t.Extra("id_token").(string)
	if !ok || raw == "" {
		return ""
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return ""
	}

	if email, ok := claims["email"].(string); ok && email != "" {
		return email
	}
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}
