package service

import (
	"context"
	"strings"
	"time"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
	"github.com/patchbay-dev/patchbay/internal/platform/registry"
	"github.com/patchbay-dev/patchbay/internal/platform/store"
	"github.com/patchbay-dev/patchbay/pkg/idx"
	"github.com/patchbay-dev/patchbay/pkg/slogx"
)

// ConnectionService manages connection lifecycle: creation, lookup, listing,
// revocation and deletion. OAuth transitions are the broker's job; everything
// that can be settled without a provider round trip lands here.
type ConnectionService struct {
	Store    store.Store
	Registry *registry.Registry
	Vault    *CredentialVault
}

// CreateConnectionRequest carries the inputs for a new connection.
type CreateConnectionRequest struct {
	ConnectorName string
	OwnerID       string
	Name          string
	Config        map[string]any

	// Direct credential material for api_key and basic connectors. When
	// provided the connection activates immediately; oauth2 connectors
	// ignore these and start pending.
	APIKey   string
	Username string
	Password string
}

// Create registers a new connection against a catalog connector.
//
// The starting status depends on the connector's auth type: "none" needs no
// secret and activates immediately, api_key/basic activate when their secret
// is supplied up front, and everything else starts pending until an
// authorization flow completes.
func (s *ConnectionService) Create(ctx context.Context, req CreateConnectionRequest) (domain.Connection, error) {
	log := slogx.FromContext(ctx)

	connector, err := s.Registry.Get(req.ConnectorName)
	if err != nil {
		return domain.Connection{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = connector.DisplayName
	}

	status := domain.ConnectionPending
	var cred *domain.Credential

	switch connector.Auth.Type {
	case domain.AuthTypeNone:
		status = domain.ConnectionActive
	case domain.AuthTypeAPIKey:
		if req.APIKey != "" {
			status = domain.ConnectionActive
			cred = &domain.Credential{APIKey: req.APIKey}
		}
	case domain.AuthTypeBasic:
		if req.Username != "" && req.Password != "" {
			status = domain.ConnectionActive
			cred = &domain.Credential{Username: req.Username, Password: req.Password}
		}
	}

	now := time.Now().UTC()
	conn := domain.Connection{
		ID:            idx.MustNew().String(),
		ConnectorName: connector.Name,
		OwnerID:       req.OwnerID,
		Name:          name,
		Status:        status,
		Config:        req.Config,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Connections().CreateConnection(ctx, conn); err != nil {
			return err
		}
		if cred != nil {
			return s.Vault.PutTx(ctx, tx, conn.ID, *cred)
		}
		return nil
	})
	if err != nil {
		return domain.Connection{}, err
	}

	log.Info("connection created",
		"connection_id", conn.ID,
		"connector", conn.ConnectorName,
		"status", conn.Status,
	)

	return conn, nil
}

// Get returns a connection by id.
func (s *ConnectionService) Get(ctx context.Context, id string) (domain.Connection, error) {
	return s.Store.Connections().GetConnectionByID(ctx, id)
}

// List returns an owner's connections, newest first, optionally narrowed to
// one connector.
func (s *ConnectionService) List(ctx context.Context, ownerID, connectorName string) ([]domain.Connection, error) {
	return s.Store.Connections().ListConnectionsByOwner(ctx, ownerID, connectorName)
}

// Revoke marks a connection revoked and purges its credential. The record
// itself survives for auditability; a revoked connection cannot be
// re-authorized, only deleted.
func (s *ConnectionService) Revoke(ctx context.Context, id string) (domain.Connection, error) {
	log := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Connections().SetConnectionStatus(ctx, id, domain.ConnectionRevoked); err != nil {
			return err
		}
		return tx.Credentials().DeleteCredential(ctx, id)
	})
	if err != nil {
		return domain.Connection{}, err
	}

	log.Info("connection revoked", "connection_id", id)
	return s.Store.Connections().GetConnectionByID(ctx, id)
}

// Delete removes a connection and its credential permanently.
func (s *ConnectionService) Delete(ctx context.Context, id string) error {
	log := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Credentials().DeleteCredential(ctx, id); err != nil {
			return err
		}
		return tx.Connections().DeleteConnection(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Info("connection deleted", "connection_id", id)
	return nil
}
