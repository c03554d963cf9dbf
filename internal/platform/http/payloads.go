package http

import (
	"github.com/patchbay-dev/patchbay/internal/platform/domain"
	"github.com/patchbay-dev/patchbay/pkg/connectsdk"
)

func toConnectionPayload(c domain.Connection) connectsdk.Connection {
	return connectsdk.Connection{
		ID:        c.ID,
		Connector: c.ConnectorName,
		OwnerID:   c.OwnerID,
		Name:      c.Name,
		Status:    string(c.Status),
		Config:    c.Config,
		Account:   c.Account,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toConnectorSummaryPayload(s domain.ConnectorSummary) connectsdk.ConnectorSummary {
	return connectsdk.ConnectorSummary{
		Name:        s.Name,
		DisplayName: s.DisplayName,
		Description: s.Description,
		AuthType:    string(s.AuthType),
		Version:     s.Version,
	}
}

func toEndpointPayload(e domain.Endpoint) connectsdk.Endpoint {
	out := connectsdk.Endpoint{
		Name:         e.Name,
		DisplayName:  e.DisplayName,
		Description:  e.Description,
		Method:       e.Method,
		Path:         e.Path,
		ResponseType: e.ResponseType,
	}
	for _, p := range e.Parameters {
		out.Parameters = append(out.Parameters, connectsdk.Parameter{
			Name:        p.Name,
			Kind:        string(p.Kind),
			Type:        string(p.Type),
			Required:    p.Required,
			Description: p.Description,
			Default:     p.Default,
		})
	}
	return out
}

func toConnectorPayload(c domain.Connector) connectsdk.Connector {
	out := connectsdk.Connector{
		Name:        c.Name,
		DisplayName: c.DisplayName,
		Description: c.Description,
		AuthType:    string(c.Auth.Type),
		Version:     c.Version,
		Endpoints:   make([]connectsdk.Endpoint, 0, len(c.Endpoints)),
	}
	for _, e := range c.Endpoints {
		out.Endpoints = append(out.Endpoints, toEndpointPayload(e))
	}
	return out
}
