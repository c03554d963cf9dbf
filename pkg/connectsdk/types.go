package connectsdk

import "time"

// ConnectorSummary is one row of the connector catalog listing.
type ConnectorSummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	AuthType    string `json:"auth_type"`
	Version     string `json:"version"`
}

// Parameter describes one declared input of an endpoint.
type Parameter struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"` // query, path, header or body
	Type        string `json:"type"` // string, int, bool or number
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
}

// Endpoint is one callable operation of a connector.
type Endpoint struct {
	Name         string      `json:"name"`
	DisplayName  string      `json:"display_name"`
	Description  string      `json:"description,omitempty"`
	Method       string      `json:"method"`
	Path         string      `json:"path"`
	Parameters   []Parameter `json:"parameters,omitempty"`
	ResponseType string      `json:"response_type"`
}

// Connector is the full catalog entry, endpoints included.
type Connector struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name"`
	Description string     `json:"description,omitempty"`
	AuthType    string     `json:"auth_type"`
	Version     string     `json:"version"`
	Endpoints   []Endpoint `json:"endpoints"`
}

// Connection is one owner's instance of a connector.
type Connection struct {
	ID        string         `json:"id"`
	Connector string         `json:"connector"`
	OwnerID   string         `json:"owner_id"`
	Name      string         `json:"name"`
	Status    string         `json:"status"` // pending, authorizing, active, error or revoked
	Config    map[string]any `json:"config,omitempty"`
	Account   string         `json:"account,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateConnectionRequest registers a new connection. ConnectorType and
// UserID are accepted aliases for Connector and OwnerID; the dashboard's
// wire format uses the alias names.
type CreateConnectionRequest struct {
	Connector     string         `json:"connector,omitempty"`
	ConnectorType string         `json:"connector_type,omitempty"`
	OwnerID       string         `json:"owner_id,omitempty"`
	UserID        string         `json:"user_id,omitempty"`
	Name          string         `json:"name,omitempty"`
	Config        map[string]any `json:"config,omitempty"`

	// Direct credential material for api_key and basic connectors.
	APIKey   string `json:"api_key,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// AuthorizeRequest starts an OAuth authorization flow for a connection.
// ConnectorType is an accepted alias for Connector.
type AuthorizeRequest struct {
	ConnectionID  string `json:"connection_id"`
	Connector     string `json:"connector,omitempty"`
	ConnectorType string `json:"connector_type,omitempty"`
	RedirectURI   string `json:"redirect_uri"`
}

// AuthorizeResponse carries the provider URL the end user must visit.
type AuthorizeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
	ConnectionID     string `json:"connection_id"`
}

// CallbackRequest relays a provider callback through the dashboard. The
// dashboard persists state and connection_id across the provider redirect
// and posts them here; the server re-verifies that the state resolves to
// the same connection.
type CallbackRequest struct {
	ConnectionID string `json:"connection_id"`
	Code         string `json:"code"`
	State        string `json:"state"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
}

// CallbackResponse reports the outcome of a completed authorization.
type CallbackResponse struct {
	ConnectionID string `json:"connection_id"`
	Status       string `json:"status"`
	Account      string `json:"account,omitempty"`
}

// ExecuteRequest invokes a declarative endpoint through the proxy.
// EndpointConfig is an accepted alias for Endpoint. Both are names resolved
// against the catalog, never method/path material.
type ExecuteRequest struct {
	ConnectionID   string            `json:"connection_id"`
	Connector      string            `json:"connector,omitempty"`
	Endpoint       string            `json:"endpoint,omitempty"`
	EndpointConfig string            `json:"endpoint_config,omitempty"`
	Params         map[string]any    `json:"params,omitempty"`
	PathParams     map[string]string `json:"path_params,omitempty"`
	Body           any               `json:"body,omitempty"`
}

// NormalizedResponse is the uniform result of a proxied call. Body is
// decoded JSON for json endpoints, a string for text endpoints, and a
// {content, content_type} base64 wrapper for binary endpoints.
type NormalizedResponse struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    any               `json:"body"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Catalog  string `json:"catalog"`
}
