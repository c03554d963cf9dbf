package connectsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SDKClient is a client for the Patchbay integration platform.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new platform client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// url builds a complete URL by appending the path to the base URL.
func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// doJSON performs a request with an optional JSON body and decodes the
// response into target when the status matches expectedStatus.
func (c *SDKClient) doJSON(ctx context.Context, method, path string, payload, target any, expectedStatus int) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, raw)
	}

	if target != nil {
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// ListConnectors returns the connector catalog.
func (c *SDKClient) ListConnectors(ctx context.Context) ([]ConnectorSummary, error) {
	var out []ConnectorSummary
	if err := c.doJSON(ctx, http.MethodGet, "/connectors", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// GetConnector returns one connector with its full endpoint list.
func (c *SDKClient) GetConnector(ctx context.Context, name string) (*Connector, error) {
	var out Connector
	if err := c.doJSON(ctx, http.MethodGet, "/connectors/"+url.PathEscape(name), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListEndpoints returns the callable endpoints of a connector.
func (c *SDKClient) ListEndpoints(ctx context.Context, connector string) ([]Endpoint, error) {
	var out []Endpoint
	path := "/connectors/" + url.PathEscape(connector) + "/endpoints"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateConnection registers a new connection.
func (c *SDKClient) CreateConnection(ctx context.Context, req CreateConnectionRequest) (*Connection, error) {
	var out Connection
	if err := c.doJSON(ctx, http.MethodPost, "/connections", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListConnections returns an owner's connections. connector narrows the
// list when non-empty.
func (c *SDKClient) ListConnections(ctx context.Context, ownerID, connector string) ([]Connection, error) {
	q := url.Values{}
	q.Set("owner_id", ownerID)
	if connector != "" {
		q.Set("connector", connector)
	}

	var out []Connection
	if err := c.doJSON(ctx, http.MethodGet, "/connections?"+q.Encode(), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// GetConnection returns one connection by id.
func (c *SDKClient) GetConnection(ctx context.Context, id string) (*Connection, error) {
	var out Connection
	if err := c.doJSON(ctx, http.MethodGet, "/connections/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeConnection revokes a connection and purges its credential.
func (c *SDKClient) RevokeConnection(ctx context.Context, id string) (*Connection, error) {
	var out Connection
	path := "/connections/" + url.PathEscape(id) + "/revoke"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteConnection removes a connection permanently.
func (c *SDKClient) DeleteConnection(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/connections/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

// Authorize starts the OAuth flow for a connection.
func (c *SDKClient) Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResponse, error) {
	var out AuthorizeResponse
	if err := c.doJSON(ctx, http.MethodPost, "/oauth/authorize", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Callback completes the OAuth flow with the provider's state and code.
// Normally the provider redirects the user's browser here; this method
// exists for server-side and test flows.
func (c *SDKClient) Callback(ctx context.Context, state, code string) (*CallbackResponse, error) {
	q := url.Values{}
	q.Set("state", state)
	q.Set("code", code)

	var out CallbackResponse
	if err := c.doJSON(ctx, http.MethodGet, "/oauth/callback?"+q.Encode(), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RelayCallback completes the OAuth flow on behalf of a dashboard that
// received the provider redirect itself. The claimed connection id must
// match the one the state was issued for.
func (c *SDKClient) RelayCallback(ctx context.Context, req CallbackRequest) (*CallbackResponse, error) {
	var out CallbackResponse
	if err := c.doJSON(ctx, http.MethodPost, "/oauth/callback", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Execute invokes a declarative endpoint through the proxy.
func (c *SDKClient) Execute(ctx context.Context, req ExecuteRequest) (*NormalizedResponse, error) {
	var out NormalizedResponse
	if err := c.doJSON(ctx, http.MethodPost, "/proxy/execute", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReadiness checks if the service is ready.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
