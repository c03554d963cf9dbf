package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
	"github.com/patchbay-dev/patchbay/internal/platform/registry"
	"github.com/patchbay-dev/patchbay/internal/platform/store"
	"github.com/patchbay-dev/patchbay/pkg/slogx"
)

// allowedResponseHeaders is the allowlist of upstream headers surfaced to
// callers. Everything else (cookies, server fingerprints) is dropped.
var allowedResponseHeaders = []string{
	"Content-Type",
	"X-Request-Id",
	"Retry-After",
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
	"X-RateLimit-Reset",
}

// ProxyExecutor turns a declarative endpoint reference plus caller arguments
// into an outbound HTTP call on behalf of a connection. Method, URL and auth
// placement all come from the catalog; callers only supply parameter values.
type ProxyExecutor struct {
	Store    store.Store
	Registry *registry.Registry
	Vault    *CredentialVault
	Broker   *OAuthBroker

	// UpstreamTimeout bounds each proxied call.
	UpstreamTimeout time.Duration

	// HTTPClient makes the upstream calls. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// ExecuteRequest identifies the endpoint to call and the caller's arguments.
type ExecuteRequest struct {
	ConnectionID string
	Connector    string
	Endpoint     string

	// Params feed query, header and body parameters by name.
	Params map[string]any

	// PathParams fill {placeholder} segments in the endpoint path.
	PathParams map[string]string

	// Body overrides the request body wholesale. When set, body-kind
	// parameters are ignored.
	Body any
}

// NormalizedResponse is the uniform shape every proxied call returns,
// regardless of what the upstream spoke.
type NormalizedResponse struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    any               `json:"body"`
}

// Execute performs one proxied call. Upstream failures that produced a
// response are not errors: the status and body pass through normalized so
// callers can handle provider-level failures themselves. Only local
// problems (unknown endpoint, invalid params, missing credential, transport
// failure) surface as errors.
func (p *ProxyExecutor) Execute(ctx context.Context, req ExecuteRequest) (*NormalizedResponse, error) {
	log := slogx.FromContext(ctx)

	conn, err := p.Store.Connections().GetConnectionByID(ctx, req.ConnectionID)
	if err != nil {
		return nil, err
	}
	if conn.Status != domain.ConnectionActive {
		return nil, ErrNotActive
	}
	if req.Connector != "" && req.Connector != conn.ConnectorName {
		return nil, ErrConnectorMismatch
	}

	connector, err := p.Registry.Get(conn.ConnectorName)
	if err != nil {
		return nil, err
	}
	endpoint, err := p.Registry.Endpoint(conn.ConnectorName, req.Endpoint)
	if err != nil {
		return nil, ErrUnknownEndpoint
	}

	timeout := p.UpstreamTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := p.buildRequest(callCtx, connector, endpoint, req)
	if err != nil {
		return nil, err
	}

	if err := p.attachAuth(ctx, httpReq, connector, conn.ID); err != nil {
		return nil, err
	}

	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		log.Warn("upstream call failed",
			"connection_id", conn.ID,
			"endpoint", endpoint.Name,
			"error", err,
		)
		return nil, ErrUpstreamUnreachable
	}
	defer resp.Body.Close()

	normalized, err := normalizeResponse(resp, endpoint.ResponseType)
	if err != nil {
		return nil, err
	}

	log.Info("proxied upstream call",
		"connection_id", conn.ID,
		"connector", connector.Name,
		"endpoint", endpoint.Name,
		"status", normalized.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return normalized, nil
}

// buildRequest validates arguments against the endpoint declaration and
// assembles the outbound request. All violations are collected before
// returning so the caller sees every problem at once.
func (p *ProxyExecutor) buildRequest(ctx context.Context, connector domain.Connector, endpoint domain.Endpoint, req ExecuteRequest) (*http.Request, error) {
	var violations []ParameterViolation

	query := url.Values{}
	headers := map[string]string{}
	bodyFields := map[string]any{}
	path := endpoint.Path

	for _, param := range endpoint.Parameters {
		var raw any
		var present bool

		if param.Kind == domain.ParamKindPath {
			if v, ok := req.PathParams[param.Name]; ok {
				raw, present = v, true
			}
		} else if v, ok := req.Params[param.Name]; ok {
			raw, present = v, true
		}

		if !present {
			if param.Default != nil {
				raw, present = param.Default, true
			} else if param.Required {
				violations = append(violations, ParameterViolation{
					Name:   param.Name,
					Reason: "required parameter missing",
				})
				continue
			} else {
				continue
			}
		}

		value, err := coerceParam(raw, param.Type)
		if err != nil {
			violations = append(violations, ParameterViolation{
				Name:   param.Name,
				Reason: err.Error(),
			})
			continue
		}

		switch param.Kind {
		case domain.ParamKindQuery:
			query.Set(param.Name, fmt.Sprint(value))
		case domain.ParamKindHeader:
			headers[param.Name] = fmt.Sprint(value)
		case domain.ParamKindPath:
			path = strings.ReplaceAll(path, "{"+param.Name+"}", url.PathEscape(fmt.Sprint(value)))
		case domain.ParamKindBody:
			bodyFields[param.Name] = value
		}
	}

	// A placeholder nobody filled means the path cannot be built
	if i := strings.Index(path, "{"); i >= 0 {
		end := strings.Index(path[i:], "}")
		name := "path"
		if end > 0 {
			name = path[i+1 : i+end]
		}
		violations = append(violations, ParameterViolation{
			Name:   name,
			Reason: "unresolved path placeholder",
		})
	}

	if len(violations) > 0 {
		return nil, &InvalidParametersError{Violations: violations}
	}

	fullURL := strings.TrimRight(connector.BaseURL, "/") + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	var body io.Reader
	contentType := ""
	switch {
	case req.Body != nil:
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	case len(bodyFields) > 0:
		raw, err := json.Marshal(bodyFields)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, endpoint.Method, fullURL, body)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, v := range endpoint.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// attachAuth places the connection's credential on the request according to
// the connector's auth scheme.
func (p *ProxyExecutor) attachAuth(ctx context.Context, req *http.Request, connector domain.Connector, connectionID string) error {
	switch connector.Auth.Type {
	case domain.AuthTypeNone:
		return nil

	case domain.AuthTypeOAuth2:
		cred, err := p.Broker.Fresh(ctx, connectionID)
		if err != nil {
			return err
		}
		tokenType := cred.TokenType
		if tokenType == "" {
			tokenType = "Bearer"
		}
		req.Header.Set("Authorization", tokenType+" "+cred.AccessToken)
		return nil

	case domain.AuthTypeAPIKey:
		cred, err := p.Vault.Get(ctx, connectionID)
		if err != nil {
			return err
		}
		if connector.Auth.KeyIn == "query" {
			q := req.URL.Query()
			q.Set(connector.Auth.KeyName, cred.APIKey)
			req.URL.RawQuery = q.Encode()
		} else {
			req.Header.Set(connector.Auth.KeyName, cred.APIKey)
		}
		return nil

	case domain.AuthTypeBasic:
		cred, err := p.Vault.Get(ctx, connectionID)
		if err != nil {
			return err
		}
		req.SetBasicAuth(cred.Username, cred.Password)
		return nil
	}

	return ErrUnsupportedAuthType
}

// coerceParam converts a caller-supplied value to the declared scalar type.
// JSON numbers arrive as float64, so integer params accept whole floats.
func coerceParam(raw any, typ domain.ParamType) (any, error) {
	switch typ {
	case domain.ParamTypeString, "":
		switch v := raw.(type) {
		case string:
			return v, nil
		case float64, int, bool:
			return fmt.Sprint(v), nil
		}
		return nil, fmt.Errorf("expected string, got %T", raw)

	case domain.ParamTypeInt:
		switch v := raw.(type) {
		case int:
			return v, nil
		case float64:
			if v != float64(int64(v)) {
				return nil, fmt.Errorf("expected integer, got %v", v)
			}
			return int64(v), nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("expected integer, got %q", v)
			}
			return n, nil
		}
		return nil, fmt.Errorf("expected integer, got %T", raw)

	case domain.ParamTypeNumber:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("expected number, got %q", v)
			}
			return f, nil
		}
		return nil, fmt.Errorf("expected number, got %T", raw)

	case domain.ParamTypeBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("expected boolean, got %q", v)
			}
			return b, nil
		}
		return nil, fmt.Errorf("expected boolean, got %T", raw)
	}

	return nil, fmt.Errorf("unknown parameter type %q", typ)
}

// normalizeResponse folds an upstream response into the uniform shape.
func normalizeResponse(resp *http.Response, responseType string) (*NormalizedResponse, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	headers := map[string]string{}
	for _, name := range allowedResponseHeaders {
		if v := resp.Header.Get(name); v != "" {
			headers[name] = v
		}
	}

	out := &NormalizedResponse{
		Status:  resp.StatusCode,
		Headers: headers,
	}

	switch responseType {
	case "binary":
		out.Body = map[string]string{
			"content":      base64.StdEncoding.EncodeToString(raw),
			"content_type": resp.Header.Get("Content-Type"),
		}
	case "text":
		out.Body = string(raw)
	default: // json
		if len(raw) == 0 {
			out.Body = nil
			break
		}
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err != nil {
			// Upstream lied about being JSON; pass the text through.
			out.Body = string(raw)
			break
		}
		out.Body = parsed
	}

	return out, nil
}
