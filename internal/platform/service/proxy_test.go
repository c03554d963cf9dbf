package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
	"github.com/patchbay-dev/patchbay/internal/platform/registry"
	"github.com/patchbay-dev/patchbay/internal/platform/store"
	"github.com/stretchr/testify/require"
)

// capturedRequest records what the fake upstream actually received.
type capturedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Header http.Header
	Body   []byte
}

// newProxyFixture wires a proxy executor against a fake upstream and returns
// both plus the capture slot.
func newProxyFixture(t *testing.T, upstream http.HandlerFunc) (*ProxyExecutor, store.Store, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.EscapedPath()
		captured.Query = map[string]string{}
		for k := range r.URL.Query() {
			captured.Query[k] = r.URL.Query().Get(k)
		}
		captured.Header = r.Header.Clone()
		captured.Body, _ = io.ReadAll(r.Body)
		upstream(w, r)
	}))
	t.Cleanup(srv.Close)

	// Point every connector's base URL at the fake upstream
	connectors := testConnectors("https://example.com/authorize", "https://example.com/token")
	for i := range connectors {
		connectors[i].BaseURL = srv.URL
	}
	reg, err := registry.New(connectors)
	require.NoError(t, err)

	st := newTestStore(t)
	vault := &CredentialVault{Store: st}

	return &ProxyExecutor{
		Store:    st,
		Registry: reg,
		Vault:    vault,
		Broker: &OAuthBroker{
			Store:    st,
			Registry: reg,
			Vault:    vault,
		},
		UpstreamTimeout: 5 * time.Second,
		HTTPClient:      srv.Client(),
	}, st, captured
}

func jsonUpstream(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func TestExecuteOAuth2Endpoint(t *testing.T) {
	ctx := context.Background()
	proxy, st, captured := newProxyFixture(t, jsonUpstream(http.StatusOK, []map[string]any{{"name": "patchbay"}}))

	conn := seedConnection(t, st, "github", domain.ConnectionActive)
	require.NoError(t, proxy.Vault.Put(ctx, conn.ID, domain.Credential{
		AccessToken: "gho_token",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}))

	resp, err := proxy.Execute(ctx, ExecuteRequest{
		ConnectionID: conn.ID,
		Connector:    "github",
		Endpoint:     "list_repos",
		Params:       map[string]any{"sort": "updated"},
	})
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "GET", captured.Method)
	require.Equal(t, "/user/repos", captured.Path)
	require.Equal(t, "Bearer gho_token", captured.Header.Get("Authorization"))
	require.Equal(t, "updated", captured.Query["sort"])
	require.Equal(t, "30", captured.Query["per_page"], "default applied")

	body, ok := resp.Body.([]any)
	require.True(t, ok)
	require.Len(t, body, 1)
}

func TestExecutePathParams(t *testing.T) {
	ctx := context.Background()
	proxy, st, captured := newProxyFixture(t, jsonUpstream(http.StatusOK, map[string]any{"ok": true}))

	conn := seedConnection(t, st, "github", domain.ConnectionActive)
	require.NoError(t, proxy.Vault.Put(ctx, conn.ID, domain.Credential{
		AccessToken: "tok",
		Expiry:      time.Now().Add(time.Hour),
	}))

	_, err := proxy.Execute(ctx, ExecuteRequest{
		ConnectionID: conn.ID,
		Endpoint:     "get_repo",
		PathParams:   map[string]string{"owner": "patchbay-dev", "repo": "patch bay"},
	})
	require.NoError(t, err)
	require.Equal(t, "/repos/patchbay-dev/patch%20bay", captured.Path)
}

func TestExecuteAPIKeyInQuery(t *testing.T) {
	ctx := context.Background()
	proxy, st, captured := newProxyFixture(t, jsonUpstream(http.StatusOK, map[string]any{"temp": 21.5}))

	conn := seedConnection(t, st, "openweathermap", domain.ConnectionActive)
	require.NoError(t, proxy.Vault.Put(ctx, conn.ID, domain.Credential{APIKey: "owm-secret"}))

	resp, err := proxy.Execute(ctx, ExecuteRequest{
		ConnectionID: conn.ID,
		Endpoint:     "current_weather",
		Params:       map[string]any{"q": "Brisbane"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "owm-secret", captured.Query["appid"])
	require.Equal(t, "Brisbane", captured.Query["q"])
	require.Equal(t, "metric", captured.Query["units"], "default applied")
}

func TestExecuteBodyParams(t *testing.T) {
	ctx := context.Background()
	proxy, st, captured := newProxyFixture(t, jsonUpstream(http.StatusOK, map[string]any{"ok": true}))

	conn := seedConnection(t, st, "httpbin", domain.ConnectionActive)

	_, err := proxy.Execute(ctx, ExecuteRequest{
		ConnectionID: conn.ID,
		Endpoint:     "post_anything",
		Params:       map[string]any{"payload": "hello"},
	})
	require.NoError(t, err)

	require.Equal(t, "POST", captured.Method)
	require.Equal(t, "application/json", captured.Header.Get("Content-Type"))

	var sent map[string]any
	require.NoError(t, json.Unmarshal(captured.Body, &sent))
	require.Equal(t, "hello", sent["payload"])
}

func TestExecuteExplicitBodyOverride(t *testing.T) {
	ctx := context.Background()
	proxy, st, captured := newProxyFixture(t, jsonUpstream(http.StatusOK, map[string]any{"ok": true}))

	conn := seedConnection(t, st, "httpbin", domain.ConnectionActive)

	_, err := proxy.Execute(ctx, ExecuteRequest{
		ConnectionID: conn.ID,
		Endpoint:     "post_anything",
		Body:         map[string]any{"custom": []any{"a", "b"}},
	})
	require.NoError(t, err)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(captured.Body, &sent))
	require.Equal(t, []any{"a", "b"}, sent["custom"])
}

func TestExecuteValidationCollectsAllViolations(t *testing.T) {
	ctx := context.Background()
	proxy, st, _ := newProxyFixture(t, jsonUpstream(http.StatusOK, nil))

	conn := seedConnection(t, st, "github", domain.ConnectionActive)
	require.NoError(t, proxy.Vault.Put(ctx, conn.ID, domain.Credential{
		AccessToken: "tok",
		Expiry:      time.Now().Add(time.Hour),
	}))

	// get_repo requires owner and repo; send neither, plus call list_repos
	// with a bad int. First: both missing path params at once.
	_, err := proxy.Execute(ctx, ExecuteRequest{
		ConnectionID: conn.ID,
		Endpoint:     "get_repo",
	})

	var invalid *InvalidParametersError
	require.ErrorAs(t, err, &invalid)
	require.Len(t, invalid.Violations, 2)

	// Type violation on a query param
	_, err = proxy.Execute(ctx, ExecuteRequest{
		ConnectionID: conn.ID,
		Endpoint:     "list_repos",
		Params:       map[string]any{"per_page": "lots"},
	})
	require.ErrorAs(t, err, &invalid)
	require.Len(t, invalid.Violations, 1)
	require.Equal(t, "per_page", invalid.Violations[0].Name)
}

func TestExecuteGuards(t *testing.T) {
	ctx := context.Background()
	proxy, st, _ := newProxyFixture(t, jsonUpstream(http.StatusOK, nil))

	t.Run("unknown connection", func(t *testing.T) {
		_, err := proxy.Execute(ctx, ExecuteRequest{ConnectionID: "missing", Endpoint: "list_repos"})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("inactive connection", func(t *testing.T) {
		conn := seedConnection(t, st, "github", domain.ConnectionPending)
		_, err := proxy.Execute(ctx, ExecuteRequest{ConnectionID: conn.ID, Endpoint: "list_repos"})
		require.ErrorIs(t, err, ErrNotActive)
	})

	t.Run("connector mismatch", func(t *testing.T) {
		conn := seedConnection(t, st, "github", domain.ConnectionActive)
		_, err := proxy.Execute(ctx, ExecuteRequest{ConnectionID: conn.ID, Connector: "httpbin", Endpoint: "list_repos"})
		require.ErrorIs(t, err, ErrConnectorMismatch)
	})

	t.Run("unknown endpoint", func(t *testing.T) {
		conn := seedConnection(t, st, "httpbin", domain.ConnectionActive)
		_, err := proxy.Execute(ctx, ExecuteRequest{ConnectionID: conn.ID, Endpoint: "nope"})
		require.ErrorIs(t, err, ErrUnknownEndpoint)
	})

	t.Run("active without credential", func(t *testing.T) {
		conn := seedConnection(t, st, "github", domain.ConnectionActive)
		_, err := proxy.Execute(ctx, ExecuteRequest{ConnectionID: conn.ID, Endpoint: "list_repos"})
		require.ErrorIs(t, err, ErrNoCredential)
	})
}

func TestExecuteUpstreamErrorPassesThrough(t *testing.T) {
	ctx := context.Background()
	proxy, st, _ := newProxyFixture(t, jsonUpstream(http.StatusServiceUnavailable, map[string]any{
		"message": "upstream down",
	}))

	conn := seedConnection(t, st, "httpbin", domain.ConnectionActive)

	resp, err := proxy.Execute(ctx, ExecuteRequest{ConnectionID: conn.ID, Endpoint: "post_anything"})
	require.NoError(t, err, "upstream HTTP errors are responses, not errors")
	require.Equal(t, http.StatusServiceUnavailable, resp.Status)

	body, ok := resp.Body.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "upstream down", body["message"])
}

func TestExecuteUnreachableUpstream(t *testing.T) {
	ctx := context.Background()
	proxy, st, _ := newProxyFixture(t, jsonUpstream(http.StatusOK, nil))

	conn := seedConnection(t, st, "httpbin", domain.ConnectionActive)

	// Point at a dead port via a fresh registry
	proxy.HTTPClient = &http.Client{Timeout: 50 * time.Millisecond}
	connectors := testConnectors("https://example.com/a", "https://example.com/t")
	for i := range connectors {
		connectors[i].BaseURL = "http://127.0.0.1:1"
	}
	deadReg, err := registry.New(connectors)
	require.NoError(t, err)
	proxy.Registry = deadReg

	_, err = proxy.Execute(ctx, ExecuteRequest{ConnectionID: conn.ID, Endpoint: "post_anything"})
	require.ErrorIs(t, err, ErrUpstreamUnreachable)
}

func TestNormalizeResponseShapes(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rec.Header().Set("Content-Type", "text/plain")
		rec.WriteString("plain result")
		resp := rec.Result()

		out, err := normalizeResponse(resp, "text")
		require.NoError(t, err)
		require.Equal(t, "plain result", out.Body)
	})

	t.Run("binary is base64 wrapped", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rec.Header().Set("Content-Type", "image/png")
		rec.Write([]byte{0x89, 0x50, 0x4e, 0x47})
		resp := rec.Result()

		out, err := normalizeResponse(resp, "binary")
		require.NoError(t, err)

		body, ok := out.Body.(map[string]string)
		require.True(t, ok)
		require.Equal(t, base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4e, 0x47}), body["content"])
		require.Equal(t, "image/png", body["content_type"])
	})

	t.Run("malformed json falls back to text", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rec.Header().Set("Content-Type", "application/json")
		rec.WriteString("not json at all")
		resp := rec.Result()

		out, err := normalizeResponse(resp, "json")
		require.NoError(t, err)
		require.Equal(t, "not json at all", out.Body)
	})

	t.Run("headers are allowlisted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rec.Header().Set("Content-Type", "application/json")
		rec.Header().Set("Set-Cookie", "session=secret")
		rec.Header().Set("Retry-After", "30")
		rec.WriteString("{}")
		resp := rec.Result()

		out, err := normalizeResponse(resp, "json")
		require.NoError(t, err)
		require.Equal(t, "application/json", out.Headers["Content-Type"])
		require.Equal(t, "30", out.Headers["Retry-After"])
		require.NotContains(t, out.Headers, "Set-Cookie")
	})
}
