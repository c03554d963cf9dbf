package service

import (
	"context"
	"testing"
	"time"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
	"github.com/patchbay-dev/patchbay/internal/platform/store"
	"github.com/patchbay-dev/patchbay/internal/platform/store/drivers/sqlite"
	"github.com/patchbay-dev/patchbay/pkg/cryptox"
	"github.com/patchbay-dev/patchbay/pkg/idx"
	"github.com/stretchr/testify/require"
)

// newTestStore spins up an in-memory sqlite store with migrations applied
// and a deterministic master key for the vault.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	t.Setenv("PLATFORM_MASTER_KEY", "service-test-master-key")
	cryptox.ResetMasterKeyForTesting()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// seedConnection inserts a connection in the given status and returns it.
func seedConnection(t *testing.T, st store.Store, connector string, status domain.ConnectionStatus) domain.Connection {
	t.Helper()

	now := time.Now().UTC()
	conn := domain.Connection{
		ID:            idx.MustNew().String(),
		ConnectorName: connector,
		OwnerID:       "owner-1",
		Name:          "test connection",
		Status:        status,
		Config:        map[string]any{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, st.Connections().CreateConnection(context.Background(), conn))
	return conn
}

// testConnectors returns a small catalog exercising each auth type.
func testConnectors(authURL, tokenURL string) []domain.Connector {
	return []domain.Connector{
		{
			Name:        "github",
			DisplayName: "GitHub",
			Version:     "1.0.0",
			BaseURL:     "https://api.github.com",
			Auth: domain.AuthScheme{
				Type:            domain.AuthTypeOAuth2,
				AuthURL:         authURL,
				TokenURL:        tokenURL,
				Scopes:          []string{"repo", "read:user"},
				ClientIDEnv:     "GITHUB_CLIENT_ID",
				ClientSecretEnv: "GITHUB_CLIENT_SECRET",
			},
			Endpoints: []domain.Endpoint{
				{
					Name:         "list_repos",
					DisplayName:  "List Repositories",
					Method:       "GET",
					Path:         "/user/repos",
					ResponseType: "json",
					Parameters: []domain.Parameter{
						{Name: "per_page", Kind: domain.ParamKindQuery, Type: domain.ParamTypeInt, Default: 30},
						{Name: "sort", Kind: domain.ParamKindQuery, Type: domain.ParamTypeString},
					},
				},
				{
					Name:         "get_repo",
					DisplayName:  "Get Repository",
					Method:       "GET",
					Path:         "/repos/{owner}/{repo}",
					ResponseType: "json",
					Parameters: []domain.Parameter{
						{Name: "owner", Kind: domain.ParamKindPath, Type: domain.ParamTypeString, Required: true},
						{Name: "repo", Kind: domain.ParamKindPath, Type: domain.ParamTypeString, Required: true},
					},
				},
			},
		},
		{
			Name:        "openweathermap",
			DisplayName: "OpenWeatherMap",
			Version:     "1.0.0",
			BaseURL:     "https://api.openweathermap.org",
			Auth: domain.AuthScheme{
				Type:    domain.AuthTypeAPIKey,
				KeyName: "appid",
				KeyIn:   "query",
			},
			Endpoints: []domain.Endpoint{
				{
					Name:         "current_weather",
					DisplayName:  "Current Weather",
					Method:       "GET",
					Path:         "/data/2.5/weather",
					ResponseType: "json",
					Parameters: []domain.Parameter{
						{Name: "q", Kind: domain.ParamKindQuery, Type: domain.ParamTypeString, Required: true},
						{Name: "units", Kind: domain.ParamKindQuery, Type: domain.ParamTypeString, Default: "metric"},
					},
				},
			},
		},
		{
			Name:        "httpbin",
			DisplayName: "HTTPBin",
			Version:     "1.0.0",
			BaseURL:     "https://httpbin.org",
			Auth:        domain.AuthScheme{Type: domain.AuthTypeNone},
			Endpoints: []domain.Endpoint{
				{
					Name:         "post_anything",
					DisplayName:  "Post Anything",
					Method:       "POST",
					Path:         "/anything",
					ResponseType: "json",
					Parameters: []domain.Parameter{
						{Name: "payload", Kind: domain.ParamKindBody, Type: domain.ParamTypeString},
					},
				},
			},
		},
	}
}
