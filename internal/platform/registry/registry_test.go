package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/patchbay-dev/patchbay/internal/platform/domain"
	"github.com/stretchr/testify/require"
)

const validConnector = `
name: github
display_name: GitHub
description: GitHub REST API
version: 1.0.0
base_url: https://api.github.com/
auth:
  type: oauth2
  auth_url: https://github.com/login/oauth/authorize
  token_url: https://github.com/login/oauth/access_token
  scopes: [repo]
  client_id_env: GITHUB_CLIENT_ID
  client_secret_env: GITHUB_CLIENT_SECRET
endpoints:
  - name: list_repos
    method: get
    path: /user/repos
    parameters:
      - name: per_page
        type: int
        default: 30
`

func writeCatalog(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadValidCatalog(t *testing.T) {
	dir := writeCatalog(t, map[string]string{
		"github.yaml": validConnector,
		"notes.txt":   "ignored, not yaml",
	})

	reg, err := Load(dir)
	require.NoError(t, err)

	c, err := reg.Get("github")
	require.NoError(t, err)
	require.Equal(t, domain.AuthTypeOAuth2, c.Auth.Type)
	require.Equal(t, "https://api.github.com", c.BaseURL, "trailing slash trimmed")

	ep, err := reg.Endpoint("github", "list_repos")
	require.NoError(t, err)
	require.Equal(t, "GET", ep.Method, "method uppercased")
	require.Equal(t, "json", ep.ResponseType, "defaults to json")
	require.Len(t, ep.Parameters, 1)
	require.Equal(t, domain.ParamKindQuery, ep.Parameters[0].Kind, "kind defaults to query")
	require.Equal(t, domain.ParamTypeInt, ep.Parameters[0].Type)
}

func TestLoadDefaults(t *testing.T) {
	dir := writeCatalog(t, map[string]string{
		"minimal.yaml": `
name: minimal
base_url: https://example.com
endpoints:
  - name: ping
    method: GET
    path: /ping
`,
	})

	reg, err := Load(dir)
	require.NoError(t, err)

	c, err := reg.Get("minimal")
	require.NoError(t, err)
	require.Equal(t, domain.AuthTypeNone, c.Auth.Type)
	require.Equal(t, "minimal", c.DisplayName)
	require.Equal(t, "1.0.0", c.Version)
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing name", "base_url: https://example.com\n"},
		{"missing base_url", "name: broken\n"},
		{
			"oauth2 without token_url",
			"name: broken\nbase_url: https://example.com\nauth:\n  type: oauth2\n  auth_url: https://example.com/auth\n",
		},
		{
			"api_key without key_name",
			"name: broken\nbase_url: https://example.com\nauth:\n  type: api_key\n",
		},
		{
			"unknown auth type",
			"name: broken\nbase_url: https://example.com\nauth:\n  type: kerberos\n",
		},
		{
			"unsupported method",
			"name: broken\nbase_url: https://example.com\nendpoints:\n  - name: bad\n    method: TRACE\n    path: /x\n",
		},
		{
			"relative path",
			"name: broken\nbase_url: https://example.com\nendpoints:\n  - name: bad\n    method: GET\n    path: x\n",
		},
		{
			"duplicate endpoint",
			"name: broken\nbase_url: https://example.com\nendpoints:\n  - name: dup\n    method: GET\n    path: /a\n  - name: dup\n    method: GET\n    path: /b\n",
		},
		{
			"unknown parameter kind",
			"name: broken\nbase_url: https://example.com\nendpoints:\n  - name: bad\n    method: GET\n    path: /x\n    parameters:\n      - name: p\n        kind: cookie\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeCatalog(t, map[string]string{"broken.yaml": tc.yaml})
			_, err := Load(dir)
			require.Error(t, err)
		})
	}
}

func TestLoadRejectsDuplicateConnectors(t *testing.T) {
	dir := writeCatalog(t, map[string]string{
		"a.yaml": "name: same\nbase_url: https://a.example.com\n",
		"b.yaml": "name: same\nbase_url: https://b.example.com\n",
	})

	_, err := Load(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate connector")
}

func TestListOrderedByName(t *testing.T) {
	reg, err := New([]domain.Connector{
		{Name: "zulu", BaseURL: "https://z.example.com"},
		{Name: "alpha", BaseURL: "https://a.example.com"},
	})
	require.NoError(t, err)

	list := reg.List()
	require.Len(t, list, 2)
	require.Equal(t, "alpha", list[0].Name)
	require.Equal(t, "zulu", list[1].Name)
}

func TestGetUnknownConnector(t *testing.T) {
	reg, err := New(nil)
	require.NoError(t, err)

	_, err = reg.Get("nope")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = reg.Endpoints("nope")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = reg.Endpoint("nope", "anything")
	require.ErrorIs(t, err, ErrNotFound)
}
