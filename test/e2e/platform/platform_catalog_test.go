package platform_test

import (
	"testing"

	"github.com/patchbay-dev/patchbay/pkg/connectsdk"
	"github.com/stretchr/testify/require"
)

// TestConnectorCatalog verifies the baked-in catalog is served with full
// endpoint definitions.
func TestConnectorCatalog(t *testing.T) {
	baseURL, cleanup := setupPlatformContainer(t)
	defer cleanup()

	client := connectsdk.NewSDKClient(baseURL)

	connectors, err := client.ListConnectors(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, connectors, "catalog should not be empty")

	names := make(map[string]bool, len(connectors))
	for _, c := range connectors {
		names[c.Name] = true
	}
	require.True(t, names["github"], "github connector should be in the catalog")
	require.True(t, names["httpbin"], "httpbin connector should be in the catalog")

	github, err := client.GetConnector(t.Context(), "github")
	require.NoError(t, err)
	require.Equal(t, "oauth2", github.AuthType)
	require.NotEmpty(t, github.Endpoints)

	endpoints, err := client.ListEndpoints(t.Context(), "github")
	require.NoError(t, err)
	require.Equal(t, len(github.Endpoints), len(endpoints))

	for _, ep := range endpoints {
		require.NotEmpty(t, ep.Method)
		require.NotEmpty(t, ep.Path)
	}
}

// TestUnknownConnectorReturnsNotFound verifies the stable error payload for
// catalog misses.
func TestUnknownConnectorReturnsNotFound(t *testing.T) {
	baseURL, cleanup := setupPlatformContainer(t)
	defer cleanup()

	client := connectsdk.NewSDKClient(baseURL)

	_, err := client.GetConnector(t.Context(), "does-not-exist")
	require.Error(t, err)

	var apiErr *connectsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, connectsdk.ErrorCodeNotFound, apiErr.Code)
}
