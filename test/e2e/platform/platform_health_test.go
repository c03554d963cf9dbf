package platform_test

import (
	"testing"

	"github.com/patchbay-dev/patchbay/pkg/connectsdk"
	"github.com/stretchr/testify/require"
)

// TestLivezEndpoint verifies the liveness check endpoint works.
func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupPlatformContainer(t)
	defer cleanup()

	client := connectsdk.NewSDKClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
	require.NotEmpty(t, health.Uptime)

	t.Logf("Livez endpoint is healthy")
}

// TestReadyzEndpoint verifies the readiness check reports the database and
// catalog as available.
func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupPlatformContainer(t)
	defer cleanup()

	client := connectsdk.NewSDKClient(baseURL)

	health, err := client.GetReadiness(t.Context())
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Catalog)

	t.Logf("Readyz endpoint is healthy")
}
