package http

import (
	"net/http"
	"time"

	"github.com/patchbay-dev/patchbay/internal/platform/registry"
	"github.com/patchbay-dev/patchbay/internal/platform/store"
	"github.com/patchbay-dev/patchbay/pkg/connectsdk"
	"github.com/patchbay-dev/patchbay/pkg/httpx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the database and connector catalog
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	connectsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	connectsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	reg *registry.Registry,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &connectsdk.HealthChecks{
			Database: "ok",
			Catalog:  "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check database connectivity
		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// An empty catalog means no connector could be loaded at startup
		if len(reg.List()) == 0 {
			checks.Catalog = "error: no connectors loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := connectsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
