package http

import (
	"encoding/json"
	"net/http"

	"github.com/patchbay-dev/patchbay/internal/platform/service"
	"github.com/patchbay-dev/patchbay/pkg/connectsdk"
	"github.com/patchbay-dev/patchbay/pkg/httpx"
	"github.com/patchbay-dev/patchbay/pkg/slogx"
)

// ProxyHandler executes declarative endpoints on behalf of connections.
type ProxyHandler struct {
	Executor *service.ProxyExecutor
}

// ServeHTTP executes a proxied call
//
//	@Summary		Execute endpoint
//	@Description	Executes a catalog endpoint through the proxy on behalf of an active
//	@Description	connection. Credentials are attached server-side and never touch the
//	@Description	caller. Upstream HTTP errors pass through as normalized responses;
//	@Description	only local problems surface as platform errors.
//	@Tags			Proxy
//	@Accept			json
//	@Produce		json
//	@Param			request	body		connectsdk.ExecuteRequest		true	"Endpoint reference and arguments"
//	@Success		200		{object}	connectsdk.NormalizedResponse	"Normalized upstream response"
//	@Failure		404		{object}	connectsdk.APIError				"Unknown connection or endpoint"
//	@Failure		409		{object}	connectsdk.APIError				"Connection not active or credential problem"
//	@Failure		422		{object}	connectsdk.APIError				"Parameter validation failed"
//	@Failure		502		{object}	connectsdk.APIError				"Upstream unreachable"
//	@Router			/proxy/execute [post].
func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req connectsdk.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest("request body must be valid JSON").WriteError(w)
		return
	}
	endpoint := firstNonEmpty(req.Endpoint, req.EndpointConfig)
	if req.ConnectionID == "" || endpoint == "" {
		badRequest("connection_id and endpoint are required").WriteError(w)
		return
	}

	resp, err := h.Executor.Execute(ctx, service.ExecuteRequest{
		ConnectionID: req.ConnectionID,
		Connector:    req.Connector,
		Endpoint:     endpoint,
		Params:       req.Params,
		PathParams:   req.PathParams,
		Body:         req.Body,
	})
	if err != nil {
		log.Warn("proxy execute failed",
			"connection_id", req.ConnectionID,
			"endpoint", endpoint,
			"error", err,
		)
		apiError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, connectsdk.NormalizedResponse{
		Status:  resp.Status,
		Headers: resp.Headers,
		Body:    resp.Body,
	})
}
