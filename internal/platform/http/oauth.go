package http

import (
	"encoding/json"
	"net/http"

	"github.com/patchbay-dev/patchbay/internal/platform/service"
	"github.com/patchbay-dev/patchbay/pkg/connectsdk"
	"github.com/patchbay-dev/patchbay/pkg/httpx"
	"github.com/patchbay-dev/patchbay/pkg/slogx"
)

// OAuthHandler drives the three-legged authorization flow over HTTP.
type OAuthHandler struct {
	Broker *service.OAuthBroker
}

// HandleAuthorize starts an authorization flow
//
//	@Summary		Start OAuth authorization
//	@Description	Issues a provider authorization URL bound to a one-shot CSRF state.
//	@Description	The caller redirects the end user to the returned URL; the provider
//	@Description	sends them back through /oauth/callback.
//	@Tags			OAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		connectsdk.AuthorizeRequest		true	"Connection to authorize"
//	@Success		200		{object}	connectsdk.AuthorizeResponse	"Authorization URL and state"
//	@Failure		400		{object}	connectsdk.APIError				"Malformed request or non-OAuth connector"
//	@Failure		404		{object}	connectsdk.APIError				"Unknown connection"
//	@Failure		503		{object}	connectsdk.APIError				"Provider credentials not configured"
//	@Router			/oauth/authorize [post].
func (h *OAuthHandler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req connectsdk.AuthorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest("request body must be valid JSON").WriteError(w)
		return
	}
	connector := firstNonEmpty(req.Connector, req.ConnectorType)
	if req.ConnectionID == "" || connector == "" || req.RedirectURI == "" {
		badRequest("connection_id, connector and redirect_uri are required").WriteError(w)
		return
	}

	grant, err := h.Broker.Initiate(ctx, req.ConnectionID, connector, req.RedirectURI)
	if err != nil {
		log.Warn("authorization initiate failed",
			"connection_id", req.ConnectionID,
			"error", err,
		)
		apiError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, connectsdk.AuthorizeResponse{
		AuthorizationURL: grant.AuthorizationURL,
		State:            grant.State,
		ConnectionID:     grant.ConnectionID,
	})
}

// HandleCallback completes an authorization flow
//
//	@Summary		OAuth callback
//	@Description	Completes an authorization flow: validates the one-shot state,
//	@Description	exchanges the code for tokens and activates the connection.
//	@Tags			OAuth
//	@Produce		json
//	@Param			state	query		string						true	"Opaque state from the authorization URL"
//	@Param			code	query		string						true	"Provider authorization code"
//	@Success		200		{object}	connectsdk.CallbackResponse	"Activated connection"
//	@Failure		400		{object}	connectsdk.APIError			"Unknown, expired or replayed state"
//	@Failure		502		{object}	connectsdk.APIError			"Provider rejected the code"
//	@Router			/oauth/callback [get].
func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	q := r.URL.Query()
	state := q.Get("state")
	code := q.Get("code")

	// Providers report user denial or their own failures via an error param
	if provErr := q.Get("error"); provErr != "" {
		log.Warn("provider returned authorization error", "provider_error", provErr)
		// Still consume the state so it cannot be replayed later
		if state != "" {
			_, _ = h.Broker.Complete(ctx, state, "")
		}
		badRequest("the provider reported: " + provErr).WriteError(w)
		return
	}

	if state == "" || code == "" {
		badRequest("state and code query parameters are required").WriteError(w)
		return
	}

	conn, err := h.Broker.Complete(ctx, state, code)
	if err != nil {
		log.Warn("authorization completion failed", "error", err)
		apiError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, connectsdk.CallbackResponse{
		ConnectionID: conn.ID,
		Status:       string(conn.Status),
		Account:      conn.Account,
	})
}

// HandleCallbackRelay completes an authorization flow relayed by the dashboard
//
//	@Summary		Relayed OAuth callback
//	@Description	Completes an authorization flow when the dashboard received the
//	@Description	provider redirect itself and forwards the parameters. The claimed
//	@Description	connection_id must match the one the state was issued for.
//	@Tags			OAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		connectsdk.CallbackRequest	true	"Relayed callback parameters"
//	@Success		200		{object}	connectsdk.CallbackResponse	"Activated connection"
//	@Failure		400		{object}	connectsdk.APIError			"Unknown, expired, replayed or mismatched state"
//	@Failure		502		{object}	connectsdk.APIError			"Provider rejected the code"
//	@Router			/oauth/callback [post].
func (h *OAuthHandler) HandleCallbackRelay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req connectsdk.CallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest("request body must be valid JSON").WriteError(w)
		return
	}
	if req.ConnectionID == "" || req.State == "" || req.Code == "" {
		badRequest("connection_id, state and code are required").WriteError(w)
		return
	}

	conn, err := h.Broker.CompleteFor(ctx, req.ConnectionID, req.State, req.Code)
	if err != nil {
		log.Warn("relayed authorization completion failed",
			"connection_id", req.ConnectionID,
			"error", err,
		)
		apiError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, connectsdk.CallbackResponse{
		ConnectionID: conn.ID,
		Status:       string(conn.Status),
		Account:      conn.Account,
	})
}
