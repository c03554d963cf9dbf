package http

import (
	"encoding/json"
	"net/http"

	"github.com/patchbay-dev/patchbay/internal/platform/service"
	"github.com/patchbay-dev/patchbay/pkg/connectsdk"
	"github.com/patchbay-dev/patchbay/pkg/httpx"
	"github.com/patchbay-dev/patchbay/pkg/slogx"
)

// ConnectionsHandler serves connection lifecycle operations.
type ConnectionsHandler struct {
	ConnectionService *service.ConnectionService
}

// HandleCreate registers a new connection
//
//	@Summary		Create connection
//	@Description	Registers a new connection against a catalog connector. API key and
//	@Description	basic connectors may supply their secret directly and activate
//	@Description	immediately; OAuth connectors start pending.
//	@Tags			Connections
//	@Accept			json
//	@Produce		json
//	@Param			request	body		connectsdk.CreateConnectionRequest	true	"Connection to create"
//	@Success		201		{object}	connectsdk.Connection				"Created connection"
//	@Failure		400		{object}	connectsdk.APIError					"Malformed request"
//	@Failure		404		{object}	connectsdk.APIError					"Unknown connector"
//	@Router			/connections [post].
func (h *ConnectionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req connectsdk.CreateConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest("request body must be valid JSON").WriteError(w)
		return
	}
	connector := firstNonEmpty(req.Connector, req.ConnectorType)
	owner := firstNonEmpty(req.OwnerID, req.UserID)
	if connector == "" || owner == "" {
		badRequest("connector and owner_id are required").WriteError(w)
		return
	}

	conn, err := h.ConnectionService.Create(ctx, service.CreateConnectionRequest{
		ConnectorName: connector,
		OwnerID:       owner,
		Name:          req.Name,
		Config:        req.Config,
		APIKey:        req.APIKey,
		Username:      req.Username,
		Password:      req.Password,
	})
	if err != nil {
		log.Warn("connection create failed", "connector", connector, "error", err)
		apiError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toConnectionPayload(conn))
}

// HandleList lists an owner's connections
//
//	@Summary		List connections
//	@Description	Returns an owner's connections newest first, optionally narrowed to one connector.
//	@Tags			Connections
//	@Produce		json
//	@Param			owner_id	query		string	true	"Owner identifier (alias: user_id)"
//	@Param			connector	query		string	false	"Narrow to one connector (alias: connector_type)"
//	@Success		200			{array}		connectsdk.Connection	"Connections"
//	@Failure		400			{object}	connectsdk.APIError		"Missing owner_id"
//	@Router			/connections [get].
func (h *ConnectionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ownerID := firstNonEmpty(q.Get("owner_id"), q.Get("user_id"))
	if ownerID == "" {
		badRequest("owner_id query parameter is required").WriteError(w)
		return
	}

	conns, err := h.ConnectionService.List(r.Context(), ownerID, firstNonEmpty(q.Get("connector"), q.Get("connector_type")))
	if err != nil {
		apiError(err).WriteError(w)
		return
	}

	out := make([]connectsdk.Connection, 0, len(conns))
	for _, c := range conns {
		out = append(out, toConnectionPayload(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet returns one connection
//
//	@Summary		Get connection
//	@Description	Returns a connection by id. Secret material is never included.
//	@Tags			Connections
//	@Produce		json
//	@Param			id	path		string					true	"Connection id"
//	@Success		200	{object}	connectsdk.Connection	"Connection"
//	@Failure		404	{object}	connectsdk.APIError		"Unknown connection"
//	@Router			/connections/{id} [get].
func (h *ConnectionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	conn, err := h.ConnectionService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		apiError(err).WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toConnectionPayload(conn))
}

// HandleRevoke revokes a connection
//
//	@Summary		Revoke connection
//	@Description	Marks the connection revoked and purges its stored credential.
//	@Description	The record survives for audit; only deletion removes it.
//	@Tags			Connections
//	@Produce		json
//	@Param			id	path		string					true	"Connection id"
//	@Success		200	{object}	connectsdk.Connection	"Revoked connection"
//	@Failure		404	{object}	connectsdk.APIError		"Unknown connection"
//	@Router			/connections/{id}/revoke [post].
func (h *ConnectionsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	conn, err := h.ConnectionService.Revoke(r.Context(), r.PathValue("id"))
	if err != nil {
		apiError(err).WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toConnectionPayload(conn))
}

// HandleDelete removes a connection
//
//	@Summary		Delete connection
//	@Description	Permanently removes a connection and its credential.
//	@Tags			Connections
//	@Param			id	path	string	true	"Connection id"
//	@Success		204	"Deleted"
//	@Failure		404	{object}	connectsdk.APIError	"Unknown connection"
//	@Router			/connections/{id} [delete].
func (h *ConnectionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ConnectionService.Delete(r.Context(), r.PathValue("id")); err != nil {
		apiError(err).WriteError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
