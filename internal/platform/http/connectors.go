package http

import (
	"net/http"

	"github.com/patchbay-dev/patchbay/internal/platform/registry"
	"github.com/patchbay-dev/patchbay/pkg/connectsdk"
	"github.com/patchbay-dev/patchbay/pkg/httpx"
)

// ConnectorsHandler serves the immutable connector catalog.
type ConnectorsHandler struct {
	Registry *registry.Registry
}

// HandleList lists the connector catalog
//
//	@Summary		List connectors
//	@Description	Returns a summary of every connector in the catalog.
//	@Tags			Connectors
//	@Produce		json
//	@Success		200	{array}	connectsdk.ConnectorSummary	"Connector catalog"
//	@Router			/connectors [get].
func (h *ConnectorsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	summaries := h.Registry.List()

	out := make([]connectsdk.ConnectorSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, toConnectorSummaryPayload(s))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet returns one connector
//
//	@Summary		Get connector
//	@Description	Returns a single connector with its full endpoint list.
//	@Tags			Connectors
//	@Produce		json
//	@Param			name	path		string				true	"Connector name"
//	@Success		200		{object}	connectsdk.Connector	"Connector definition"
//	@Failure		404		{object}	connectsdk.APIError		"Unknown connector"
//	@Router			/connectors/{name} [get].
func (h *ConnectorsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	connector, err := h.Registry.Get(r.PathValue("name"))
	if err != nil {
		apiError(err).WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toConnectorPayload(connector))
}

// HandleEndpoints returns a connector's endpoints
//
//	@Summary		List connector endpoints
//	@Description	Returns the callable endpoints a connector declares.
//	@Tags			Connectors
//	@Produce		json
//	@Param			name	path	string				true	"Connector name"
//	@Success		200		{array}	connectsdk.Endpoint	"Endpoint declarations"
//	@Failure		404		{object}	connectsdk.APIError	"Unknown connector"
//	@Router			/connectors/{name}/endpoints [get].
func (h *ConnectorsHandler) HandleEndpoints(w http.ResponseWriter, r *http.Request) {
	endpoints, err := h.Registry.Endpoints(r.PathValue("name"))
	if err != nil {
		apiError(err).WriteError(w)
		return
	}

	out := make([]connectsdk.Endpoint, 0, len(endpoints))
	for _, e := range endpoints {
		out = append(out, toEndpointPayload(e))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
