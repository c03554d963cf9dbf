package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/patchbay-dev/patchbay/internal/platform/registry"
	"github.com/patchbay-dev/patchbay/internal/platform/service"
	"github.com/patchbay-dev/patchbay/internal/platform/store"
	"github.com/patchbay-dev/patchbay/pkg/httpx"
	"github.com/patchbay-dev/patchbay/pkg/slogx"

	_ "github.com/patchbay-dev/patchbay/api/platform" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	Registry          *registry.Registry
	ConnectionService *service.ConnectionService
	OAuthBroker       *service.OAuthBroker
	ProxyExecutor     *service.ProxyExecutor
}

func NewRouter(buildVersion string, reg *registry.Registry, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		Registry:     reg,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerConnectors()
	r.registerConnections()
	r.registerOAuth()
	r.registerProxy()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Patchbay Integration Platform API
//	@version		0.1.0
//	@description	Backend for managing third-party integrations: a declarative
//	@description	connector catalog, per-user connections with encrypted credential
//	@description	storage, a three-legged OAuth broker, and a proxy that executes
//	@description	catalog endpoints on behalf of connections.
//
//	@contact.name	Patchbay Team
//	@contact.url	https://github.com/patchbay-dev/patchbay
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerConnectors() {
	h := &ConnectorsHandler{Registry: r.Registry}

	// Catalog reads are cheap and public
	r.Mux.Handle("GET /connectors",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /connectors/{name}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /connectors/{name}/endpoints",
		httpx.Chain(http.HandlerFunc(h.HandleEndpoints),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerConnections() {
	h := &ConnectionsHandler{ConnectionService: r.ConnectionService}

	r.Mux.Handle("POST /connections",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByOwner(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /connections",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByOwner(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /connections/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByOwner(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /connections/{id}/revoke",
		httpx.Chain(http.HandlerFunc(h.HandleRevoke),
			httpx.RateLimitByOwner(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /connections/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			httpx.RateLimitByOwner(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerOAuth() {
	h := &OAuthHandler{Broker: r.OAuthBroker}

	// POST /oauth/authorize - strict limit, every call mints provider state
	r.Mux.Handle("POST /oauth/authorize",
		httpx.Chain(http.HandlerFunc(h.HandleAuthorize),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /oauth/callback - providers redirect the user's browser here
	r.Mux.Handle("GET /oauth/callback",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /oauth/callback - dashboards that catch the redirect relay it here
	r.Mux.Handle("POST /oauth/callback",
		httpx.Chain(http.HandlerFunc(h.HandleCallbackRelay),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerProxy() {
	h := &ProxyHandler{Executor: r.ProxyExecutor}

	r.Mux.Handle("POST /proxy/execute",
		httpx.Chain(h,
			httpx.RateLimitByOwner(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - public limits, monitors poll these
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Registry),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
