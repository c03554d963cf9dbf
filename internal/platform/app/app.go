package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/patchbay-dev/patchbay/internal/platform/http"
	"github.com/patchbay-dev/patchbay/internal/platform/registry"
	"github.com/patchbay-dev/patchbay/internal/platform/service"
	"github.com/patchbay-dev/patchbay/internal/platform/store"
	"github.com/patchbay-dev/patchbay/internal/platform/store/drivers/sqlite"
	"github.com/patchbay-dev/patchbay/pkg/cryptox"
	"github.com/patchbay-dev/patchbay/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the platform service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	registry *registry.Registry

	// Services
	vault               *service.CredentialVault
	connectionService   *service.ConnectionService
	oauthBroker         *service.OAuthBroker
	proxyExecutor       *service.ProxyExecutor
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "platform-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set master key path for credential encryption
	cryptox.SetMasterKeyPath(app.cfg.MasterKeyPath)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initRegistry(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("platform service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"connectors", len(app.registry.List()),
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down platform service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("platform service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initRegistry loads the connector catalog from disk
func (app *Application) initRegistry() error {
	reg, err := registry.Load(app.cfg.ConnectorDir)
	if err != nil {
		return fmt.Errorf("failed to load connector catalog: %w", err)
	}
	app.registry = reg

	app.logger.Info("connector catalog loaded",
		"dir", app.cfg.ConnectorDir,
		"connectors", len(reg.List()),
	)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.vault = &service.CredentialVault{Store: app.db}

	app.oauthBroker = &service.OAuthBroker{
		Store:           app.db,
		Registry:        app.registry,
		Vault:           app.vault,
		PendingTTL:      app.cfg.PendingAuthTTL,
		ExchangeTimeout: app.cfg.ExchangeTimeout,
	}

	app.connectionService = &service.ConnectionService{
		Store:    app.db,
		Registry: app.registry,
		Vault:    app.vault,
	}

	app.proxyExecutor = &service.ProxyExecutor{
		Store:           app.db,
		Registry:        app.registry,
		Vault:           app.vault,
		Broker:          app.oauthBroker,
		UpstreamTimeout: app.cfg.UpstreamTimeout,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.registry,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.ConnectionService = app.connectionService
	router.OAuthBroker = app.oauthBroker
	router.ProxyExecutor = app.proxyExecutor
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
