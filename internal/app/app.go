package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nfsindex/config"
	"github.com/guttosm/nfsindex/internal/api"
	"github.com/guttosm/nfsindex/internal/service"
	"github.com/guttosm/nfsindex/internal/storage"
	"github.com/guttosm/nfsindex/internal/upstream"
)

// NewListingSource builds the data source selected by cfg.Dashboard.DataSource.
//
// Sources:
//   - rest:     the listings REST API at UPSTREAM_API_URL.
//   - postgres: the listings database, read directly.
//
// Returns:
//   - service.ListingSource: the configured source.
//   - func(): cleanup releasing the source's resources (never nil on success).
//   - error: any initialization error that occurred.
func NewListingSource(cfg config.Config) (service.ListingSource, func(), error) {
	switch cfg.Dashboard.DataSource {
	case config.SourceREST, "":
		client, err := upstream.NewClient(cfg.Upstream)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize upstream client: %w", err)
		}
		return client, func() {}, nil

	case config.SourcePostgres:
		// indirection for unit testing
		db, err := postgresOpener(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		return storage.NewListingsRepository(db), func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown data source %q", cfg.Dashboard.DataSource)
	}
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the listing source (REST API or PostgreSQL) via NewListingSource().
//   - Creates the dashboard service and the session store.
//   - Creates the HTTP handler layer and configures the Gin router.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to release resources (e.g., DB connection).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	source, closeSource, err := NewListingSource(cfg)
	if err != nil {
		return nil, nil, err
	}

	// Initialize service layer (analytics source selection, view building)
	svc := service.NewDashboardService(source, cfg.Dashboard.AnalyticsMode)
	sessions := service.NewSessionStore(svc, cfg.Dashboard.SessionTTL, cfg.Dashboard.DefaultModel)

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc, sessions)

	// Setup Gin router with routes
	router := api.NewRouter(handler, cfg.Server)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(svc.Ready)
	healthHandler.Register(router)

	// Cleanup resources on shutdown
	cleanup := func() {
		sessions.Close()
		closeSource()
	}

	return router, cleanup, nil
}
