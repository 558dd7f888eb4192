package main

import (
	"log"
	"net/http"

	httphandlers "argentasync/internal/interfaces/http"
	"argentasync/internal/shared/config"
	"argentasync/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// API routes, protected by the admin password when one is configured
	api := http.NewServeMux()
	api.HandleFunc("/api/status", deps.StatusHandler.HandleStatus)
	api.HandleFunc("/api/sync", deps.SyncHandler.HandleStartSync)
	api.HandleFunc("/api/sync/{id}", deps.SyncHandler.HandleSyncAccount)
	api.HandleFunc("/api/accounts", deps.AccountHandler.HandleListAccounts)
	api.HandleFunc("/api/link-account", deps.AccountHandler.HandleLinkAccount)
	api.HandleFunc("/api/unlink-account", deps.AccountHandler.HandleUnlinkAccount)
	api.HandleFunc("/api/ledger/config", deps.LedgerHandler.HandleConfig)
	api.HandleFunc("/api/ledger/test", deps.LedgerHandler.HandleTest)
	api.HandleFunc("/api/ledger/accounts", deps.LedgerHandler.HandleAccounts)

	authMiddleware := middleware.Auth(cfg.Admin.PasswordHash)
	mux.Handle("/api/", authMiddleware(api))

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux))

	// Request tracing and metrics when telemetry is enabled
	if cfg.Telemetry.Enabled {
		handler = middleware.Tracing(middleware.Telemetry(handler))
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
