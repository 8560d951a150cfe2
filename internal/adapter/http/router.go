package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/passbook/internal/adapter/http/handler"
	"github.com/iho/passbook/internal/adapter/http/middleware"
	"github.com/iho/passbook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CustomerHandler  *handler.CustomerHandler
	OperationHandler *handler.OperationHandler
	TransferHandler  *handler.TransferHandler
	LedgerHandler    *handler.LedgerHandler
	HealthHandler    *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Logger           *zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	if cfg.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(*cfg.Logger).Wrap)
	} else {
		r.Use(chimiddleware.Logger)
	}

	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Customers and their ledgers
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", cfg.CustomerHandler.Create)
			r.Get("/", cfg.CustomerHandler.List)
			r.Get("/{id}", cfg.CustomerHandler.Get)
			r.Patch("/{id}", cfg.CustomerHandler.Update)
			r.Post("/{id}/close", cfg.CustomerHandler.Close)
			r.Get("/{id}/balance", cfg.OperationHandler.GetBalance)
			r.Get("/{id}/operations", cfg.OperationHandler.ListByCustomer)
			r.Post("/{id}/deposits", cfg.OperationHandler.Deposit)
			r.Post("/{id}/withdrawals", cfg.OperationHandler.Withdraw)
			r.Delete("/{id}/operations/{opID}", cfg.OperationHandler.Invalidate)
			r.Get("/{id}/transfers", cfg.TransferHandler.ListByCustomer)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/{id}", cfg.TransferHandler.Get)
			r.Get("/{id}/operations", cfg.TransferHandler.GetOperations)
		})

		// Ledger-wide checks
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
