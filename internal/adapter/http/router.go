package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/spendguard/internal/adapter/http/handler"
	"github.com/iho/spendguard/internal/adapter/http/middleware"
	"github.com/iho/spendguard/internal/infrastructure/auth"
	"github.com/iho/spendguard/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	WalletHandler      *handler.WalletHandler
	BeneficiaryHandler *handler.BeneficiaryHandler
	HealthHandler      *handler.HealthHandler
	JWTManager         *auth.JWTManager
	IdempotencyStore   usecase.IdempotencyStore
	RateLimiter        *middleware.RateLimiter
	RequestLogger      *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RequestLogger != nil {
		r.Use(cfg.RequestLogger.Wrap)
	}

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints, no auth
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		transfer := middleware.RequireCapability(auth.CapabilityTransfer)
		admin := middleware.RequireCapability(auth.CapabilityAdmin)

		r.Route("/wallets", func(r chi.Router) {
			r.With(admin).Post("/", cfg.WalletHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.With(transfer).Get("/", cfg.WalletHandler.Get)
				r.With(transfer).Get("/transfers", cfg.WalletHandler.ListTransfers)
				r.With(transfer).Post("/transfers", cfg.WalletHandler.Transfer)
				r.With(admin).Put("/limit", cfg.WalletHandler.SetLimit)
				r.With(admin).Post("/adjustments", cfg.WalletHandler.Adjust)
				r.With(admin).Post("/arbitrary-transfers", cfg.WalletHandler.ArbitraryTransfer)

				r.Route("/beneficiaries", func(r chi.Router) {
					r.With(admin).Post("/", cfg.BeneficiaryHandler.Add)
					r.With(transfer).Get("/", cfg.BeneficiaryHandler.List)

					r.Route("/{address}", func(r chi.Router) {
						r.With(transfer).Get("/", cfg.BeneficiaryHandler.Get)
						r.With(transfer).Get("/transfers", cfg.BeneficiaryHandler.ListTransfers)
						r.With(admin).Put("/limit", cfg.BeneficiaryHandler.SetLimit)
						r.With(admin).Post("/adjustments", cfg.BeneficiaryHandler.Adjust)
						r.With(admin).Delete("/", cfg.BeneficiaryHandler.Remove)
					})
				})
			})
		})
	})

	return r
}
