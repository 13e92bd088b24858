package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/gohotel/internal/adapter/http/handler"
	"github.com/iho/gohotel/internal/adapter/http/middleware"
	"github.com/iho/gohotel/internal/infrastructure/metrics"
	"github.com/iho/gohotel/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CustomerHandler *handler.CustomerHandler
	WalletHandler   *handler.WalletHandler
	BookingHandler  *handler.BookingHandler
	RoomHandler     *handler.RoomHandler
	AdminHandler    *handler.AdminHandler
	HealthHandler   *handler.HealthHandler

	// Optional
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Customers and their wallets
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", cfg.CustomerHandler.Create)
			r.Get("/", cfg.CustomerHandler.List)
			r.Get("/{id}", cfg.CustomerHandler.Get)
			r.Patch("/{id}", cfg.CustomerHandler.Update)
			r.Post("/{id}/suspend", cfg.CustomerHandler.Suspend)
			r.Post("/{id}/reactivate", cfg.CustomerHandler.Reactivate)
			r.Get("/{id}/bookings", cfg.BookingHandler.ListByCustomer)
			r.Get("/{id}/wallet", cfg.WalletHandler.Get)
			r.Post("/{id}/wallet/credit", cfg.WalletHandler.Credit)
			r.Get("/{id}/wallet/transactions", cfg.WalletHandler.History)
		})

		// Room catalog
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/types", cfg.RoomHandler.ListTypes)
			r.Get("/types/{type}", cfg.RoomHandler.GetType)
		})

		// Bookings
		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", cfg.BookingHandler.Create)
			r.Get("/", cfg.BookingHandler.List)
			r.Get("/{id}", cfg.BookingHandler.Get)
			r.Get("/{id}/events", cfg.BookingHandler.Events)
			r.Post("/{id}/pay-deposit", cfg.BookingHandler.PayDeposit)
			r.Post("/{id}/pay-balance", cfg.BookingHandler.PayBalance)
			r.Post("/{id}/cancel", cfg.BookingHandler.Cancel)
		})

		// Administration
		r.Route("/admin", func(r chi.Router) {
			r.Get("/stats", cfg.AdminHandler.Stats)
			r.Get("/reconciliation", cfg.AdminHandler.Reconciliation)
			r.Get("/audit-logs", cfg.AdminHandler.AuditLogs)
		})
	})

	return r
}
