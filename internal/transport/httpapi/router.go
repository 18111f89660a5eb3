package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerline/ledgerline/internal/transport/httpapi/handler"
	"github.com/ledgerline/ledgerline/internal/transport/httpapi/middleware"
	"github.com/ledgerline/ledgerline/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger             *logger.Logger
	AllowedOrigins     []string
	AuthHandler        *handler.AuthHandler
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	RecurringHandler   *handler.RecurringHandler
	LoanHandler        *handler.LoanHandler
	HealthHandler      *handler.HealthHandler
	JWTMiddleware      func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit())

	// Health check endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public)
		if cfg.AuthHandler != nil {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		// Protected routes (require JWT authentication)
		if cfg.JWTMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.JWTMiddleware)

				if cfg.AccountHandler != nil {
					r.Post("/accounts", cfg.AccountHandler.CreateAccount)
					r.Get("/accounts", cfg.AccountHandler.GetAccounts)
					r.Get("/accounts/{id}", cfg.AccountHandler.GetAccount)
					r.Delete("/accounts/{id}", cfg.AccountHandler.DeleteAccount)
				}

				if cfg.TransactionHandler != nil {
					r.Post("/transactions", cfg.TransactionHandler.CreateTransaction)
					r.Get("/transactions", cfg.TransactionHandler.GetTransactions)
				}

				if cfg.RecurringHandler != nil {
					r.Route("/recurring", func(r chi.Router) {
						r.Get("/", cfg.RecurringHandler.List)
						r.Post("/detect", cfg.RecurringHandler.Detect)
						r.Get("/suggestions", cfg.RecurringHandler.Suggestions)
						r.Get("/projection", cfg.RecurringHandler.Projection)
						r.Post("/{id}/dismiss", cfg.RecurringHandler.Dismiss)
						r.Post("/{id}/confirm", cfg.RecurringHandler.Confirm)
					})
				}

				if cfg.LoanHandler != nil {
					r.Post("/tools/amortize", cfg.LoanHandler.Amortize)
				}
			})
		}
	})

	return r
}
