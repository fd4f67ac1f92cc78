package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/cashfolio/cashfolio/internal/transport/httpapi/handler"
	"github.com/cashfolio/cashfolio/internal/transport/httpapi/middleware"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger           *logger.Logger
	AllowedOrigins   []string
	AuthHandler      *handler.AuthHandler
	PortfolioHandler *handler.PortfolioHandler
	CashFlowHandler  *handler.CashFlowHandler
	HealthHandler    *handler.HealthHandler
	DocsHandler      *handler.DocsHandler
	JWTMiddleware    func(http.Handler) http.Handler
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
	r.Use(middleware.RateLimit()) // Rate limiting: 100 req/s with burst of 20

	// Health check endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
		r.Get("/health/detailed", cfg.HealthHandler.GetHealthDetailed)
	}

	// API documentation endpoint
	if cfg.DocsHandler != nil {
		r.Get("/docs", cfg.DocsHandler.GetOpenAPISpec)
		r.Get("/docs/info", cfg.DocsHandler.GetOpenAPIJSON)
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public - no authentication required)
		if cfg.AuthHandler != nil {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		// Protected routes (require JWT authentication)
		if cfg.JWTMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.JWTMiddleware)

				if cfg.AuthHandler != nil {
					r.Post("/auth/password", cfg.AuthHandler.ChangePassword)
				}

				// Portfolio routes
				if cfg.PortfolioHandler != nil {
					r.Post("/portfolios", cfg.PortfolioHandler.CreatePortfolio)
					r.Get("/portfolios", cfg.PortfolioHandler.GetPortfolios)
					r.Get("/portfolios/{id}", cfg.PortfolioHandler.GetPortfolio)
					r.Put("/portfolios/{id}", cfg.PortfolioHandler.UpdatePortfolio)
					r.Delete("/portfolios/{id}", cfg.PortfolioHandler.DeletePortfolio)
					r.Get("/portfolios/{id}/sources", cfg.PortfolioHandler.GetFundingSources)
				}

				// Cash-flow routes, scoped to a portfolio
				if cfg.CashFlowHandler != nil {
					r.Route("/portfolios/{id}/cashflows", func(r chi.Router) {
						r.Post("/", cfg.CashFlowHandler.CreateCashFlow)
						r.Get("/", cfg.CashFlowHandler.GetStatement)
						r.Get("/summary", cfg.CashFlowHandler.GetSummary)
						r.Get("/{flowID}", cfg.CashFlowHandler.GetCashFlow)
						r.Put("/{flowID}", cfg.CashFlowHandler.UpdateCashFlow)
						r.Delete("/{flowID}", cfg.CashFlowHandler.DeleteCashFlow)
					})
					r.Post("/portfolios/{id}/transfers", cfg.CashFlowHandler.CreateTransfer)
				}
			})
		}
	})

	return r
}
