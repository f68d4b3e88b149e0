package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/coinvest/coinvest/internal/adapter/http/handler"
	"github.com/coinvest/coinvest/internal/adapter/http/middleware"
	"github.com/coinvest/coinvest/internal/infrastructure/auth"
	"github.com/coinvest/coinvest/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	PlanHandler         *handler.PlanHandler
	WalletHandler       *handler.WalletHandler
	TransactionHandler  *handler.TransactionHandler
	NotificationHandler *handler.NotificationHandler
	HealthHandler       *handler.HealthHandler
	JWTManager          *auth.JWTManager
	IdempotencyStore    usecase.IdempotencyStore
	Logger              zerolog.Logger
	AuthRateLimit       float64
	AuthRateBurst       int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	requireAuth := middleware.Auth(cfg.JWTManager)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Auth
		r.Route("/auth", func(r chi.Router) {
			if cfg.AuthRateLimit > 0 {
				limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
				r.Use(limiter.Limit)
			}

			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", cfg.AuthHandler.Me)
			})
		})

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", cfg.UserHandler.GetProfile)
			r.Put("/profile", cfg.UserHandler.UpdateProfile)
			r.Put("/password", cfg.UserHandler.ChangePassword)
			r.Get("/overview", cfg.UserHandler.GetOverview)
		})

		// Plans (public catalog, admin management)
		r.Route("/plans", func(r chi.Router) {
			r.Get("/", cfg.PlanHandler.List)
			r.Get("/{id}", cfg.PlanHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, middleware.RequireAdmin)
				r.Post("/", cfg.PlanHandler.Create)
				r.Put("/{id}", cfg.PlanHandler.Update)
				r.Delete("/{id}", cfg.PlanHandler.Delete)
			})
		})

		// Wallets
		r.Route("/wallets", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", cfg.WalletHandler.Create)
			r.Get("/", cfg.WalletHandler.List)
			r.Get("/system", cfg.WalletHandler.ListSystem)
			r.Get("/{id}", cfg.WalletHandler.Get)
			r.Delete("/{id}", cfg.WalletHandler.Delete)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/invest", cfg.TransactionHandler.Invest)
			r.Post("/withdraw", cfg.TransactionHandler.Withdraw)
			r.Post("/deposit", cfg.TransactionHandler.Deposit)
			r.Get("/", cfg.TransactionHandler.ListMine)
			r.Get("/{id}", cfg.TransactionHandler.Get)
		})

		// Notifications
		r.Route("/notifications", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", cfg.NotificationHandler.ListMine)
		})

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth, middleware.RequireAdmin)

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", cfg.TransactionHandler.List)
				r.Get("/volume", cfg.TransactionHandler.Volume)
				r.Put("/{id}/approve", cfg.TransactionHandler.Approve)
				r.Put("/{id}/reject", cfg.TransactionHandler.Reject)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", cfg.UserHandler.ListUsers)
				r.Delete("/{id}", cfg.UserHandler.DeleteUser)
				r.Post("/{id}/adjustments", cfg.TransactionHandler.CreateAdjustment)
			})

			r.Route("/system-wallets", func(r chi.Router) {
				r.Get("/", cfg.WalletHandler.ListSystem)
				r.Post("/", cfg.WalletHandler.CreateSystem)
				r.Put("/{cryptoType}", cfg.WalletHandler.UpdateSystem)
				r.Delete("/{cryptoType}", cfg.WalletHandler.DeleteSystem)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", cfg.NotificationHandler.List)
				r.Get("/unread", cfg.NotificationHandler.UnreadCount)
				r.Put("/read-all", cfg.NotificationHandler.MarkAllRead)
			})
		})
	})

	return r
}
