package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brewmetric/brewmetric-backend/internal/config"
	"github.com/brewmetric/brewmetric-backend/internal/transport/middleware"
)

// RouterConfig carries everything NewRouter needs to assemble the HTTP
// surface. Auth is prebuilt by the caller so this package stays out of
// the token and session plumbing.
type RouterConfig struct {
	Logger *slog.Logger
	CORS   config.CORSConfig

	// Auth resolves bearer tokens into sessions.
	Auth middleware.Middleware
	// Limiter throttles login attempts; nil disables rate limiting.
	Limiter            *middleware.RateLimiter
	LoginRatePerMinute int

	Health    *HealthHandler
	AuthH     *AuthHandler
	Accounts  *AccountsHandler
	Inventory *InventoryHandler
	Waste     *WasteHandler
	Activity  *ActivityHandler
	Reports   *ReportsHandler
	Exports   *ExportsHandler
}

// NewRouter builds the full route tree. Probes sit outside /api/v1 and
// skip auth; everything under /api/v1 except login requires a session.
func NewRouter(c RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(c.Logger))
	r.Use(middleware.Logger(c.Logger))
	r.Use(middleware.CORS(c.CORS))
	r.Use(middleware.ClientIP)
	r.Use(c.Auth)

	r.Get("/health", c.Health.Health)
	r.Get("/health/live", c.Health.Live)
	r.Get("/health/ready", c.Health.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		login := http.HandlerFunc(c.AuthH.Login)
		if c.Limiter != nil && c.LoginRatePerMinute > 0 {
			r.Method(http.MethodPost, "/auth/login", c.Limiter.Limit(c.LoginRatePerMinute)(login))
		} else {
			r.Post("/auth/login", login)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/auth/logout", c.AuthH.Logout)
			r.Post("/auth/change-password", c.AuthH.ChangePassword)

			r.Get("/accounts", c.Accounts.List)
			r.Post("/accounts", c.Accounts.Create)
			r.Patch("/accounts/{id}/active", c.Accounts.SetActive)

			r.Get("/items", c.Inventory.List)
			r.Post("/items", c.Inventory.Create)
			r.Get("/items/{id}", c.Inventory.Get)
			r.Put("/items/{id}", c.Inventory.Update)
			r.Delete("/items/{id}", c.Inventory.Delete)
			r.Post("/items/{id}/adjust", c.Inventory.Adjust)

			r.Get("/waste", c.Waste.Recent)
			r.Post("/waste", c.Waste.Record)

			r.Get("/activity", c.Activity.Recent)
			r.Post("/activity/rebuild", c.Activity.Rebuild)

			r.Get("/reports/dashboard", c.Reports.Dashboard)
			r.Get("/reports/valuation", c.Reports.Valuation)
			r.Get("/reports/low-stock", c.Reports.LowStock)
			r.Get("/reports/expiring", c.Reports.Expiring)
			r.Get("/reports/waste-by-reason", c.Reports.WasteByReason)
			r.Get("/reports/waste-by-month", c.Reports.WasteByMonth)
			r.Get("/reports/audit", c.Reports.Audit)

			r.Get("/exports/inventory.csv", c.Exports.InventoryCSV)
			r.Get("/exports/inventory.xlsx", c.Exports.InventoryXLSX)
			r.Get("/exports/waste.csv", c.Exports.WasteCSV)
			r.Get("/exports/audit.csv", c.Exports.AuditCSV)
		})
	})

	return r
}
