// Package api wires the HTTP handlers into a chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/config"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/service"
)

// Services bundles the services the router exposes.
type Services struct {
	System    *service.SystemService
	Holding   *service.HoldingService
	Portfolio *service.PortfolioService
	Settings  *service.SettingsService
	Dividend  *service.DividendService
	Snapshot  *service.SnapshotService
	Backup    *service.BackupService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/holding", func(r chi.Router) {
			holdingHandler := handlers.NewHoldingHandler(svc.Holding)
			r.Get("/", holdingHandler.GetHoldings)
			r.Post("/", holdingHandler.CreateHolding)
			r.Put("/prices", holdingHandler.UpdatePrices)
			r.Post("/prices/refresh", holdingHandler.RefreshPrices)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateIDMiddleware)
				r.Get("/", holdingHandler.GetHolding)
				r.Put("/", holdingHandler.UpdateHolding)
				r.Delete("/", holdingHandler.DeleteHolding)
			})
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
			r.Get("/", portfolioHandler.Overview)
			r.Get("/summary", portfolioHandler.Summary)
			r.Get("/rebalance", portfolioHandler.Rebalance)
		})

		settingsHandler := handlers.NewSettingsHandler(svc.Settings)
		r.Get("/cash", settingsHandler.GetCash)
		r.Put("/cash", settingsHandler.UpdateCash)
		r.Get("/settings", settingsHandler.GetSettings)
		r.Put("/settings", settingsHandler.UpdateSettings)

		r.Route("/dividend", func(r chi.Router) {
			dividendHandler := handlers.NewDividendHandler(svc.Dividend)
			r.Get("/", dividendHandler.GetDividends)
			r.Post("/", dividendHandler.CreateDividend)
			r.Get("/analysis", dividendHandler.Analysis)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateIDMiddleware)
				r.Get("/", dividendHandler.GetDividend)
				r.Put("/", dividendHandler.UpdateDividend)
				r.Delete("/", dividendHandler.DeleteDividend)
			})
		})

		r.Route("/snapshot", func(r chi.Router) {
			snapshotHandler := handlers.NewSnapshotHandler(svc.Snapshot)
			r.Get("/export", snapshotHandler.Export)
			r.Post("/import", snapshotHandler.Import)
		})

		r.Route("/backup", func(r chi.Router) {
			backupHandler := handlers.NewBackupHandler(svc.Backup)
			r.Get("/", backupHandler.List)
			r.Post("/", backupHandler.Create)
			r.Post("/{name}/restore", backupHandler.Restore)
		})
	})

	return r
}
