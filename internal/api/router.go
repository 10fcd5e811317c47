package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Investment-Profit-Tracker/internal/api/middleware"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/response"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/config"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/logger"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/service"
)

// Services groups the services the router exposes.
type Services struct {
	System *service.SystemService
	Ledger *service.LedgerService
	Report *service.ReportService
	Trend  *service.TrendService
}

// NewRouter creates and configures the HTTP router
func NewRouter(s Services, cfg *config.Config, log logger.Logger) http.Handler {
	response.SetLogger(log)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(s.System)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/position", func(r chi.Router) {
			positionHandler := handlers.NewPositionHandler(s.Ledger)
			r.Get("/", positionHandler.Positions)
			r.Post("/", positionHandler.CreatePosition)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Post("/sale", positionHandler.RecordSale)
			})
		})

		r.Route("/report", func(r chi.Router) {
			reportHandler := handlers.NewReportHandler(s.Report)
			r.Get("/", reportHandler.Report)
			r.Get("/latest", reportHandler.LatestReport)
		})

		trendHandler := handlers.NewTrendHandler(s.Trend)
		r.Get("/trend", trendHandler.Trend)
	})

	return r
}
