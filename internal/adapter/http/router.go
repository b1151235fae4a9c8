package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/econsim/clearing/internal/adapter/http/handler"
	"github.com/econsim/clearing/internal/adapter/http/middleware"
	"github.com/econsim/clearing/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler  *handler.AccountHandler
	BankHandler     *handler.BankHandler
	BookHandler     *handler.BookHandler
	TransferHandler *handler.TransferHandler
	LedgerHandler   *handler.LedgerHandler
	HealthHandler   *handler.HealthHandler
	Metrics         *metrics.Metrics
	Logger          zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	r.Use(middleware.Recovery)

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/banks", func(r chi.Router) {
			r.Post("/central", cfg.BankHandler.RegisterCentral)
			r.Post("/credit", cfg.BankHandler.RegisterCredit)
			r.Get("/", cfg.BankHandler.List)
			r.Get("/{id}", cfg.BankHandler.Get)
			r.Post("/{id}/reserve-check", cfg.BankHandler.CheckReserves)
			r.Post("/{id}/interest", cfg.BankHandler.AccrueInterest)
			r.Get("/{id}/balance-sheet", cfg.BankHandler.BalanceSheet)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Open)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Delete("/{id}", cfg.AccountHandler.Close)
			r.Get("/{id}/transfers", cfg.TransferHandler.ListByAccount)
		})
		r.Get("/owners/{ownerID}/accounts", cfg.AccountHandler.ListByOwner)

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/{id}", cfg.TransferHandler.Get)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", cfg.BookHandler.PlaceOrder)
			r.Post("/cancel", cfg.BookHandler.CancelOrders)
		})
		r.Post("/buys", cfg.BookHandler.Buy)

		r.Route("/books/{currency}/{commodity}", func(r chi.Router) {
			r.Get("/", cfg.BookHandler.Snapshot)
			r.Get("/price", cfg.BookHandler.Price)
			r.Get("/segments", cfg.BookHandler.Segments)
		})

		r.Route("/audit", func(r chi.Router) {
			r.Get("/conservation", cfg.LedgerHandler.Conservation)
			r.Get("/transits", cfg.LedgerHandler.Transits)
		})
	})

	return r
}
