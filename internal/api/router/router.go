// Package router assembles the HTTP API.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitledger/splitledger/internal/api/handlers"
	"github.com/splitledger/splitledger/internal/api/middleware"
)

// Config holds everything the router needs.
type Config struct {
	Logger            *slog.Logger
	AllowedOrigins    []string
	AuthHandler       *handlers.AuthHandler
	GroupHandler      *handlers.GroupHandler
	ExpenseHandler    *handlers.ExpenseHandler
	SettlementHandler *handlers.SettlementHandler
	BalanceHandler    *handlers.BalanceHandler
	AuthMiddleware    func(http.Handler) http.Handler
}

// New builds the chi router with all routes and middleware mounted.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthMiddleware)

			r.Get("/auth/me", cfg.AuthHandler.Me)

			r.Route("/groups", func(r chi.Router) {
				r.Post("/", cfg.GroupHandler.Create)
				r.Get("/", cfg.GroupHandler.List)

				r.Route("/{groupID}", func(r chi.Router) {
					r.Get("/", cfg.GroupHandler.Get)
					r.Get("/members", cfg.GroupHandler.Members)
					r.Post("/members", cfg.GroupHandler.AddMember)
					r.Delete("/members/{memberID}", cfg.GroupHandler.RemoveMember)

					r.Route("/expenses", func(r chi.Router) {
						r.Post("/", cfg.ExpenseHandler.Create)
						r.Get("/", cfg.ExpenseHandler.List)
						r.Get("/{expenseID}", cfg.ExpenseHandler.Get)
						r.Patch("/{expenseID}", cfg.ExpenseHandler.Edit)
						r.Delete("/{expenseID}", cfg.ExpenseHandler.Delete)
					})

					r.Route("/settlements", func(r chi.Router) {
						r.Post("/", cfg.SettlementHandler.Create)
						r.Get("/", cfg.SettlementHandler.List)
					})

					r.Get("/balances", cfg.BalanceHandler.Group)
					r.Get("/balances/{memberID}", cfg.BalanceHandler.Member)
				})
			})
		})
	})

	return r
}
