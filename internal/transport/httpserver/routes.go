package httpserver

import (
	"net/http"
	"time"

	"fintrack-go/internal/config"
	"fintrack-go/internal/transport/httpserver/handler"
	authmw "fintrack-go/internal/transport/httpserver/middleware"
	"fintrack-go/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		r.Group(func(r chi.Router) {
			r.Use(authmw.WebhookSecret(cfg.Auth.WebhookSecret))
			r.Post("/messages", handlers.Chat.ReceiveMessage)
		})

		auth := authmw.NewJWTAuth(cfg.Auth.JWTSecret, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Common.AuthMe)
			r.Post("/activation-codes", handlers.Common.IssueActivationCode)
			r.Get("/preferences", handlers.Common.GetPreferences)
			r.Patch("/preferences", handlers.Common.UpdatePreferences)

			r.Get("/categories", handlers.Ledger.ListCategories)

			r.Get("/transactions", handlers.Ledger.ListTransactions)
			r.Get("/transactions/export", handlers.Ledger.ExportTransactions)

			r.Get("/budgets", handlers.Ledger.ListBudgets)

			r.Get("/goals", handlers.Ledger.ListGoals)
			r.Get("/goals/balance", handlers.Ledger.GoalBalance)

			r.Get("/analytics/summary", handlers.Ledger.AnalyticsSummary)
			r.Get("/analytics/by-category", handlers.Ledger.AnalyticsByCategory)
			r.Get("/analytics/patterns", handlers.Ledger.SpendingPatterns)
			r.Get("/analytics/score", handlers.Ledger.FinancialScore)
			r.Get("/analytics/cashflow", handlers.Ledger.CashFlow)
		})
	})

	return r
}
