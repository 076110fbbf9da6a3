package ledger

import (
	"context"
	"net/http"
	"time"

	analyticsdomain "fintrack-go/internal/domain/analytics"
	budgetsdomain "fintrack-go/internal/domain/budgets"
	categoriesdomain "fintrack-go/internal/domain/categories"
	goalsdomain "fintrack-go/internal/domain/goals"
	preferencesdomain "fintrack-go/internal/domain/preferences"
	transactionsdomain "fintrack-go/internal/domain/transactions"
	"fintrack-go/internal/transport/httpserver/handler/common"
	"fintrack-go/internal/transport/httpserver/middleware"
	"fintrack-go/pkg/logger"
)

type Handlers struct {
	Categories   *categoriesdomain.Service
	Transactions *transactionsdomain.Service
	Budgets      *budgetsdomain.Service
	Goals        *goalsdomain.Service
	Analytics    *analyticsdomain.Service
	Preferences  *preferencesdomain.Service
	log          logger.Logger
}

type Services struct {
	Categories   *categoriesdomain.Service
	Transactions *transactionsdomain.Service
	Budgets      *budgetsdomain.Service
	Goals        *goalsdomain.Service
	Analytics    *analyticsdomain.Service
	Preferences  *preferencesdomain.Service
}

func New(services Services, log logger.Logger) *Handlers {
	return &Handlers{
		Categories:   services.Categories,
		Transactions: services.Transactions,
		Budgets:      services.Budgets,
		Goals:        services.Goals,
		Analytics:    services.Analytics,
		Preferences:  services.Preferences,
		log:          log,
	}
}

// caller resolves the authenticated user and the timezone their dates are
// written in. It writes the error response itself when it returns false.
func (h *Handlers) caller(w http.ResponseWriter, r *http.Request, op string) (string, *time.Location, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return "", nil, false
	}
	loc, err := h.location(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, h.log, op, err, "user_id", userID)
		return "", nil, false
	}
	return userID, loc, true
}

func (h *Handlers) location(ctx context.Context, userID string) (*time.Location, error) {
	prefs, err := h.Preferences.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return prefs.Location(), nil
}

func (h *Handlers) categoryNames(ctx context.Context, userID string) (map[string]categoriesdomain.Category, error) {
	items, err := h.Categories.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]categoriesdomain.Category, len(items))
	for _, c := range items {
		byID[c.ID] = c
	}
	return byID, nil
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	common.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	common.WriteJSON(w, status, payload)
}
