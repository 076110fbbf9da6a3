package ledger

import (
	"net/http"

	"fintrack-go/internal/transport/httpserver/handler/common"
)

func (h *Handlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, loc, ok := h.caller(w, r, "budgets.list")
	if !ok {
		return
	}

	byID, err := h.categoryNames(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, h.log, "budgets.list", err, "user_id", userID)
		return
	}
	names := make(map[string]string, len(byID))
	for id, c := range byID {
		names[id] = c.Name
	}

	statuses, err := h.Budgets.List(r.Context(), userID, names, loc)
	if err != nil {
		common.WriteDomainError(w, h.log, "budgets.list", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}
