package ledger

import (
	"errors"
	"net/http"
	"time"

	goalsdomain "fintrack-go/internal/domain/goals"
	"fintrack-go/internal/transport/httpserver/handler/common"
	"fintrack-go/internal/transport/httpserver/middleware"
)

type planResponse struct {
	Amount             string    `json:"amount"`
	Frequency          string    `json:"frequency"`
	NextContributionAt time.Time `json:"next_contribution_at"`
}

type goalResponse struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	TargetAmount  string        `json:"target_amount"`
	CurrentAmount string        `json:"current_amount"`
	Progress      string        `json:"progress"`
	Deadline      *time.Time    `json:"deadline"`
	IsActive      bool          `json:"is_active"`
	Plan          *planResponse `json:"plan"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (h *Handlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	includeArchived, err := parseBoolParam(r.URL.Query().Get("include_archived"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid include_archived")
		return
	}

	items, err := h.Goals.List(r.Context(), userID, includeArchived)
	if err != nil {
		common.WriteDomainError(w, h.log, "goals.list", err, "user_id", userID)
		return
	}

	response := make([]goalResponse, 0, len(items))
	for _, g := range items {
		item := goalResponse{
			ID:            g.ID,
			Name:          g.Name,
			TargetAmount:  g.TargetAmount.StringFixed(2),
			CurrentAmount: g.CurrentAmount.StringFixed(2),
			Progress:      g.Progress().StringFixed(1),
			Deadline:      g.Deadline,
			IsActive:      g.IsActive,
			CreatedAt:     g.CreatedAt,
		}
		if g.IsActive {
			plan, err := h.Goals.ActivePlan(r.Context(), userID, g.Name)
			switch {
			case err == nil:
				item.Plan = &planResponse{
					Amount:             plan.Amount.StringFixed(2),
					Frequency:          string(plan.Frequency),
					NextContributionAt: plan.NextContributionAt,
				}
			case !errors.Is(err, goalsdomain.ErrPlanNotFound):
				common.WriteDomainError(w, h.log, "goals.list", err, "user_id", userID, "goal_id", g.ID)
				return
			}
		}
		response = append(response, item)
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GoalBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	report, err := h.Goals.CheckBalance(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, h.log, "goals.balance", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
