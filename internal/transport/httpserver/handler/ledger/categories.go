package ledger

import (
	"net/http"
	"time"

	categoriesdomain "fintrack-go/internal/domain/categories"
	"fintrack-go/internal/transport/httpserver/handler/common"
	"fintrack-go/internal/transport/httpserver/middleware"
)

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Icon      *string   `json:"icon"`
	Color     *string   `json:"color"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

func toCategoryResponse(c categoriesdomain.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Kind:      string(c.Kind),
		Icon:      c.Icon,
		Color:     c.Color,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
	}
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Categories.EnsureDefaults(r.Context(), userID); err != nil {
		common.WriteDomainError(w, h.log, "categories.list", err, "user_id", userID)
		return
	}
	items, err := h.Categories.List(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, h.log, "categories.list", err, "user_id", userID)
		return
	}

	response := make([]categoryResponse, 0, len(items))
	for _, c := range items {
		response = append(response, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, response)
}
