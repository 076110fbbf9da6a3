package common

import (
	"net/http"

	preferencesdomain "fintrack-go/internal/domain/preferences"
	"fintrack-go/internal/transport/httpserver/middleware"
)

type preferencesResponse struct {
	Currency       string `json:"currency"`
	Language       string `json:"language"`
	Timezone       string `json:"timezone"`
	AutoCategorize bool   `json:"auto_categorize"`
}

type updatePreferencesRequest struct {
	Currency       *string `json:"currency"`
	Language       *string `json:"language"`
	Timezone       *string `json:"timezone"`
	AutoCategorize *bool   `json:"auto_categorize"`
}

func toPreferencesResponse(p preferencesdomain.Preferences) preferencesResponse {
	return preferencesResponse{
		Currency:       p.DefaultCurrency,
		Language:       p.Language,
		Timezone:       p.Timezone,
		AutoCategorize: p.AutoCategorize,
	}
}

func (h *Handlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	prefs, err := h.Preferences.Get(r.Context(), userID)
	if err != nil {
		WriteDomainError(w, h.log, "preferences.get", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, toPreferencesResponse(prefs))
}

func (h *Handlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req updatePreferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	prefs, err := h.Preferences.Update(r.Context(), preferencesdomain.UpdateInput{
		UserID:         userID,
		Currency:       req.Currency,
		Language:       req.Language,
		Timezone:       req.Timezone,
		AutoCategorize: req.AutoCategorize,
	})
	if err != nil {
		WriteDomainError(w, h.log, "preferences.update", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, toPreferencesResponse(prefs))
}
