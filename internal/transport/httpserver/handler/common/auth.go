package common

import (
	"net/http"
	"time"

	"fintrack-go/internal/transport/httpserver/middleware"
)

type meResponse struct {
	ID string `json:"id"`
}

type activationCodeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Command   string    `json:"command"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	writeJSON(w, http.StatusOK, meResponse{ID: userID})
}

// IssueActivationCode creates the one-time code the user sends from the chat
// app as "/link CODE".
func (h *Handlers) IssueActivationCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	code, err := h.Identity.IssueCode(r.Context(), userID)
	if err != nil {
		WriteDomainError(w, h.log, "identity.issue_code", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusCreated, activationCodeResponse{
		Code:      code.Code,
		ExpiresAt: code.ExpiresAt,
		Command:   "/link " + code.Code,
	})
}
