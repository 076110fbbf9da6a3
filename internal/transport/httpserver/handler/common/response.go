package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"fintrack-go/internal/domain/apperror"
	"fintrack-go/pkg/logger"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst)
}

// StatusOf maps an error kind to the HTTP status a REST client sees.
func StatusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindCategoryNotFound, apperror.KindGoalNotFound, apperror.KindBudgetNotFound:
		return http.StatusNotFound
	case apperror.KindInsufficientFunds:
		return http.StatusConflict
	case apperror.KindLowConfidence, apperror.KindCategoryUnresolved:
		return http.StatusUnprocessableEntity
	case apperror.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteDomainError logs err at the level its kind deserves and writes the
// error envelope. Internal details never reach the client.
func WriteDomainError(w http.ResponseWriter, log logger.Logger, op string, err error, args ...any) {
	kind := apperror.KindOf(err)
	status := StatusOf(kind)
	if status >= http.StatusInternalServerError {
		log.InternalError(op+": failed", err, args...)
		if kind == apperror.KindInternal {
			writeError(w, status, "internal_error", "internal error")
			return
		}
	} else {
		log.BusinessError(op+": rejected", err, args...)
	}

	body := errorBody{Code: string(kind), Message: err.Error(), Suggestions: apperror.SuggestionsOf(err)}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		body.Message = appErr.Message
	}
	writeJSON(w, status, errorEnvelope{Error: body})
}
