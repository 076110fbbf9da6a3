package ledger

import (
	"net/http"
	"time"

	analyticsdomain "fintrack-go/internal/domain/analytics"
	"fintrack-go/internal/transport/httpserver/handler/common"
)

type summaryResponse struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	analyticsdomain.SummaryResult
}

func (h *Handlers) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	userID, loc, ok := h.caller(w, r, "analytics.summary")
	if !ok {
		return
	}
	from, to, err := parseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"), loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	start, end := monthRange(from, to, time.Now(), loc)

	result, err := h.Analytics.Summary(r.Context(), userID, start, end)
	if err != nil {
		common.WriteDomainError(w, h.log, "analytics.summary", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{From: start, To: end, SummaryResult: result})
}

func (h *Handlers) AnalyticsByCategory(w http.ResponseWriter, r *http.Request) {
	userID, loc, ok := h.caller(w, r, "analytics.by_category")
	if !ok {
		return
	}
	query := r.URL.Query()
	from, to, err := parseRange(query.Get("from"), query.Get("to"), loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	limit, err := parseIntParam(query.Get("limit"), 10)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	start, end := monthRange(from, to, time.Now(), loc)

	rows, err := h.Analytics.ByCategory(r.Context(), userID, analyticsdomain.ByCategoryFilter{From: start, To: end, Limit: limit})
	if err != nil {
		common.WriteDomainError(w, h.log, "analytics.by_category", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handlers) SpendingPatterns(w http.ResponseWriter, r *http.Request) {
	userID, loc, ok := h.caller(w, r, "analytics.patterns")
	if !ok {
		return
	}
	months, err := parseIntParam(r.URL.Query().Get("months"), analyticsdomain.DefaultPatternMonths)
	if err != nil || months < 1 || months > 24 {
		writeError(w, http.StatusBadRequest, "invalid_request", "months must be between 1 and 24")
		return
	}

	patterns, err := h.Analytics.SpendingPatterns(r.Context(), userID, r.URL.Query().Get("category_id"), months, loc)
	if err != nil {
		common.WriteDomainError(w, h.log, "analytics.patterns", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, patterns)
}

func (h *Handlers) FinancialScore(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.caller(w, r, "analytics.score")
	if !ok {
		return
	}

	score, err := h.Analytics.Score(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, h.log, "analytics.score", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (h *Handlers) CashFlow(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.caller(w, r, "analytics.cashflow")
	if !ok {
		return
	}

	flow, err := h.Analytics.CashFlow(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, h.log, "analytics.cashflow", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, flow)
}
