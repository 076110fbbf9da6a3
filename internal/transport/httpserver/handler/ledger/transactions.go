package ledger

import (
	"net/http"
	"strconv"
	"time"

	categoriesdomain "fintrack-go/internal/domain/categories"
	transactionsdomain "fintrack-go/internal/domain/transactions"
	"fintrack-go/internal/transport/httpserver/handler/common"
)

type transactionResponse struct {
	ID           string    `json:"id"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Amount       string    `json:"amount"`
	Currency     string    `json:"currency"`
	Description  string    `json:"description"`
	Kind         string    `json:"kind"`
	OccurredAt   time.Time `json:"occurred_at"`
	AIGenerated  bool      `json:"ai_generated"`
	CreatedAt    time.Time `json:"created_at"`
}

type listTransactionsResponse struct {
	Items  []transactionResponse `json:"items"`
	Total  int64                 `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

func toTransactionResponse(t transactionsdomain.Transaction, byID map[string]categoriesdomain.Category) transactionResponse {
	return transactionResponse{
		ID:           t.ID,
		CategoryID:   t.CategoryID,
		CategoryName: byID[t.CategoryID].Name,
		Amount:       t.Amount.StringFixed(2),
		Currency:     t.Currency,
		Description:  t.Description,
		Kind:         string(t.Kind),
		OccurredAt:   t.OccurredAt,
		AIGenerated:  t.AIGenerated,
		CreatedAt:    t.CreatedAt,
	}
}

// transactionFilter reads from, to, category_id, kind, limit and offset.
func transactionFilter(r *http.Request, loc *time.Location, maxLimit int) (transactionsdomain.ListFilter, error) {
	query := r.URL.Query()
	from, to, err := parseRange(query.Get("from"), query.Get("to"), loc)
	if err != nil {
		return transactionsdomain.ListFilter{}, err
	}
	limit, err := parseIntParam(query.Get("limit"), defaultPageSize)
	if err != nil {
		return transactionsdomain.ListFilter{}, err
	}
	if limit == 0 || limit > maxLimit {
		limit = maxLimit
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		return transactionsdomain.ListFilter{}, err
	}

	kind := categoriesdomain.Kind(query.Get("kind"))
	if kind != "" && !kind.Valid() {
		return transactionsdomain.ListFilter{}, categoriesdomain.ErrInvalidKind
	}

	return transactionsdomain.ListFilter{
		From:       from,
		To:         to,
		CategoryID: query.Get("category_id"),
		Kind:       kind,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, loc, ok := h.caller(w, r, "transactions.list")
	if !ok {
		return
	}

	filter, err := transactionFilter(r, loc, maxPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, total, err := h.Transactions.List(r.Context(), userID, filter)
	if err != nil {
		common.WriteDomainError(w, h.log, "transactions.list", err, "user_id", userID)
		return
	}
	byID, err := h.categoryNames(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, h.log, "transactions.list", err, "user_id", userID)
		return
	}

	response := listTransactionsResponse{
		Items:  make([]transactionResponse, 0, len(items)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for _, t := range items {
		response.Items = append(response.Items, toTransactionResponse(t, byID))
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	writeJSON(w, http.StatusOK, response)
}
