package ledger

import (
	"fmt"
	"net/http"
	"time"

	categoriesdomain "fintrack-go/internal/domain/categories"
	transactionsdomain "fintrack-go/internal/domain/transactions"
	"fintrack-go/internal/transport/httpserver/handler/common"

	"github.com/xuri/excelize/v2"
)

const (
	exportSheet    = "Transactions"
	exportMaxRows  = 50000
	exportMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []interface{}{"Date", "Kind", "Category", "Description", "Amount", "Currency", "AI"}

// ExportTransactions streams the filtered ledger as an XLSX workbook. Dates are
// written in the user's timezone.
func (h *Handlers) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	userID, loc, ok := h.caller(w, r, "transactions.export")
	if !ok {
		return
	}

	filter, err := transactionFilter(r, loc, exportMaxRows)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if r.URL.Query().Get("limit") == "" {
		filter.Limit = exportMaxRows
	}

	items, _, err := h.Transactions.List(r.Context(), userID, filter)
	if err != nil {
		common.WriteDomainError(w, h.log, "transactions.export", err, "user_id", userID)
		return
	}
	byID, err := h.categoryNames(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, h.log, "transactions.export", err, "user_id", userID)
		return
	}

	book, err := buildWorkbook(items, byID, loc)
	if err != nil {
		h.log.InternalError("transactions.export: build workbook failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	defer book.Close()

	filename := fmt.Sprintf("transactions-%s.xlsx", time.Now().In(loc).Format("20060102"))
	w.Header().Set("Content-Type", exportMimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if err := book.Write(w); err != nil {
		h.log.InternalError("transactions.export: write workbook failed", err, "user_id", userID)
	}
}

func buildWorkbook(items []transactionsdomain.Transaction, byID map[string]categoriesdomain.Category, loc *time.Location) (*excelize.File, error) {
	book := excelize.NewFile()
	if err := book.SetSheetName(book.GetSheetName(0), exportSheet); err != nil {
		return nil, err
	}

	stream, err := book.NewStreamWriter(exportSheet)
	if err != nil {
		return nil, err
	}
	if err := stream.SetColWidth(1, 1, 12); err != nil {
		return nil, err
	}
	if err := stream.SetColWidth(3, 4, 28); err != nil {
		return nil, err
	}
	if err := stream.SetRow("A1", exportHeader); err != nil {
		return nil, err
	}

	for i, t := range items {
		amount, _ := t.Amount.Float64()
		if t.Kind == categoriesdomain.KindExpense {
			amount = -amount
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			t.OccurredAt.In(loc).Format(time.DateOnly),
			string(t.Kind),
			byID[t.CategoryID].Name,
			t.Description,
			amount,
			t.Currency,
			t.AIGenerated,
		}
		if err := stream.SetRow(cell, row); err != nil {
			return nil, err
		}
	}

	if err := stream.Flush(); err != nil {
		return nil, err
	}
	return book, nil
}
