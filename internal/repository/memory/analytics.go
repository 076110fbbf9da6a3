package memory

import (
	"context"
	"sort"
	"time"

	analyticsdomain "fintrack-go/internal/domain/analytics"
	categoriesdomain "fintrack-go/internal/domain/categories"
	transactionsdomain "fintrack-go/internal/domain/transactions"

	"github.com/shopspring/decimal"
)

// AnalyticsRepository aggregates over the ledger on every call.
type AnalyticsRepository struct {
	store *Store
}

func (r *AnalyticsRepository) Summary(ctx context.Context, userID string, filter analyticsdomain.SummaryFilter) (analyticsdomain.SummaryResult, error) {
	result := analyticsdomain.SummaryResult{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range r.store.matchingTransactions(userID, transactionsdomain.ListFilter{From: filter.From, To: filter.To}) {
		switch t.Kind {
		case categoriesdomain.KindIncome:
			result.Income = result.Income.Add(t.Amount)
			result.IncomeCount++
		case categoriesdomain.KindExpense:
			result.Expense = result.Expense.Add(t.Amount)
			result.ExpenseCount++
		}
	}
	return result, nil
}

func (r *AnalyticsRepository) ByCategory(ctx context.Context, userID string, filter analyticsdomain.ByCategoryFilter) ([]analyticsdomain.ByCategoryRow, error) {
	from, to := filter.From, filter.To
	items := r.store.matchingTransactions(userID, transactionsdomain.ListFilter{
		From: &from,
		To:   &to,
		Kind: categoriesdomain.KindExpense,
	})

	byID := make(map[string]*analyticsdomain.ByCategoryRow)
	for _, t := range items {
		row, ok := byID[t.CategoryID]
		if !ok {
			row = &analyticsdomain.ByCategoryRow{
				CategoryID:   t.CategoryID,
				CategoryName: r.store.categoryName(t.CategoryID),
				Total:        decimal.Zero,
			}
			byID[t.CategoryID] = row
		}
		row.Total = row.Total.Add(t.Amount)
		row.Count++
	}

	rows := make([]analyticsdomain.ByCategoryRow, 0, len(byID))
	for _, row := range byID {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].CategoryName < rows[j].CategoryName
	})
	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}
	return rows, nil
}

func (r *AnalyticsRepository) MonthlyByCategory(ctx context.Context, userID string, filter analyticsdomain.MonthlyFilter) ([]analyticsdomain.MonthlyCategoryRow, error) {
	loc, err := time.LoadLocation(filter.Timezone)
	if err != nil || filter.Timezone == "" {
		loc = time.UTC
	}
	from, to := filter.From, filter.To
	items := r.store.matchingTransactions(userID, transactionsdomain.ListFilter{
		From:       &from,
		To:         &to,
		CategoryID: filter.CategoryID,
		Kind:       categoriesdomain.KindExpense,
	})

	type key struct{ category, month string }
	totals := make(map[key]decimal.Decimal)
	for _, t := range items {
		k := key{category: t.CategoryID, month: t.OccurredAt.In(loc).Format("2006-01")}
		totals[k] = totals[k].Add(t.Amount)
	}

	rows := make([]analyticsdomain.MonthlyCategoryRow, 0, len(totals))
	for k, total := range totals {
		rows = append(rows, analyticsdomain.MonthlyCategoryRow{
			CategoryID:   k.category,
			CategoryName: r.store.categoryName(k.category),
			Month:        k.month,
			Total:        total,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CategoryID != rows[j].CategoryID {
			return rows[i].CategoryID < rows[j].CategoryID
		}
		return rows[i].Month < rows[j].Month
	})
	return rows, nil
}

func (s *Store) categoryName(categoryID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.categories[categoryID].Name
}
