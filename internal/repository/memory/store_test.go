package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	analyticsdomain "fintrack-go/internal/domain/analytics"
	budgetsdomain "fintrack-go/internal/domain/budgets"
	categoriesdomain "fintrack-go/internal/domain/categories"
	goalsdomain "fintrack-go/internal/domain/goals"
	inboxdomain "fintrack-go/internal/domain/inbox"
	transactionsdomain "fintrack-go/internal/domain/transactions"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCategory(t *testing.T, s *Store, id, name string, kind categoriesdomain.Kind) {
	t.Helper()
	require.NoError(t, s.Categories().CreateCategory(context.Background(), &categoriesdomain.Category{
		ID: id, UserID: "user-1", Name: name, Kind: kind,
	}))
}

func seedTransaction(t *testing.T, s *Store, id, categoryID string, kind categoriesdomain.Kind, amount int64, at time.Time) {
	t.Helper()
	require.NoError(t, s.Transactions().CreateTransaction(context.Background(), &transactionsdomain.Transaction{
		ID: id, UserID: "user-1", CategoryID: categoryID, Kind: kind,
		Amount: decimal.NewFromInt(amount), Currency: "IDR", OccurredAt: at,
	}))
}

func TestTransactionRollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Categories().Transaction(ctx, func(tx categoriesdomain.Repository) error {
		require.NoError(t, tx.CreateCategory(ctx, &categoriesdomain.Category{ID: "c1", UserID: "user-1", Name: "Food"}))
		return tx.Transaction(ctx, func(inner categoriesdomain.Repository) error {
			return boom
		})
	})
	require.ErrorIs(t, err, boom)

	items, err := s.Categories().ListCategories(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCategoryLookupIsCaseInsensitiveAndOrdered(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedCategory(t, s, "c1", "transport", categoriesdomain.KindExpense)
	seedCategory(t, s, "c2", "Food", categoriesdomain.KindExpense)
	seedCategory(t, s, "c3", "Salary", categoriesdomain.KindIncome)

	found, err := s.Categories().GetCategoryByName(ctx, "user-1", "  FOOD ")
	require.NoError(t, err)
	assert.Equal(t, "c2", found.ID)

	_, err = s.Categories().GetCategoryByName(ctx, "user-2", "food")
	assert.ErrorIs(t, err, categoriesdomain.ErrCategoryNotFound)

	items, err := s.Categories().ListCategories(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Food", "transport", "Salary"}, []string{items[0].Name, items[1].Name, items[2].Name})
}

func TestDeleteCategoryRemovesBudgets(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedCategory(t, s, "c1", "Food", categoriesdomain.KindExpense)
	require.NoError(t, s.Budgets().CreateBudget(ctx, &budgetsdomain.Budget{
		ID: "b1", UserID: "user-1", CategoryID: "c1", Amount: decimal.NewFromInt(100000),
	}))

	deleted, err := s.Categories().DeleteCategory(ctx, "user-1", "c1")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = s.Budgets().GetBudgetByCategoryID(ctx, "user-1", "c1")
	assert.ErrorIs(t, err, budgetsdomain.ErrBudgetNotFound)
}

func TestListTransactionsFiltersAndPages(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedTransaction(t, s, string(rune('a'+i)), "c1", categoriesdomain.KindExpense, 1000, base.AddDate(0, 0, i))
	}

	from, to := base.AddDate(0, 0, 1), base.AddDate(0, 0, 4)
	items, total, err := s.Transactions().ListTransactions(ctx, "user-1", transactionsdomain.ListFilter{From: &from, To: &to, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, "d", items[0].ID)

	sum, err := s.Transactions().SumTransactions(ctx, "user-1", transactionsdomain.ListFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3000).Equal(sum))
}

func TestAnalyticsAggregates(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	seedCategory(t, s, "food", "Food", categoriesdomain.KindExpense)
	seedCategory(t, s, "fun", "Fun", categoriesdomain.KindExpense)
	seedCategory(t, s, "salary", "Salary", categoriesdomain.KindIncome)
	seedTransaction(t, s, "t1", "food", categoriesdomain.KindExpense, 30000, time.Date(2026, 1, 31, 18, 0, 0, 0, time.UTC))
	seedTransaction(t, s, "t2", "food", categoriesdomain.KindExpense, 20000, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	seedTransaction(t, s, "t3", "fun", categoriesdomain.KindExpense, 10000, time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC))
	seedTransaction(t, s, "t4", "salary", categoriesdomain.KindIncome, 500000, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

	summary, err := s.Analytics().Summary(ctx, "user-1", analyticsdomain.SummaryFilter{})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60000).Equal(summary.Expense))
	assert.True(t, decimal.NewFromInt(500000).Equal(summary.Income))
	assert.EqualValues(t, 3, summary.ExpenseCount)

	from, to := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows, err := s.Analytics().ByCategory(ctx, "user-1", analyticsdomain.ByCategoryFilter{From: from, To: to, Limit: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Food", rows[0].CategoryName)
	assert.EqualValues(t, 2, rows[0].Count)

	monthly, err := s.Analytics().MonthlyByCategory(ctx, "user-1", analyticsdomain.MonthlyFilter{
		From: from, To: to, CategoryID: "food", Timezone: jakarta.String(),
	})
	require.NoError(t, err)
	require.Len(t, monthly, 1)
	assert.Equal(t, "2026-02", monthly[0].Month)
	assert.True(t, decimal.NewFromInt(50000).Equal(monthly[0].Total))
}

func TestGoalPlansAndDelete(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Goals()

	require.NoError(t, repo.CreateGoal(ctx, &goalsdomain.Goal{ID: "g1", UserID: "user-1", Name: "Laptop", IsActive: true}))
	require.NoError(t, repo.CreatePlan(ctx, &goalsdomain.SavingsPlan{ID: "p1", GoalID: "g1", UserID: "user-1", IsActive: true}))
	require.NoError(t, repo.CreateBoost(ctx, &goalsdomain.Boost{ID: "x1", GoalID: "g1", UserID: "user-1"}))
	assert.Len(t, s.Boosts("g1"), 1)

	plan, err := repo.GetActivePlan(ctx, "user-1", "g1")
	require.NoError(t, err)
	assert.Equal(t, "p1", plan.ID)

	require.NoError(t, repo.DeactivatePlans(ctx, "user-1", "g1"))
	_, err = repo.GetActivePlan(ctx, "user-1", "g1")
	assert.ErrorIs(t, err, goalsdomain.ErrPlanNotFound)

	deleted, err := repo.DeleteGoal(ctx, "user-1", "g1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, s.Boosts("g1"))

	_, err = repo.GetGoalForUpdate(ctx, "user-1", "g1")
	assert.ErrorIs(t, err, goalsdomain.ErrGoalNotFound)
}

func TestInboxBeginReturnsExisting(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Inbox()

	created, _, err := repo.BeginMessage(ctx, &inboxdomain.Record{MessageID: "m1", Status: inboxdomain.StateProcessing})
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, repo.CompleteMessage(ctx, "m1", []byte(`{"ok":true}`)))

	created, existing, err := repo.BeginMessage(ctx, &inboxdomain.Record{MessageID: "m1"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, inboxdomain.StateCompleted, existing.Status)
	assert.JSONEq(t, `{"ok":true}`, string(existing.ReplyJSON))
}
