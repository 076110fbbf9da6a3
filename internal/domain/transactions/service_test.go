package transactions

import (
	"context"
	"testing"
	"time"

	"fintrack-go/internal/domain/categories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

type fakeRepo struct {
	items []Transaction
}

func (r *fakeRepo) CreateTransaction(ctx context.Context, transaction *Transaction) error {
	r.items = append(r.items, *transaction)
	return nil
}

func (r *fakeRepo) matching(userID string, filter ListFilter) []Transaction {
	var out []Transaction
	for _, t := range r.items {
		if t.UserID != userID {
			continue
		}
		if filter.From != nil && t.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !t.OccurredAt.Before(*filter.To) {
			continue
		}
		if filter.CategoryID != "" && t.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Kind != "" && t.Kind != filter.Kind {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (r *fakeRepo) ListTransactions(ctx context.Context, userID string, filter ListFilter) ([]Transaction, int64, error) {
	items := r.matching(userID, filter)
	return items, int64(len(items)), nil
}

func (r *fakeRepo) SumTransactions(ctx context.Context, userID string, filter ListFilter) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range r.matching(userID, filter) {
		total = total.Add(t.Amount)
	}
	return total, nil
}

func TestRecordValidates(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	_, err := svc.Record(ctx, RecordInput{UserID: testUserID, Amount: decimal.Zero, Currency: "IDR", Kind: categories.KindExpense})
	require.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = svc.Record(ctx, RecordInput{UserID: testUserID, Amount: decimal.NewFromInt(-5), Currency: "IDR", Kind: categories.KindExpense})
	require.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = svc.Record(ctx, RecordInput{UserID: testUserID, Amount: decimal.NewFromInt(5), Currency: "IDR", Kind: "transfer"})
	require.ErrorIs(t, err, ErrInvalidKind)

	_, err = svc.Record(ctx, RecordInput{UserID: testUserID, Amount: decimal.NewFromInt(5), Kind: categories.KindIncome})
	require.ErrorIs(t, err, ErrCurrencyRequired)
}

func TestRecordDefaultsOccurredAtToNow(t *testing.T) {
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	svc := NewService(&fakeRepo{})
	svc.now = func() time.Time { return now }

	tx, err := svc.Record(context.Background(), RecordInput{
		UserID: testUserID, Amount: decimal.RequireFromString("25000"), Currency: "idr",
		Kind: categories.KindExpense, Description: " kopi ",
	})
	require.NoError(t, err)
	assert.True(t, now.Equal(tx.OccurredAt))
	assert.Equal(t, "IDR", tx.Currency)
	assert.Equal(t, "kopi", tx.Description)
	assert.True(t, tx.Signed().Equal(decimal.NewFromInt(-25000)))
}

func TestSpentAndBalance(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()
	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	record := func(category string, kind categories.Kind, amount int64, at time.Time) {
		_, err := svc.Record(ctx, RecordInput{
			UserID: testUserID, CategoryID: category, Amount: decimal.NewFromInt(amount),
			Currency: "IDR", Kind: kind, OccurredAt: at,
		})
		require.NoError(t, err)
	}
	record("food", categories.KindExpense, 30000, day)
	record("food", categories.KindExpense, 20000, day.AddDate(0, 0, 5))
	record("food", categories.KindExpense, 99000, day.AddDate(0, 1, 0))
	record("salary", categories.KindIncome, 1000000, day)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	spent, err := svc.Spent(ctx, testUserID, "food", from, from.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.True(t, spent.Equal(decimal.NewFromInt(50000)), spent.String())

	balance, err := svc.Balance(ctx, testUserID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(851000)), balance.String())
}
