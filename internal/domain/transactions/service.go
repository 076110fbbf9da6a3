package transactions

import (
	"context"
	"strings"
	"time"

	"fintrack-go/internal/domain/categories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// New validates input and builds a transaction without persisting it, so
// callers running their own database transaction can insert it themselves.
func New(input RecordInput, now time.Time) (Transaction, error) {
	if !input.Amount.IsPositive() {
		return Transaction{}, ErrAmountNotPositive
	}
	if !input.Kind.Valid() {
		return Transaction{}, ErrInvalidKind
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		return Transaction{}, ErrCurrencyRequired
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	return Transaction{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount.Round(2),
		Currency:    currency,
		Description: strings.TrimSpace(input.Description),
		Kind:        input.Kind,
		OccurredAt:  occurredAt.UTC(),
		AIGenerated: input.AIGenerated,
	}, nil
}

func (s *Service) Record(ctx context.Context, input RecordInput) (*Transaction, error) {
	transaction, err := New(input, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateTransaction(ctx, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Transaction, int64, error) {
	return s.repo.ListTransactions(ctx, userID, filter)
}

// Spent sums expenses in a category over [from, to).
func (s *Service) Spent(ctx context.Context, userID, categoryID string, from, to time.Time) (decimal.Decimal, error) {
	return s.repo.SumTransactions(ctx, userID, ListFilter{
		From:       &from,
		To:         &to,
		CategoryID: categoryID,
		Kind:       categories.KindExpense,
	})
}

// Balance is all income minus all expenses. Goal boosts are expenses, so money
// set aside is already excluded.
func (s *Service) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	income, err := s.repo.SumTransactions(ctx, userID, ListFilter{Kind: categories.KindIncome})
	if err != nil {
		return decimal.Zero, err
	}
	expense, err := s.repo.SumTransactions(ctx, userID, ListFilter{Kind: categories.KindExpense})
	if err != nil {
		return decimal.Zero, err
	}
	return income.Sub(expense), nil
}
