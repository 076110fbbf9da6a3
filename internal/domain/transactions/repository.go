package transactions

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateTransaction(ctx context.Context, transaction *Transaction) error
	ListTransactions(ctx context.Context, userID string, filter ListFilter) ([]Transaction, int64, error)
	SumTransactions(ctx context.Context, userID string, filter ListFilter) (decimal.Decimal, error)
}
