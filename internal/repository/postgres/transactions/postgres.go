package transactions

import (
	"context"

	transactionsdomain "fintrack-go/internal/domain/transactions"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, transaction *transactionsdomain.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, userID string, filter transactionsdomain.ListFilter) ([]transactionsdomain.Transaction, int64, error) {
	query := filtered(r.db.WithContext(ctx).Model(&transactionsdomain.Transaction{}), userID, filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("occurred_at desc, created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []transactionsdomain.Transaction
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresRepository) SumTransactions(ctx context.Context, userID string, filter transactionsdomain.ListFilter) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := filtered(r.db.WithContext(ctx).Model(&transactionsdomain.Transaction{}), userID, filter).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func filtered(query *gorm.DB, userID string, filter transactionsdomain.ListFilter) *gorm.DB {
	query = query.Where("user_id = ?", userID)
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at < ?", *filter.To)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	return query
}
