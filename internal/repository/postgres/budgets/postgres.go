package budgets

import (
	"context"
	"errors"

	budgetsdomain "fintrack-go/internal/domain/budgets"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(budgetsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListBudgets(ctx context.Context, userID string) ([]budgetsdomain.Budget, error) {
	var items []budgetsdomain.Budget
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetBudgetByCategoryID(ctx context.Context, userID, categoryID string) (*budgetsdomain.Budget, error) {
	var budget budgetsdomain.Budget
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, budgetsdomain.ErrBudgetNotFound
		}
		return nil, err
	}
	return &budget, nil
}

func (r *PostgresRepository) CreateBudget(ctx context.Context, budget *budgetsdomain.Budget) error {
	return r.db.WithContext(ctx).Create(budget).Error
}

func (r *PostgresRepository) UpdateBudget(ctx context.Context, budget *budgetsdomain.Budget) error {
	return r.db.WithContext(ctx).
		Model(&budgetsdomain.Budget{}).
		Where("id = ? AND user_id = ?", budget.ID, budget.UserID).
		Updates(map[string]interface{}{
			"amount":   budget.Amount,
			"period":   budget.Period,
			"start_at": budget.StartAt,
			"end_at":   budget.EndAt,
		}).Error
}

func (r *PostgresRepository) DeleteBudget(ctx context.Context, userID, budgetID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&budgetsdomain.Budget{}, "user_id = ? AND id = ?", userID, budgetID)
	return result.RowsAffected > 0, result.Error
}
