package goals

import (
	"context"
	"errors"

	goalsdomain "fintrack-go/internal/domain/goals"
	transactionsdomain "fintrack-go/internal/domain/transactions"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(goalsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListGoals(ctx context.Context, userID string) ([]goalsdomain.Goal, error) {
	var items []goalsdomain.Goal
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetGoalForUpdate locks the row until the surrounding transaction ends.
func (r *PostgresRepository) GetGoalForUpdate(ctx context.Context, userID, goalID string) (*goalsdomain.Goal, error) {
	var goal goalsdomain.Goal
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND id = ?", userID, goalID).
		First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goalsdomain.ErrGoalNotFound
		}
		return nil, err
	}
	return &goal, nil
}

func (r *PostgresRepository) CreateGoal(ctx context.Context, goal *goalsdomain.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *PostgresRepository) UpdateGoal(ctx context.Context, goal *goalsdomain.Goal) error {
	return r.db.WithContext(ctx).
		Model(&goalsdomain.Goal{}).
		Where("id = ? AND user_id = ?", goal.ID, goal.UserID).
		Updates(map[string]interface{}{
			"name":           goal.Name,
			"target_amount":  goal.TargetAmount,
			"current_amount": goal.CurrentAmount,
			"deadline":       goal.Deadline,
			"is_active":      goal.IsActive,
		}).Error
}

// DeleteGoal removes boosts and plans through ON DELETE CASCADE.
func (r *PostgresRepository) DeleteGoal(ctx context.Context, userID, goalID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&goalsdomain.Goal{}, "user_id = ? AND id = ?", userID, goalID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CreateBoost(ctx context.Context, boost *goalsdomain.Boost) error {
	return r.db.WithContext(ctx).Create(boost).Error
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, transaction *transactionsdomain.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *PostgresRepository) GetActivePlan(ctx context.Context, userID, goalID string) (*goalsdomain.SavingsPlan, error) {
	var plan goalsdomain.SavingsPlan
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND goal_id = ? AND is_active", userID, goalID).
		Order("created_at desc").
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goalsdomain.ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *PostgresRepository) DeactivatePlans(ctx context.Context, userID, goalID string) error {
	return r.db.WithContext(ctx).
		Model(&goalsdomain.SavingsPlan{}).
		Where("user_id = ? AND goal_id = ? AND is_active", userID, goalID).
		Update("is_active", false).Error
}

func (r *PostgresRepository) CreatePlan(ctx context.Context, plan *goalsdomain.SavingsPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}
