package goals

import (
	"context"

	"fintrack-go/internal/domain/transactions"
)

// Repository mutations called inside Transaction commit or roll back
// together, ledger entries included.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListGoals(ctx context.Context, userID string) ([]Goal, error)
	GetGoalForUpdate(ctx context.Context, userID, goalID string) (*Goal, error)
	CreateGoal(ctx context.Context, goal *Goal) error
	UpdateGoal(ctx context.Context, goal *Goal) error
	DeleteGoal(ctx context.Context, userID, goalID string) (bool, error)
	CreateBoost(ctx context.Context, boost *Boost) error
	CreateTransaction(ctx context.Context, transaction *transactions.Transaction) error
	GetActivePlan(ctx context.Context, userID, goalID string) (*SavingsPlan, error)
	DeactivatePlans(ctx context.Context, userID, goalID string) error
	CreatePlan(ctx context.Context, plan *SavingsPlan) error
}
