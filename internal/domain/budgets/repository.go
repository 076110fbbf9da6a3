package budgets

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListBudgets(ctx context.Context, userID string) ([]Budget, error)
	GetBudgetByCategoryID(ctx context.Context, userID, categoryID string) (*Budget, error)
	CreateBudget(ctx context.Context, budget *Budget) error
	UpdateBudget(ctx context.Context, budget *Budget) error
	DeleteBudget(ctx context.Context, userID, budgetID string) (bool, error)
}
