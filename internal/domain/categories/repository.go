package categories

import "context"

// Repository is scoped by owning user. Delete removes budgets attached to the
// category in the same statement or transaction.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListCategories(ctx context.Context, userID string) ([]Category, error)
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*Category, error)
	GetCategoryByName(ctx context.Context, userID, name string) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error
	UpdateCategory(ctx context.Context, category *Category) error
	CountCategoriesByName(ctx context.Context, userID, name, excludeID string) (int64, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) (bool, error)
	CountTransactionsByCategoryID(ctx context.Context, userID, categoryID string) (int64, error)
}
