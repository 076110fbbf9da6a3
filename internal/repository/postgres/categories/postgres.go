package categories

import (
	"context"
	"errors"

	categoriesdomain "fintrack-go/internal/domain/categories"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(categoriesdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListCategories(ctx context.Context, userID string) ([]categoriesdomain.Category, error) {
	var items []categoriesdomain.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("kind asc, lower(name) asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetCategoryByID(ctx context.Context, userID, categoryID string) (*categoriesdomain.Category, error) {
	var category categoriesdomain.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, categoryID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, categoriesdomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) GetCategoryByName(ctx context.Context, userID, name string) (*categoriesdomain.Category, error) {
	var category categoriesdomain.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND lower(name) = lower(?)", userID, name).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, categoriesdomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *categoriesdomain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, category *categoriesdomain.Category) error {
	result := r.db.WithContext(ctx).
		Model(&categoriesdomain.Category{}).
		Where("id = ? AND user_id = ?", category.ID, category.UserID).
		Updates(map[string]interface{}{
			"name":  category.Name,
			"icon":  category.Icon,
			"color": category.Color,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return categoriesdomain.ErrCategoryNotFound
	}
	return nil
}

func (r *PostgresRepository) CountCategoriesByName(ctx context.Context, userID, name, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&categoriesdomain.Category{}).
		Where("user_id = ? AND lower(name) = lower(?)", userID, name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteCategory relies on the budgets.category_id foreign key cascading.
func (r *PostgresRepository) DeleteCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&categoriesdomain.Category{}, "user_id = ? AND id = ?", userID, categoryID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CountTransactionsByCategoryID(ctx context.Context, userID, categoryID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("transactions").
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
