package preferences

import (
	"context"
	"errors"

	preferencesdomain "fintrack-go/internal/domain/preferences"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetPreferences(ctx context.Context, userID string) (*preferencesdomain.Preferences, error) {
	var prefs preferencesdomain.Preferences
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, preferencesdomain.ErrPreferencesNotFound
		}
		return nil, err
	}
	return &prefs, nil
}

func (r *PostgresRepository) UpsertPreferences(ctx context.Context, prefs *preferencesdomain.Preferences) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"default_currency", "language", "auto_categorize", "timezone", "updated_at"}),
		}).
		Create(prefs).Error
}
