package inbox

import (
	"context"
	"errors"

	inboxdomain "fintrack-go/internal/domain/inbox"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) BeginMessage(ctx context.Context, record *inboxdomain.Record) (bool, *inboxdomain.Record, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}},
			DoNothing: true,
		}).
		Create(record)
	if result.Error != nil {
		return false, nil, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil, nil
	}

	var existing inboxdomain.Record
	if err := r.db.WithContext(ctx).Where("message_id = ?", record.MessageID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return false, &existing, nil
}

func (r *PostgresRepository) DeleteMessage(ctx context.Context, messageID string) error {
	return r.db.WithContext(ctx).
		Where("message_id = ? AND status = ?", messageID, inboxdomain.StateProcessing).
		Delete(&inboxdomain.Record{}).Error
}

func (r *PostgresRepository) CompleteMessage(ctx context.Context, messageID string, replyJSON []byte) error {
	return r.db.WithContext(ctx).
		Model(&inboxdomain.Record{}).
		Where("message_id = ?", messageID).
		Updates(map[string]interface{}{
			"status":     inboxdomain.StateCompleted,
			"reply_json": replyJSON,
		}).Error
}
