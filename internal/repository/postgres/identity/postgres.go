package identity

import (
	"context"
	"errors"
	"time"

	identitydomain "fintrack-go/internal/domain/identity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(identitydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetLink(ctx context.Context, channelIdentity string) (*identitydomain.Link, error) {
	var link identitydomain.Link
	if err := r.db.WithContext(ctx).Where("channel_identity = ?", channelIdentity).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrNotLinked
		}
		return nil, err
	}
	return &link, nil
}

func (r *PostgresRepository) UpsertLink(ctx context.Context, link *identitydomain.Link) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel_identity"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "linked_at"}),
		}).
		Create(link).Error
}

func (r *PostgresRepository) CreateCode(ctx context.Context, code *identitydomain.ActivationCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *PostgresRepository) GetCode(ctx context.Context, code string) (*identitydomain.ActivationCode, error) {
	var activation identitydomain.ActivationCode
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		First(&activation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrCodeNotFound
		}
		return nil, err
	}
	return &activation, nil
}

func (r *PostgresRepository) MarkCodeUsed(ctx context.Context, code string, usedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&identitydomain.ActivationCode{}).
		Where("code = ?", code).
		Update("used_at", usedAt).Error
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identitydomain.ActivationCode{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
