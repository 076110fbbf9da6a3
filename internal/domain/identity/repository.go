package identity

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetLink(ctx context.Context, channelIdentity string) (*Link, error)
	UpsertLink(ctx context.Context, link *Link) error
	CreateCode(ctx context.Context, code *ActivationCode) error
	GetCode(ctx context.Context, code string) (*ActivationCode, error)
	MarkCodeUsed(ctx context.Context, code string, usedAt time.Time) error
	IsCodeTaken(ctx context.Context, code string) (bool, error)
}
