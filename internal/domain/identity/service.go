package identity

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"
)

const (
	codeLength   = 6
	codeAttempts = 10
)

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	codeTTL  time.Duration
	now      func() time.Time
}

func NewService(repo Repository, cache Cache, cacheTTL, codeTTL time.Duration) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL, codeTTL: codeTTL, now: time.Now}
}

// ResolveUser returns the user linked to a channel identity. Misses are not
// cached so a fresh pairing is seen on the next message.
func (s *Service) ResolveUser(ctx context.Context, channelIdentity string) (string, bool, error) {
	if link, ok := s.cache.GetByChannel(channelIdentity); ok {
		return link.UserID, true, nil
	}

	link, err := s.repo.GetLink(ctx, channelIdentity)
	if err != nil {
		if errors.Is(err, ErrNotLinked) {
			return "", false, nil
		}
		return "", false, err
	}
	s.cache.SetByChannel(channelIdentity, link, s.cacheTTL)
	return link.UserID, true, nil
}

// IssueCode creates a one-time activation code the user sends from the chat
// app to pair it.
func (s *Service) IssueCode(ctx context.Context, userID string) (*ActivationCode, error) {
	var result ActivationCode
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		code, err := generateUniqueCode(ctx, tx)
		if err != nil {
			return err
		}
		result = ActivationCode{
			Code:      code,
			UserID:    userID,
			ExpiresAt: s.now().Add(s.codeTTL).UTC(),
		}
		return tx.CreateCode(ctx, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Link consumes an activation code and binds the channel identity to its
// user, replacing any earlier binding.
func (s *Service) Link(ctx context.Context, channelIdentity, code string) (*Link, error) {
	channelIdentity = strings.TrimSpace(channelIdentity)
	if channelIdentity == "" {
		return nil, ErrIdentityRequired
	}
	code = strings.ToUpper(strings.TrimSpace(code))

	var result Link
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		activation, err := tx.GetCode(ctx, code)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		if activation.UsedAt != nil || !now.Before(activation.ExpiresAt) {
			return ErrCodeExpired
		}
		if err := tx.MarkCodeUsed(ctx, code, now); err != nil {
			return err
		}

		result = Link{ChannelIdentity: channelIdentity, UserID: activation.UserID, LinkedAt: now}
		return tx.UpsertLink(ctx, &result)
	})
	s.cache.DeleteByChannel(channelIdentity)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func generateUniqueCode(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := generateCode(codeLength)
		if err != nil {
			return "", err
		}
		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

func generateCode(length int) (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}
	return builder.String(), nil
}
