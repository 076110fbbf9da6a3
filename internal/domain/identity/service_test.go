package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	links map[string]Link
	codes map[string]ActivationCode
	taken int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{links: make(map[string]Link), codes: make(map[string]ActivationCode)}
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) GetLink(ctx context.Context, channelIdentity string) (*Link, error) {
	link, ok := r.links[channelIdentity]
	if !ok {
		return nil, ErrNotLinked
	}
	return &link, nil
}

func (r *fakeRepo) UpsertLink(ctx context.Context, link *Link) error {
	r.links[link.ChannelIdentity] = *link
	return nil
}

func (r *fakeRepo) CreateCode(ctx context.Context, code *ActivationCode) error {
	r.codes[code.Code] = *code
	return nil
}

func (r *fakeRepo) GetCode(ctx context.Context, code string) (*ActivationCode, error) {
	c, ok := r.codes[code]
	if !ok {
		return nil, ErrCodeNotFound
	}
	return &c, nil
}

func (r *fakeRepo) MarkCodeUsed(ctx context.Context, code string, usedAt time.Time) error {
	c := r.codes[code]
	c.UsedAt = &usedAt
	r.codes[code] = c
	return nil
}

func (r *fakeRepo) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	if r.taken > 0 {
		r.taken--
		return true, nil
	}
	_, ok := r.codes[code]
	return ok, nil
}

func TestIssueAndLink(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, 0, 10*time.Minute)
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	code, err := svc.IssueCode(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, code.Code, codeLength)
	assert.Equal(t, now.Add(10*time.Minute), code.ExpiresAt)

	_, ok, err := svc.ResolveUser(ctx, "whatsapp:62811")
	require.NoError(t, err)
	assert.False(t, ok)

	link, err := svc.Link(ctx, "whatsapp:62811", " "+code.Code+" ")
	require.NoError(t, err)
	assert.Equal(t, "user-1", link.UserID)

	userID, ok, err := svc.ResolveUser(ctx, "whatsapp:62811")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)

	_, err = svc.Link(ctx, "whatsapp:62822", code.Code)
	require.ErrorIs(t, err, ErrCodeExpired)
}

func TestLinkRejectsExpiredAndUnknownCodes(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, 0, time.Minute)
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	code, err := svc.IssueCode(ctx, "user-1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = svc.Link(ctx, "whatsapp:62811", code.Code)
	require.ErrorIs(t, err, ErrCodeExpired)

	_, err = svc.Link(ctx, "whatsapp:62811", "ZZZZZZ")
	require.ErrorIs(t, err, ErrCodeNotFound)

	_, err = svc.Link(ctx, " ", code.Code)
	require.ErrorIs(t, err, ErrIdentityRequired)
}

func TestIssueCodeGivesUpAfterCollisions(t *testing.T) {
	repo := newFakeRepo()
	repo.taken = codeAttempts
	svc := NewService(repo, nil, 0, time.Minute)

	_, err := svc.IssueCode(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrCodeGenerationFailed)
}
