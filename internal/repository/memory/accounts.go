package memory

import (
	"bytes"
	"context"
	"time"

	identitydomain "fintrack-go/internal/domain/identity"
	inboxdomain "fintrack-go/internal/domain/inbox"
	preferencesdomain "fintrack-go/internal/domain/preferences"
)

type preferenceRepo struct {
	store *Store
}

func (r *preferenceRepo) GetPreferences(ctx context.Context, userID string) (*preferencesdomain.Preferences, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.data.preferences[userID]
	if !ok {
		return nil, preferencesdomain.ErrPreferencesNotFound
	}
	return &p, nil
}

func (r *preferenceRepo) UpsertPreferences(ctx context.Context, prefs *preferencesdomain.Preferences) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	if existing, ok := r.store.data.preferences[prefs.UserID]; ok {
		prefs.CreatedAt = existing.CreatedAt
	} else {
		prefs.CreatedAt = now
	}
	prefs.UpdatedAt = now
	r.store.data.preferences[prefs.UserID] = *prefs
	return nil
}

type identityRepo struct {
	store *Store
	inTx  bool
}

func (r *identityRepo) Transaction(ctx context.Context, fn func(identitydomain.Repository) error) error {
	tx := &identityRepo{store: r.store, inTx: true}
	return txRunner{store: r.store, inTx: r.inTx}.run(ctx, func() error { return fn(tx) })
}

func (r *identityRepo) GetLink(ctx context.Context, channelIdentity string) (*identitydomain.Link, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	link, ok := r.store.data.links[channelIdentity]
	if !ok {
		return nil, identitydomain.ErrNotLinked
	}
	return &link, nil
}

func (r *identityRepo) UpsertLink(ctx context.Context, link *identitydomain.Link) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.data.links[link.ChannelIdentity] = *link
	return nil
}

func (r *identityRepo) CreateCode(ctx context.Context, code *identitydomain.ActivationCode) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	code.CreatedAt = r.store.now()
	r.store.data.codes[code.Code] = *code
	return nil
}

func (r *identityRepo) GetCode(ctx context.Context, code string) (*identitydomain.ActivationCode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.data.codes[code]
	if !ok {
		return nil, identitydomain.ErrCodeNotFound
	}
	return &c, nil
}

func (r *identityRepo) MarkCodeUsed(ctx context.Context, code string, usedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.data.codes[code]
	if !ok {
		return identitydomain.ErrCodeNotFound
	}
	c.UsedAt = &usedAt
	r.store.data.codes[code] = c
	return nil
}

func (r *identityRepo) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.data.codes[code]
	return ok, nil
}

type inboxRepo struct {
	store *Store
}

func (r *inboxRepo) BeginMessage(ctx context.Context, record *inboxdomain.Record) (bool, *inboxdomain.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.data.inbox[record.MessageID]; ok {
		existing.ReplyJSON = bytes.Clone(existing.ReplyJSON)
		return false, &existing, nil
	}
	now := r.store.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	r.store.data.inbox[record.MessageID] = *record
	return true, nil, nil
}

func (r *inboxRepo) CompleteMessage(ctx context.Context, messageID string, replyJSON []byte) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.data.inbox[messageID]
	if !ok {
		return nil
	}
	rec.Status = inboxdomain.StateCompleted
	rec.ReplyJSON = bytes.Clone(replyJSON)
	rec.UpdatedAt = r.store.now()
	r.store.data.inbox[messageID] = rec
	return nil
}

func (r *inboxRepo) DeleteMessage(ctx context.Context, messageID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if rec, ok := r.store.data.inbox[messageID]; ok && rec.Status == inboxdomain.StateProcessing {
		delete(r.store.data.inbox, messageID)
	}
	return nil
}
