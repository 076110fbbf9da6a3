package inbox

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Begin claims a message for processing. Messages without an id cannot be
// deduplicated and are always claimed.
func (s *Service) Begin(ctx context.Context, messageID, channelIdentity string, payload ...[]byte) (Claim, error) {
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return Claim{}, nil
	}

	hash := hashPayload(payload...)
	created, existing, err := s.repo.BeginMessage(ctx, &Record{
		MessageID:       messageID,
		ChannelIdentity: channelIdentity,
		PayloadHash:     hash,
		Status:          StateProcessing,
	})
	if err != nil {
		return Claim{}, err
	}
	if created {
		return Claim{}, nil
	}

	if existing == nil {
		return Claim{}, ErrInProgress
	}
	if existing.PayloadHash != hash {
		return Claim{}, ErrPayloadMismatch
	}
	if existing.Status == StateCompleted && len(existing.ReplyJSON) > 0 {
		return Claim{Duplicate: true, Reply: existing.ReplyJSON}, nil
	}
	return Claim{}, ErrInProgress
}

func (s *Service) Complete(ctx context.Context, messageID string, reply any) error {
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return nil
	}
	encoded, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	return s.repo.CompleteMessage(ctx, messageID, encoded)
}

// Release drops an unfinished claim so a redelivery of the same message id is
// processed again.
func (s *Service) Release(ctx context.Context, messageID string) error {
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return nil
	}
	return s.repo.DeleteMessage(ctx, messageID)
}

func hashPayload(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
