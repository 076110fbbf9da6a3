package inbox

import "context"

type Repository interface {
	// BeginMessage inserts record unless the message id exists, in which case
	// the stored record is returned.
	BeginMessage(ctx context.Context, record *Record) (bool, *Record, error)
	CompleteMessage(ctx context.Context, messageID string, replyJSON []byte) error
	DeleteMessage(ctx context.Context, messageID string) error
}
