package preferences

import "context"

type Repository interface {
	GetPreferences(ctx context.Context, userID string) (*Preferences, error)
	UpsertPreferences(ctx context.Context, prefs *Preferences) error
}
