package preferences

import (
	"context"
	"errors"
	"strings"
	"time"
)

type Service struct {
	repo     Repository
	defaults Defaults
}

func NewService(repo Repository, defaults Defaults) *Service {
	return &Service{repo: repo, defaults: defaults}
}

// Get returns stored preferences or the configured defaults. Defaults are not
// persisted until the user changes something.
func (s *Service) Get(ctx context.Context, userID string) (Preferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err == nil {
		return *prefs, nil
	}
	if !errors.Is(err, ErrPreferencesNotFound) {
		return Preferences{}, err
	}
	return s.fromDefaults(userID), nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (Preferences, error) {
	prefs, err := s.Get(ctx, input.UserID)
	if err != nil {
		return Preferences{}, err
	}

	if input.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if len(currency) != 3 {
			return Preferences{}, ErrInvalidCurrency
		}
		prefs.DefaultCurrency = currency
	}
	if input.Language != nil {
		language := strings.ToLower(strings.TrimSpace(*input.Language))
		if language != "id" && language != "en" {
			return Preferences{}, ErrInvalidLanguage
		}
		prefs.Language = language
	}
	if input.Timezone != nil {
		tz := strings.TrimSpace(*input.Timezone)
		if _, err := time.LoadLocation(tz); err != nil || tz == "" {
			return Preferences{}, ErrInvalidTimezone
		}
		prefs.Timezone = tz
	}
	if input.AutoCategorize != nil {
		prefs.AutoCategorize = *input.AutoCategorize
	}

	if err := s.repo.UpsertPreferences(ctx, &prefs); err != nil {
		return Preferences{}, err
	}
	return prefs, nil
}

func (s *Service) fromDefaults(userID string) Preferences {
	return Preferences{
		UserID:          userID,
		DefaultCurrency: s.defaults.Currency,
		Language:        s.defaults.Language,
		AutoCategorize:  s.defaults.AutoCategorize,
		Timezone:        s.defaults.Timezone,
	}
}
