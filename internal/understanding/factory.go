package understanding

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"fintrack-go/internal/domain/intent"
)

type Config struct {
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// New builds the client for cfg.Provider. The returned closer releases the
// provider's resources and is never nil.
func New(ctx context.Context, cfg Config) (intent.Client, io.Closer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "local":
		return NewLocal(), nopCloser{}, nil
	case "http":
		completer, err := NewHTTPCompleter(cfg.BaseURL, cfg.APIKey, cfg.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return NewClient(completer, cfg.Timeout), nopCloser{}, nil
	case "gemini":
		completer, err := NewGeminiCompleter(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		return NewClient(completer, cfg.Timeout), completer, nil
	default:
		return nil, nil, fmt.Errorf("unsupported understanding provider: %s", cfg.Provider)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
