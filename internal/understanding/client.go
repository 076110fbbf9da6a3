// Package understanding provides the concrete Understanding Service clients:
// a JSON-over-HTTP client, a Gemini client and an offline interpreter.
package understanding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack-go/internal/domain/intent"
)

const DefaultTimeout = 20 * time.Second

// Completer sends one request shape and returns the raw JSON answer.
type Completer interface {
	Complete(ctx context.Context, domain Domain, req intent.Request) ([]byte, error)
}

// Client adapts a Completer to intent.Client. Every call gets one deadline and
// is never retried; transport failures surface as intent.ErrUnavailable.
type Client struct {
	completer Completer
	timeout   time.Duration
}

func NewClient(completer Completer, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{completer: completer, timeout: timeout}
}

func (c *Client) complete(ctx context.Context, domain Domain, req intent.Request) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := c.completer.Complete(ctx, domain, req)
	if err != nil {
		if errors.Is(err, intent.ErrMalformed) {
			return nil, err
		}
		return nil, intent.ErrUnavailable.Wrap(fmt.Errorf("%s: %w", domain, err))
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, intent.ErrMalformed.Withf("%s: empty response", domain)
	}
	return body, nil
}

func (c *Client) Transaction(ctx context.Context, req intent.Request) (intent.TransactionIntent, error) {
	body, err := c.complete(ctx, DomainTransaction, req)
	if err != nil {
		return intent.TransactionIntent{}, err
	}
	return decodeTransaction(body, req.Context)
}

func (c *Client) ReceiptItems(ctx context.Context, req intent.Request) ([]intent.TransactionIntent, error) {
	body, err := c.complete(ctx, DomainReceipt, req)
	if err != nil {
		return nil, err
	}
	return decodeReceipt(body, req.Context)
}

func (c *Client) Budget(ctx context.Context, req intent.Request) (intent.BudgetIntent, error) {
	body, err := c.complete(ctx, DomainBudget, req)
	if err != nil {
		return intent.BudgetIntent{}, err
	}
	return decodeBudget(body)
}

func (c *Client) Category(ctx context.Context, req intent.Request) (intent.CategoryIntent, error) {
	body, err := c.complete(ctx, DomainCategory, req)
	if err != nil {
		return intent.CategoryIntent{}, err
	}
	return decodeCategory(body)
}

func (c *Client) Savings(ctx context.Context, req intent.Request) (intent.SavingsIntent, error) {
	body, err := c.complete(ctx, DomainSavings, req)
	if err != nil {
		return intent.SavingsIntent{}, err
	}
	return decodeSavings(body, req.Context)
}
