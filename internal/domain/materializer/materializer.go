// Package materializer turns an accepted TransactionIntent into a ledger
// entry: date resolution, category resolution, persistence and the
// post-expense budget check.
package materializer

import (
	"context"
	"time"

	"fintrack-go/internal/domain/budgets"
	"fintrack-go/internal/domain/categories"
	"fintrack-go/internal/domain/dates"
	"fintrack-go/internal/domain/intent"
	"fintrack-go/internal/domain/transactions"
	"fintrack-go/pkg/logger"
)

type CategoryResolver interface {
	Resolve(ctx context.Context, input categories.ResolveInput) (categories.Resolution, error)
}

type Recorder interface {
	Record(ctx context.Context, input transactions.RecordInput) (*transactions.Transaction, error)
}

type Advisor interface {
	Advise(ctx context.Context, userID string, category categories.Category, loc *time.Location) (budgets.Advice, error)
}

type Request struct {
	UserID         string
	Intent         intent.TransactionIntent
	Channel        intent.Channel
	RawText        string
	Currency       string
	Locale         dates.Locale
	AutoCategorize bool
	Location       *time.Location
}

type Outcome struct {
	Transaction     transactions.Transaction
	Category        categories.Category
	CategoryCreated bool
	Fallback        bool
	Advice          budgets.Advice
}

type ItemOutcome struct {
	Intent  intent.TransactionIntent
	Outcome *Outcome
	Err     error
}

type Service struct {
	categories CategoryResolver
	ledger     Recorder
	advisor    Advisor
	log        logger.Logger
	now        func() time.Time
}

func NewService(categories CategoryResolver, ledger Recorder, advisor Advisor, log logger.Logger) *Service {
	return &Service{categories: categories, ledger: ledger, advisor: advisor, log: log, now: time.Now}
}

// Materialize applies the channel threshold, persists exactly one transaction
// and, for expenses, attaches budget advice. Advice runs after the write and
// its failure never undoes the transaction.
func (s *Service) Materialize(ctx context.Context, req Request) (*Outcome, error) {
	if err := req.Intent.Accept(req.Channel); err != nil {
		return nil, err
	}

	resolution, err := s.categories.Resolve(ctx, categories.ResolveInput{
		UserID:         req.UserID,
		Name:           req.Intent.CategoryName,
		Kind:           req.Intent.Kind,
		AutoCategorize: req.AutoCategorize,
		Suggested:      suggestion(req.Intent.SuggestedNewCategory),
	})
	if err != nil {
		return nil, err
	}
	category := *resolution.Category

	kind := req.Intent.Kind
	currency := req.Intent.Currency
	if currency == "" {
		currency = req.Currency
	}

	transaction, err := s.ledger.Record(ctx, transactions.RecordInput{
		UserID:      req.UserID,
		CategoryID:  category.ID,
		Amount:      req.Intent.Amount,
		Currency:    currency,
		Description: description(req.Intent, category),
		Kind:        kind,
		OccurredAt:  s.occurredAt(req),
		AIGenerated: true,
	})
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Transaction:     *transaction,
		Category:        category,
		CategoryCreated: resolution.Created,
		Fallback:        resolution.Fallback,
	}
	if kind != categories.KindExpense {
		return outcome, nil
	}

	advice, err := s.advisor.Advise(ctx, req.UserID, category, req.Location)
	if err != nil {
		s.log.InternalError("materializer.advise: budget check failed", err,
			"user_id", req.UserID, "category_id", category.ID, "transaction_id", transaction.ID)
		return outcome, nil
	}
	outcome.Advice = advice
	return outcome, nil
}

// MaterializeReceipt handles each line item on its own; a rejected item does
// not stop the others.
func (s *Service) MaterializeReceipt(ctx context.Context, req Request, items []intent.TransactionIntent) []ItemOutcome {
	results := make([]ItemOutcome, 0, len(items))
	for _, item := range items {
		itemReq := req
		itemReq.Intent = item
		itemReq.Channel = intent.ChannelImage
		outcome, err := s.Materialize(ctx, itemReq)
		results = append(results, ItemOutcome{Intent: item, Outcome: outcome, Err: err})
	}
	return results
}

// occurredAt prefers the date the service extracted, then a date phrase in
// the raw text. A zero result lets the ledger stamp the current time.
func (s *Service) occurredAt(req Request) time.Time {
	if req.Intent.OccurredAt != nil && !req.Intent.OccurredAt.IsZero() {
		return *req.Intent.OccurredAt
	}
	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}
	if t, ok := dates.Resolve(req.RawText, req.Locale, s.now().In(loc)); ok {
		return t
	}
	return time.Time{}
}

func suggestion(sg *intent.SuggestedCategory) *categories.Suggestion {
	if sg == nil {
		return nil
	}
	out := &categories.Suggestion{Name: sg.Name, Kind: sg.Kind}
	if sg.Icon != "" {
		icon := sg.Icon
		out.Icon = &icon
	}
	if sg.Color != "" {
		color := sg.Color
		out.Color = &color
	}
	return out
}

func description(ti intent.TransactionIntent, category categories.Category) string {
	if ti.Description != "" {
		return ti.Description
	}
	return category.Name
}
