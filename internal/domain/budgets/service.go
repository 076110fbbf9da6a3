package budgets

import (
	"context"
	"errors"
	"math"
	"time"

	"fintrack-go/internal/domain/analytics"
	"fintrack-go/internal/domain/categories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const recommendationMonths = 6

var (
	stableMultiplier     = decimal.RequireFromString("1.10")
	increasingMultiplier = decimal.RequireFromString("1.15")
	decreasingMultiplier = decimal.RequireFromString("0.95")
)

type Ledger interface {
	Spent(ctx context.Context, userID, categoryID string, from, to time.Time) (decimal.Decimal, error)
}

type PatternSource interface {
	SpendingPatterns(ctx context.Context, userID, categoryID string, months int, loc *time.Location) ([]analytics.SpendingPattern, error)
}

type Service struct {
	repo     Repository
	ledger   Ledger
	patterns PatternSource
	now      func() time.Time
}

func NewService(repo Repository, ledger Ledger, patterns PatternSource) *Service {
	return &Service{repo: repo, ledger: ledger, patterns: patterns, now: time.Now}
}

// Upsert creates the budget for the category or updates the existing one.
// The window is recomputed either way.
func (s *Service) Upsert(ctx context.Context, input UpsertInput) (*Budget, bool, error) {
	if !input.Amount.IsPositive() {
		return nil, false, ErrAmountNotPositive
	}
	period := input.Period
	if period == "" {
		period = PeriodMonthly
	}
	if !period.Valid() {
		return nil, false, ErrInvalidPeriod
	}
	if input.Category.Kind == categories.KindIncome {
		return nil, false, ErrIncomeCategory
	}

	start, end := Window(period, s.now().In(location(input.Location)))

	var (
		result  Budget
		created bool
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.GetBudgetByCategoryID(ctx, input.UserID, input.Category.ID)
		switch {
		case errors.Is(err, ErrBudgetNotFound):
			result = Budget{
				ID:         uuid.NewString(),
				UserID:     input.UserID,
				CategoryID: input.Category.ID,
				Amount:     input.Amount.Round(2),
				Period:     period,
				StartAt:    start.UTC(),
				EndAt:      end.UTC(),
			}
			created = true
			return tx.CreateBudget(ctx, &result)
		case err != nil:
			return err
		}

		existing.Amount = input.Amount.Round(2)
		existing.Period = period
		existing.StartAt = start.UTC()
		existing.EndAt = end.UTC()
		if err := tx.UpdateBudget(ctx, existing); err != nil {
			return err
		}
		result = *existing
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &result, created, nil
}

func (s *Service) Delete(ctx context.Context, userID, categoryID string) (*Budget, error) {
	var deleted Budget
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		budget, err := tx.GetBudgetByCategoryID(ctx, userID, categoryID)
		if err != nil {
			return err
		}
		ok, err := tx.DeleteBudget(ctx, userID, budget.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBudgetNotFound
		}
		deleted = *budget
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// Check recomputes spending from the ledger. It never writes.
func (s *Service) Check(ctx context.Context, userID string, category categories.Category, loc *time.Location) (Status, error) {
	budget, err := s.repo.GetBudgetByCategoryID(ctx, userID, category.ID)
	if err != nil {
		return Status{}, err
	}
	return s.status(ctx, *budget, category.Name, loc)
}

// List reports every budget of the user. names maps category ids to display
// names.
func (s *Service) List(ctx context.Context, userID string, names map[string]string, loc *time.Location) ([]Status, error) {
	items, err := s.repo.ListBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]Status, 0, len(items))
	for _, budget := range items {
		status, err := s.status(ctx, budget, names[budget.CategoryID], loc)
		if err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, nil
}

// Advise runs after an expense is committed: alert check when the category has
// a budget, recommendation otherwise.
func (s *Service) Advise(ctx context.Context, userID string, category categories.Category, loc *time.Location) (Advice, error) {
	status, err := s.Check(ctx, userID, category, loc)
	if err == nil {
		return Advice{Alert: &status}, nil
	}
	if !errors.Is(err, ErrBudgetNotFound) {
		return Advice{}, err
	}

	recommendation, err := s.Recommend(ctx, userID, category, loc)
	if err != nil {
		if errors.Is(err, ErrNoSpendingHistory) {
			return Advice{}, nil
		}
		return Advice{}, err
	}
	return Advice{Recommendation: recommendation}, nil
}

// Recommend derives a monthly budget from the trailing six months of the
// category: the average nudged by trend, with a confidence that drops as
// spending gets more volatile.
func (s *Service) Recommend(ctx context.Context, userID string, category categories.Category, loc *time.Location) (*Recommendation, error) {
	patterns, err := s.patterns.SpendingPatterns(ctx, userID, category.ID, recommendationMonths, location(loc))
	if err != nil {
		return nil, err
	}

	for _, p := range patterns {
		if p.CategoryID != category.ID {
			continue
		}
		return &Recommendation{
			CategoryID:     category.ID,
			CategoryName:   category.Name,
			Amount:         p.MonthlyAverage.Mul(multiplier(p.Trend)).Round(2),
			Period:         PeriodMonthly,
			MonthlyAverage: p.MonthlyAverage,
			Trend:          p.Trend,
			Confidence:     RecommendationConfidence(p.Volatility),
		}, nil
	}
	return nil, ErrNoSpendingHistory
}

func RecommendationConfidence(volatility float64) int {
	score := int(math.Round(100 - volatility*100))
	return max(60, min(95, score))
}

func multiplier(trend analytics.Trend) decimal.Decimal {
	switch trend {
	case analytics.TrendIncreasing:
		return increasingMultiplier
	case analytics.TrendDecreasing:
		return decreasingMultiplier
	}
	return stableMultiplier
}

func (s *Service) status(ctx context.Context, budget Budget, categoryName string, loc *time.Location) (Status, error) {
	now := s.now()
	start, end := budget.StartAt, budget.EndAt
	if now.Before(start) || !now.Before(end) {
		start, end = Window(budget.Period, now.In(location(loc)))
	}

	spent, err := s.ledger.Spent(ctx, budget.UserID, budget.CategoryID, start, end)
	if err != nil {
		return Status{}, err
	}

	remaining := budget.Amount.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return Status{
		Budget:       budget,
		CategoryID:   budget.CategoryID,
		CategoryName: categoryName,
		Amount:       budget.Amount,
		Period:       budget.Period,
		Spent:        spent,
		Remaining:    remaining,
		Percentage:   Percentage(spent, budget.Amount),
		Tier:         TierFor(spent, budget.Amount),
		WindowStart:  start,
		WindowEnd:    end,
	}, nil
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
