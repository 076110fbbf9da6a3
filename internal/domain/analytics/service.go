package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultPatternMonths = 6

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Summary(ctx context.Context, userID string, from, to time.Time) (SummaryResult, error) {
	result, err := s.repo.Summary(ctx, userID, SummaryFilter{From: &from, To: &to})
	if err != nil {
		return SummaryResult{}, err
	}
	return finishSummary(result, daysBetween(from, to)), nil
}

func (s *Service) ByCategory(ctx context.Context, userID string, filter ByCategoryFilter) ([]ByCategoryRow, error) {
	return s.repo.ByCategory(ctx, userID, filter)
}

// SpendingPatterns analyzes the trailing months (current month included) in
// loc. An empty categoryID covers every category.
func (s *Service) SpendingPatterns(ctx context.Context, userID, categoryID string, months int, loc *time.Location) ([]SpendingPattern, error) {
	if loc == nil {
		loc = time.UTC
	}
	from, to := MonthWindow(s.now().In(loc), months)

	rows, err := s.repo.MonthlyByCategory(ctx, userID, MonthlyFilter{
		From:       from,
		To:         to,
		CategoryID: categoryID,
		Timezone:   loc.String(),
	})
	if err != nil {
		return nil, err
	}
	return AnalyzePatterns(rows, MonthKeys(from, to)), nil
}

func (s *Service) Score(ctx context.Context, userID string) (Score, error) {
	w, err := s.trailing(ctx, userID)
	if err != nil {
		return Score{}, err
	}
	return ComputeScore(ScoreInput{
		Income:         w.current.Income,
		Expense:        w.current.Expense,
		Balance:        w.balance,
		IncomeCount:    w.current.IncomeCount,
		RecentActivity: w.current.IncomeCount+w.current.ExpenseCount > 0,
	}), nil
}

func (s *Service) CashFlow(ctx context.Context, userID string) (CashFlow, error) {
	w, err := s.trailing(ctx, userID)
	if err != nil {
		return CashFlow{}, err
	}
	return ProjectCashFlow(CashFlowInput{
		Income:          w.current.Income,
		Expense:         w.current.Expense,
		PreviousIncome:  w.previous.Income,
		PreviousExpense: w.previous.Expense,
		Balance:         w.balance,
	}), nil
}

type trailingWindows struct {
	current  SummaryResult
	previous SummaryResult
	balance  decimal.Decimal
}

func (s *Service) trailing(ctx context.Context, userID string) (trailingWindows, error) {
	now := s.now()
	start := now.AddDate(0, 0, -trailingDays)
	prevStart := start.AddDate(0, 0, -trailingDays)

	current, err := s.repo.Summary(ctx, userID, SummaryFilter{From: &start, To: &now})
	if err != nil {
		return trailingWindows{}, err
	}
	previous, err := s.repo.Summary(ctx, userID, SummaryFilter{From: &prevStart, To: &start})
	if err != nil {
		return trailingWindows{}, err
	}
	all, err := s.repo.Summary(ctx, userID, SummaryFilter{})
	if err != nil {
		return trailingWindows{}, err
	}

	return trailingWindows{
		current:  current,
		previous: previous,
		balance:  all.Income.Sub(all.Expense),
	}, nil
}

func finishSummary(result SummaryResult, days int) SummaryResult {
	result.Net = result.Income.Sub(result.Expense)
	result.AvgPerDay = decimal.Zero
	if days > 0 {
		result.AvgPerDay = result.Expense.Div(decimal.NewFromInt(int64(days))).Round(2)
	}
	return result
}

func daysBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	days := int(to.Sub(from).Hours() / 24)
	if to.Sub(from) > time.Duration(days)*24*time.Hour {
		days++
	}
	return days
}
