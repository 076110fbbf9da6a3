package budgets

import (
	"context"
	"testing"
	"time"

	"fintrack-go/internal/domain/analytics"
	"fintrack-go/internal/domain/categories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

type fakeRepo struct {
	budgets map[string]*Budget
	writes  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{budgets: make(map[string]*Budget)}
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) ListBudgets(ctx context.Context, userID string) ([]Budget, error) {
	var items []Budget
	for _, b := range r.budgets {
		if b.UserID == userID {
			items = append(items, *b)
		}
	}
	return items, nil
}

func (r *fakeRepo) GetBudgetByCategoryID(ctx context.Context, userID, categoryID string) (*Budget, error) {
	for _, b := range r.budgets {
		if b.UserID == userID && b.CategoryID == categoryID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, ErrBudgetNotFound
}

func (r *fakeRepo) CreateBudget(ctx context.Context, budget *Budget) error {
	r.writes++
	copied := *budget
	r.budgets[budget.ID] = &copied
	return nil
}

func (r *fakeRepo) UpdateBudget(ctx context.Context, budget *Budget) error {
	r.writes++
	copied := *budget
	r.budgets[budget.ID] = &copied
	return nil
}

func (r *fakeRepo) DeleteBudget(ctx context.Context, userID, budgetID string) (bool, error) {
	b, ok := r.budgets[budgetID]
	if !ok || b.UserID != userID {
		return false, nil
	}
	delete(r.budgets, budgetID)
	return true, nil
}

type fakeLedger struct {
	spent    decimal.Decimal
	lastFrom time.Time
	lastTo   time.Time
}

func (l *fakeLedger) Spent(ctx context.Context, userID, categoryID string, from, to time.Time) (decimal.Decimal, error) {
	l.lastFrom, l.lastTo = from, to
	return l.spent, nil
}

type fakePatterns struct {
	patterns []analytics.SpendingPattern
	calls    int
}

func (p *fakePatterns) SpendingPatterns(ctx context.Context, userID, categoryID string, months int, loc *time.Location) ([]analytics.SpendingPattern, error) {
	p.calls++
	return p.patterns, nil
}

var food = categories.Category{ID: "food", UserID: testUserID, Name: "Food & Drink", Kind: categories.KindExpense}

func newTestService(ledger *fakeLedger, patterns *fakePatterns, now time.Time) (*Service, *fakeRepo) {
	repo := newFakeRepo()
	svc := NewService(repo, ledger, patterns)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func amount(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestTierForThresholds(t *testing.T) {
	limit := amount(1000)
	cases := []struct {
		spent int64
		want  Tier
	}{
		{0, TierSilent},
		{500, TierSilent},
		{599, TierSilent},
		{600, TierInfo},
		{650, TierInfo},
		{800, TierDanger},
		{850, TierDanger},
		{999, TierDanger},
		{1000, TierExceeded},
		{1200, TierExceeded},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TierFor(amount(c.spent), limit), "spent %d", c.spent)
		// pure: a second evaluation agrees
		assert.Equal(t, TierFor(amount(c.spent), limit), TierFor(amount(c.spent), limit))
	}
}

func TestWindow(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	wednesday := time.Date(2026, 3, 11, 15, 0, 0, 0, loc)

	start, end := Window(PeriodWeekly, wednesday)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, loc), end)

	sunday := time.Date(2026, 3, 15, 23, 0, 0, 0, loc)
	start, _ = Window(PeriodWeekly, sunday)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, loc), start)

	start, end = Window(PeriodMonthly, wednesday)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, loc), end)
}

func TestUpsertUpdatesInsteadOfDuplicating(t *testing.T) {
	now := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)
	svc, repo := newTestService(&fakeLedger{}, &fakePatterns{}, now)
	ctx := context.Background()

	first, created, err := svc.Upsert(ctx, UpsertInput{UserID: testUserID, Category: food, Amount: amount(1_000_000)})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, PeriodMonthly, first.Period)

	second, created, err := svc.Upsert(ctx, UpsertInput{UserID: testUserID, Category: food, Amount: amount(500_000), Period: PeriodWeekly})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.budgets, 1)
	assert.True(t, repo.budgets[first.ID].Amount.Equal(amount(500_000)))
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), repo.budgets[first.ID].StartAt)
}

func TestUpsertValidation(t *testing.T) {
	svc, _ := newTestService(&fakeLedger{}, &fakePatterns{}, time.Now())
	ctx := context.Background()

	_, _, err := svc.Upsert(ctx, UpsertInput{UserID: testUserID, Category: food, Amount: decimal.Zero})
	require.ErrorIs(t, err, ErrAmountNotPositive)

	_, _, err = svc.Upsert(ctx, UpsertInput{UserID: testUserID, Category: food, Amount: amount(10), Period: "daily"})
	require.ErrorIs(t, err, ErrInvalidPeriod)

	salary := categories.Category{ID: "salary", Name: "Salary", Kind: categories.KindIncome}
	_, _, err = svc.Upsert(ctx, UpsertInput{UserID: testUserID, Category: salary, Amount: amount(10)})
	require.ErrorIs(t, err, ErrIncomeCategory)
}

func TestCheckIsReadOnlyAndRecomputed(t *testing.T) {
	now := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)
	ledger := &fakeLedger{spent: amount(850_000)}
	svc, repo := newTestService(ledger, &fakePatterns{}, now)
	ctx := context.Background()

	_, _, err := svc.Upsert(ctx, UpsertInput{UserID: testUserID, Category: food, Amount: amount(1_000_000)})
	require.NoError(t, err)
	writes := repo.writes

	for i := 0; i < 2; i++ {
		status, err := svc.Check(ctx, testUserID, food, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, TierDanger, status.Tier)
		assert.True(t, status.Percentage.Equal(decimal.NewFromInt(85)))
		assert.True(t, status.Remaining.Equal(amount(150_000)))
	}
	assert.Equal(t, writes, repo.writes)

	ledger.spent = amount(1_200_000)
	status, err := svc.Check(ctx, testUserID, food, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, TierExceeded, status.Tier)
	assert.True(t, status.Remaining.IsZero())
}

func TestCheckUsesCurrentWindowWhenStoredOneExpired(t *testing.T) {
	created := time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC)
	ledger := &fakeLedger{spent: amount(10)}
	svc, _ := newTestService(ledger, &fakePatterns{}, created)
	ctx := context.Background()

	_, _, err := svc.Upsert(ctx, UpsertInput{UserID: testUserID, Category: food, Amount: amount(100)})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC) }
	status, err := svc.Check(ctx, testUserID, food, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), ledger.lastFrom)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), status.WindowEnd)
}

func TestAdviseAlertAndRecommendationAreExclusive(t *testing.T) {
	now := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)
	patterns := &fakePatterns{patterns: []analytics.SpendingPattern{
		{CategoryID: food.ID, MonthlyAverage: amount(1_000_000), Trend: analytics.TrendStable, Volatility: 0.1},
	}}
	svc, _ := newTestService(&fakeLedger{spent: amount(100)}, patterns, now)
	ctx := context.Background()

	advice, err := svc.Advise(ctx, testUserID, food, time.UTC)
	require.NoError(t, err)
	require.NotNil(t, advice.Recommendation)
	assert.Nil(t, advice.Alert)
	assert.True(t, advice.Recommendation.Amount.Equal(amount(1_100_000)))
	assert.Equal(t, 90, advice.Recommendation.Confidence)

	_, _, err = svc.Upsert(ctx, UpsertInput{UserID: testUserID, Category: food, Amount: amount(1_000)})
	require.NoError(t, err)
	calls := patterns.calls

	advice, err = svc.Advise(ctx, testUserID, food, time.UTC)
	require.NoError(t, err)
	require.NotNil(t, advice.Alert)
	assert.Nil(t, advice.Recommendation)
	assert.Equal(t, calls, patterns.calls)
}

func TestAdviseWithoutHistoryIsEmpty(t *testing.T) {
	svc, _ := newTestService(&fakeLedger{}, &fakePatterns{}, time.Now())

	advice, err := svc.Advise(context.Background(), testUserID, food, time.UTC)
	require.NoError(t, err)
	assert.Nil(t, advice.Alert)
	assert.Nil(t, advice.Recommendation)
}

func TestRecommendationMultipliers(t *testing.T) {
	cases := []struct {
		trend analytics.Trend
		want  string
	}{
		{analytics.TrendStable, "110"},
		{analytics.TrendIncreasing, "115"},
		{analytics.TrendDecreasing, "95"},
	}
	for _, c := range cases {
		patterns := &fakePatterns{patterns: []analytics.SpendingPattern{
			{CategoryID: food.ID, MonthlyAverage: amount(100), Trend: c.trend},
		}}
		svc, _ := newTestService(&fakeLedger{}, patterns, time.Now())

		rec, err := svc.Recommend(context.Background(), testUserID, food, time.UTC)
		require.NoError(t, err)
		assert.True(t, rec.Amount.Equal(decimal.RequireFromString(c.want)), "%s: %s", c.trend, rec.Amount)
	}
}

func TestRecommendationConfidenceBounds(t *testing.T) {
	assert.Equal(t, 95, RecommendationConfidence(0))
	assert.Equal(t, 80, RecommendationConfidence(0.2))
	assert.Equal(t, 60, RecommendationConfidence(0.9))
	assert.Equal(t, 60, RecommendationConfidence(3))
}

func TestDeleteMissingBudget(t *testing.T) {
	svc, _ := newTestService(&fakeLedger{}, &fakePatterns{}, time.Now())

	_, err := svc.Delete(context.Background(), testUserID, food.ID)
	require.ErrorIs(t, err, ErrBudgetNotFound)
}
