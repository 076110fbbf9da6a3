package goals

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"fintrack-go/internal/domain/apperror"
	"fintrack-go/internal/domain/categories"
	"fintrack-go/internal/domain/transactions"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

type fakeRepo struct {
	goals        map[string]Goal
	boosts       []Boost
	transactions []transactions.Transaction
	plans        map[string]SavingsPlan
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{goals: make(map[string]Goal), plans: make(map[string]SavingsPlan)}
}

// Transaction restores the previous state when fn fails.
func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	goals := make(map[string]Goal, len(r.goals))
	for k, v := range r.goals {
		goals[k] = v
	}
	plans := make(map[string]SavingsPlan, len(r.plans))
	for k, v := range r.plans {
		plans[k] = v
	}
	boosts := len(r.boosts)
	txs := len(r.transactions)

	if err := fn(r); err != nil {
		r.goals, r.plans = goals, plans
		r.boosts = r.boosts[:boosts]
		r.transactions = r.transactions[:txs]
		return err
	}
	return nil
}

func (r *fakeRepo) ListGoals(ctx context.Context, userID string) ([]Goal, error) {
	var items []Goal
	for _, g := range r.goals {
		if g.UserID == userID {
			items = append(items, g)
		}
	}
	return items, nil
}

func (r *fakeRepo) GetGoalForUpdate(ctx context.Context, userID, goalID string) (*Goal, error) {
	g, ok := r.goals[goalID]
	if !ok || g.UserID != userID {
		return nil, ErrGoalNotFound
	}
	return &g, nil
}

func (r *fakeRepo) CreateGoal(ctx context.Context, goal *Goal) error {
	goal.CreatedAt = time.Now()
	r.goals[goal.ID] = *goal
	return nil
}

func (r *fakeRepo) UpdateGoal(ctx context.Context, goal *Goal) error {
	r.goals[goal.ID] = *goal
	return nil
}

func (r *fakeRepo) DeleteGoal(ctx context.Context, userID, goalID string) (bool, error) {
	g, ok := r.goals[goalID]
	if !ok || g.UserID != userID {
		return false, nil
	}
	delete(r.goals, goalID)
	return true, nil
}

func (r *fakeRepo) CreateBoost(ctx context.Context, boost *Boost) error {
	r.boosts = append(r.boosts, *boost)
	return nil
}

func (r *fakeRepo) CreateTransaction(ctx context.Context, transaction *transactions.Transaction) error {
	r.transactions = append(r.transactions, *transaction)
	return nil
}

func (r *fakeRepo) GetActivePlan(ctx context.Context, userID, goalID string) (*SavingsPlan, error) {
	for _, p := range r.plans {
		if p.UserID == userID && p.GoalID == goalID && p.IsActive {
			return &p, nil
		}
	}
	return nil, ErrPlanNotFound
}

func (r *fakeRepo) DeactivatePlans(ctx context.Context, userID, goalID string) error {
	for id, p := range r.plans {
		if p.UserID == userID && p.GoalID == goalID {
			p.IsActive = false
			r.plans[id] = p
		}
	}
	return nil
}

func (r *fakeRepo) CreatePlan(ctx context.Context, plan *SavingsPlan) error {
	r.plans[plan.ID] = *plan
	return nil
}

// balance derives the main balance from the ledger the fake has recorded,
// starting from an opening income.
func (r *fakeRepo) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	total := opening
	for _, t := range r.transactions {
		total = total.Add(t.Signed())
	}
	return total, nil
}

var opening = decimal.NewFromInt(50_000_000)

type fakeReserved struct {
	requested []categories.Reserved
}

func (f *fakeReserved) Reserved(ctx context.Context, userID string, reserved categories.Reserved) (*categories.Category, error) {
	f.requested = append(f.requested, reserved)
	switch reserved {
	case categories.ReservedSavings:
		return &categories.Category{ID: "savings", Name: categories.SavingsName, Kind: categories.KindExpense}, nil
	default:
		return &categories.Category{ID: "refund", Name: categories.GoalRefundName, Kind: categories.KindIncome}, nil
	}
}

func idr(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeReserved{}, repo)
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC) }
	return svc, repo
}

func seedGoal(t *testing.T, svc *Service, repo *fakeRepo, name string, target, current int64) Goal {
	t.Helper()
	goal, err := svc.Create(context.Background(), CreateInput{UserID: testUserID, Name: name, Target: idr(target)})
	require.NoError(t, err)
	goal.CurrentAmount = idr(current)
	repo.goals[goal.ID] = *goal
	return *goal
}

func totalWorth(t *testing.T, svc *Service, repo *fakeRepo) decimal.Decimal {
	t.Helper()
	report, err := svc.CheckBalance(context.Background(), testUserID)
	require.NoError(t, err)
	return report.MainBalance.Add(report.TotalSaved)
}

func TestBoostReachingTargetArchives(t *testing.T) {
	svc, repo := newTestService()
	goal := seedGoal(t, svc, repo, "Emergency Fund", 10_000_000, 9_800_000)

	result, err := svc.Boost(context.Background(), BoostInput{
		UserID: testUserID, GoalName: "emergency fund", Amount: idr(200_000), Currency: "IDR",
	})
	require.NoError(t, err)

	assert.True(t, result.Archived)
	assert.False(t, repo.goals[goal.ID].IsActive)
	assert.True(t, repo.goals[goal.ID].CurrentAmount.Equal(idr(10_000_000)))
	require.Len(t, repo.transactions, 1)
	assert.True(t, repo.transactions[0].Amount.Equal(idr(200_000)))
	assert.Equal(t, categories.KindExpense, repo.transactions[0].Kind)
	assert.Equal(t, "savings", repo.transactions[0].CategoryID)
	require.Len(t, repo.boosts, 1)
	assert.Equal(t, repo.transactions[0].ID, repo.boosts[0].TransactionID)
}

func TestBoostOvershootMirrorsAppliedAmount(t *testing.T) {
	svc, repo := newTestService()
	goal := seedGoal(t, svc, repo, "Laptop", 1_000_000, 900_000)

	result, err := svc.Boost(context.Background(), BoostInput{
		UserID: testUserID, GoalName: "Laptop", Amount: idr(350_000), Currency: "IDR",
	})
	require.NoError(t, err)

	assert.True(t, result.Requested.Equal(idr(350_000)))
	assert.True(t, result.Applied.Equal(idr(100_000)))
	assert.True(t, repo.transactions[0].Amount.Equal(idr(100_000)))
	assert.True(t, repo.goals[goal.ID].CurrentAmount.Equal(repo.goals[goal.ID].TargetAmount))
}

func TestBoostNeverExceedsTarget(t *testing.T) {
	svc, repo := newTestService()
	goal := seedGoal(t, svc, repo, "Bike", 3_000_000, 0)
	rng := rand.New(rand.NewSource(7))
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		_, err := svc.Boost(ctx, BoostInput{
			UserID: testUserID, GoalName: "Bike", Amount: idr(rng.Int63n(400_000) + 1), Currency: "IDR",
		})
		if err != nil {
			require.ErrorIs(t, err, ErrGoalArchived)
			break
		}
		current := repo.goals[goal.ID]
		assert.True(t, current.CurrentAmount.LessThanOrEqual(current.TargetAmount))
	}

	mirrored := decimal.Zero
	for _, tx := range repo.transactions {
		mirrored = mirrored.Add(tx.Amount)
	}
	assert.True(t, mirrored.Equal(repo.goals[goal.ID].CurrentAmount), "mirrored %s current %s", mirrored, repo.goals[goal.ID].CurrentAmount)
}

func TestArchivedGoalRejectsBoostAndTransfer(t *testing.T) {
	svc, repo := newTestService()
	seedGoal(t, svc, repo, "Phone", 100, 0)
	seedGoal(t, svc, repo, "Trip", 1_000, 500)
	ctx := context.Background()

	_, err := svc.Boost(ctx, BoostInput{UserID: testUserID, GoalName: "Phone", Amount: idr(100), Currency: "IDR"})
	require.NoError(t, err)

	_, err = svc.Boost(ctx, BoostInput{UserID: testUserID, GoalName: "Phone", Amount: idr(1), Currency: "IDR"})
	require.ErrorIs(t, err, ErrGoalArchived)

	_, err = svc.Transfer(ctx, TransferInput{UserID: testUserID, From: "Trip", To: "Phone", Amount: idr(10)})
	require.ErrorIs(t, err, ErrGoalArchived)

	active, err := svc.List(ctx, testUserID, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Trip", active[0].Name)
}

func TestTransferClampsAndKeepsRemainderInSource(t *testing.T) {
	svc, repo := newTestService()
	src := seedGoal(t, svc, repo, "Vacation", 5_000_000, 2_000_000)
	dst := seedGoal(t, svc, repo, "Laptop", 1_000_000, 700_000)

	result, err := svc.Transfer(context.Background(), TransferInput{UserID: testUserID, From: "Vacation", To: "Laptop", Amount: idr(500_000)})
	require.NoError(t, err)

	assert.True(t, result.Applied.Equal(idr(300_000)))
	assert.True(t, result.Remainder.Equal(idr(200_000)))
	assert.True(t, result.Archived)
	assert.True(t, repo.goals[src.ID].CurrentAmount.Equal(idr(1_700_000)))
	assert.True(t, repo.goals[dst.ID].CurrentAmount.Equal(idr(1_000_000)))
	assert.Empty(t, repo.transactions)
}

func TestTransferInsufficientFunds(t *testing.T) {
	svc, repo := newTestService()
	src := seedGoal(t, svc, repo, "Vacation", 5_000_000, 100_000)
	seedGoal(t, svc, repo, "Laptop", 1_000_000, 0)

	_, err := svc.Transfer(context.Background(), TransferInput{UserID: testUserID, From: "Vacation", To: "Laptop", Amount: idr(200_000)})
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, apperror.KindInsufficientFunds, apperror.KindOf(err))
	assert.True(t, repo.goals[src.ID].CurrentAmount.Equal(idr(100_000)))
}

func TestTransferSequencesConserveFunds(t *testing.T) {
	svc, repo := newTestService()
	a := seedGoal(t, svc, repo, "A", 10_000_000, 4_000_000)
	b := seedGoal(t, svc, repo, "B", 10_000_000, 3_000_000)
	rng := rand.New(rand.NewSource(42))
	ctx := context.Background()

	before := repo.goals[a.ID].CurrentAmount.Add(repo.goals[b.ID].CurrentAmount)
	for i := 0; i < 40; i++ {
		from, to := "A", "B"
		if rng.Intn(2) == 0 {
			from, to = to, from
		}
		_, err := svc.Transfer(ctx, TransferInput{UserID: testUserID, From: from, To: to, Amount: idr(rng.Int63n(2_000_000) + 1)})
		if err != nil {
			assert.True(t, apperror.IsKind(err, apperror.KindInsufficientFunds) || apperror.IsKind(err, apperror.KindValidation), err.Error())
		}
		after := repo.goals[a.ID].CurrentAmount.Add(repo.goals[b.ID].CurrentAmount)
		require.True(t, before.Equal(after), "step %d: before %s after %s", i, before, after)
	}
}

func TestReturnFundsClampsToCurrent(t *testing.T) {
	svc, repo := newTestService()
	goal := seedGoal(t, svc, repo, "Vacation", 5_000_000, 300_000)
	ctx := context.Background()

	requested := idr(1_000_000)
	result, err := svc.ReturnFunds(ctx, ReturnInput{UserID: testUserID, GoalName: "Vacation", Amount: &requested, Currency: "IDR"})
	require.NoError(t, err)
	assert.True(t, result.Returned.Equal(idr(300_000)))
	assert.True(t, repo.goals[goal.ID].CurrentAmount.IsZero())
	require.Len(t, repo.transactions, 1)
	assert.Equal(t, categories.KindIncome, repo.transactions[0].Kind)
	assert.Equal(t, "refund", repo.transactions[0].CategoryID)

	_, err = svc.ReturnFunds(ctx, ReturnInput{UserID: testUserID, GoalName: "Vacation", Currency: "IDR"})
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestLedgerOperationsConserveTotalWorth(t *testing.T) {
	svc, repo := newTestService()
	seedGoal(t, svc, repo, "A", 2_000_000, 0)
	seedGoal(t, svc, repo, "B", 1_000_000, 0)
	ctx := context.Background()

	start := totalWorth(t, svc, repo)

	_, err := svc.Boost(ctx, BoostInput{UserID: testUserID, GoalName: "A", Amount: idr(1_500_000), Currency: "IDR"})
	require.NoError(t, err)
	_, err = svc.Boost(ctx, BoostInput{UserID: testUserID, GoalName: "B", Amount: idr(3_000_000), Currency: "IDR"})
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, TransferInput{UserID: testUserID, From: "A", To: "B", Amount: idr(100_000)})
	require.ErrorIs(t, err, ErrGoalArchived)
	half := idr(700_000)
	_, err = svc.ReturnFunds(ctx, ReturnInput{UserID: testUserID, GoalName: "A", Amount: &half, Currency: "IDR"})
	require.NoError(t, err)

	assert.True(t, start.Equal(totalWorth(t, svc, repo)))
}

func TestDeleteRefusedWhileAnotherGoalHasHeadroom(t *testing.T) {
	svc, repo := newTestService()
	vacation := seedGoal(t, svc, repo, "Vacation", 5_000_000, 500_000)
	seedGoal(t, svc, repo, "Laptop", 10_000_000, 1_000_000)

	_, err := svc.Delete(context.Background(), DeleteInput{UserID: testUserID, GoalName: "Vacation", Currency: "IDR"})
	require.ErrorIs(t, err, ErrGoalHasFunds)
	assert.Equal(t, []string{"Laptop"}, apperror.SuggestionsOf(err))

	stored, ok := repo.goals[vacation.ID]
	require.True(t, ok)
	assert.True(t, stored.CurrentAmount.Equal(idr(500_000)))
	assert.Empty(t, repo.transactions)
}

func TestDeleteAutoReturnsWhenNoOtherGoalCanReceive(t *testing.T) {
	svc, repo := newTestService()
	vacation := seedGoal(t, svc, repo, "Vacation", 5_000_000, 500_000)
	full := seedGoal(t, svc, repo, "Done", 100, 100)
	full.IsActive = false
	repo.goals[full.ID] = full

	result, err := svc.Delete(context.Background(), DeleteInput{UserID: testUserID, GoalName: "vacation", Currency: "IDR"})
	require.NoError(t, err)
	assert.True(t, result.Returned.Equal(idr(500_000)))
	require.NotNil(t, result.Transaction)
	assert.Equal(t, categories.KindIncome, result.Transaction.Kind)
	_, ok := repo.goals[vacation.ID]
	assert.False(t, ok)
}

func TestDeleteEmptyGoalImmediately(t *testing.T) {
	svc, repo := newTestService()
	goal := seedGoal(t, svc, repo, "Vacation", 5_000_000, 0)
	seedGoal(t, svc, repo, "Laptop", 10_000_000, 0)

	result, err := svc.Delete(context.Background(), DeleteInput{UserID: testUserID, GoalName: "Vacation", Currency: "IDR"})
	require.NoError(t, err)
	assert.Nil(t, result.Transaction)
	_, ok := repo.goals[goal.ID]
	assert.False(t, ok)
}

func TestGoalNotFoundSuggests(t *testing.T) {
	svc, repo := newTestService()
	seedGoal(t, svc, repo, "Laptop", 10_000_000, 0)

	_, err := svc.Boost(context.Background(), BoostInput{UserID: testUserID, GoalName: "laptp", Amount: idr(1), Currency: "IDR"})
	require.ErrorIs(t, err, ErrGoalNotFound)
	assert.Equal(t, []string{"Laptop"}, apperror.SuggestionsOf(err))
}

func TestUnknownGoalCreatesNoReservedCategory(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	reserved := svc.reserved.(*fakeReserved)

	_, err := svc.Boost(ctx, BoostInput{UserID: testUserID, GoalName: "Liburan", Amount: idr(100_000), Currency: "IDR"})
	require.ErrorIs(t, err, ErrGoalNotFound)
	_, err = svc.ReturnFunds(ctx, ReturnInput{UserID: testUserID, GoalName: "Liburan", Currency: "IDR"})
	require.ErrorIs(t, err, ErrGoalNotFound)
	_, err = svc.Delete(ctx, DeleteInput{UserID: testUserID, GoalName: "Liburan"})
	require.ErrorIs(t, err, ErrGoalNotFound)

	assert.Empty(t, reserved.requested)
}

func TestCreateNameUniqueAmongActiveGoals(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	done := seedGoal(t, svc, repo, "Phone", 100, 100)

	_, err := svc.Create(ctx, CreateInput{UserID: testUserID, Name: "phone", Target: idr(50)})
	require.ErrorIs(t, err, ErrNameTaken)

	done.IsActive = false
	repo.goals[done.ID] = done
	_, err = svc.Create(ctx, CreateInput{UserID: testUserID, Name: "phone", Target: idr(50)})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{UserID: testUserID, Name: "Car", Target: decimal.Zero})
	require.ErrorIs(t, err, ErrTargetNotPositive)
}

func TestSetPlanReplacesActivePlan(t *testing.T) {
	svc, repo := newTestService()
	seedGoal(t, svc, repo, "Laptop", 10_000_000, 0)
	ctx := context.Background()

	first, err := svc.SetPlan(ctx, PlanInput{UserID: testUserID, GoalName: "Laptop", Amount: idr(500_000), Frequency: FrequencyWeekly})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 8, 9, 0, 0, 0, time.UTC), first.NextContributionAt)

	second, err := svc.SetPlan(ctx, PlanInput{UserID: testUserID, GoalName: "Laptop", Amount: idr(1_000_000)})
	require.NoError(t, err)
	assert.Equal(t, FrequencyMonthly, second.Frequency)

	active, err := svc.ActivePlan(ctx, testUserID, "Laptop")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.False(t, repo.plans[first.ID].IsActive)

	_, err = svc.SetPlan(ctx, PlanInput{UserID: testUserID, GoalName: "Laptop", Amount: idr(1), Frequency: "daily"})
	require.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestCheckBalance(t *testing.T) {
	svc, repo := newTestService()
	seedGoal(t, svc, repo, "Laptop", 10_000_000, 2_500_000)
	seedGoal(t, svc, repo, "Trip", 1_000_000, 500_000)

	report, err := svc.CheckBalance(context.Background(), testUserID)
	require.NoError(t, err)
	assert.True(t, report.MainBalance.Equal(opening))
	assert.True(t, report.TotalSaved.Equal(idr(3_000_000)))
	require.Len(t, report.Goals, 2)
	for _, g := range report.Goals {
		if g.Name == "Laptop" {
			assert.True(t, g.Percentage.Equal(decimal.NewFromInt(25)))
		}
	}
}
