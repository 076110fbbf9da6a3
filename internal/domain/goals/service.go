package goals

import (
	"context"
	"sort"
	"strings"
	"time"

	"fintrack-go/internal/domain/categories"
	"fintrack-go/internal/domain/names"
	"fintrack-go/internal/domain/transactions"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const suggestionLimit = 3

type ReservedCategories interface {
	Reserved(ctx context.Context, userID string, reserved categories.Reserved) (*categories.Category, error)
}

type BalanceSource interface {
	Balance(ctx context.Context, userID string) (decimal.Decimal, error)
}

type Service struct {
	repo     Repository
	reserved ReservedCategories
	balance  BalanceSource
	now      func() time.Time
}

func NewService(repo Repository, reserved ReservedCategories, balance BalanceSource) *Service {
	return &Service{repo: repo, reserved: reserved, balance: balance, now: time.Now}
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Goal, error) {
	name := names.Normalize(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !input.Target.IsPositive() {
		return nil, ErrTargetNotPositive
	}

	goal := Goal{
		ID:            uuid.NewString(),
		UserID:        input.UserID,
		Name:          name,
		TargetAmount:  input.Target.Round(2),
		CurrentAmount: decimal.Zero,
		Deadline:      input.Deadline,
		CategoryID:    input.CategoryID,
		IsActive:      true,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		all, err := tx.ListGoals(ctx, input.UserID)
		if err != nil {
			return err
		}
		for _, g := range all {
			if g.IsActive && names.Equal(g.Name, name) {
				return ErrNameTaken
			}
		}
		return tx.CreateGoal(ctx, &goal)
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// List returns active goals first, then archived ones when includeArchived.
func (s *Service) List(ctx context.Context, userID string, includeArchived bool) ([]Goal, error) {
	all, err := s.repo.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]Goal, 0, len(all))
	for _, g := range all {
		if g.IsActive || includeArchived {
			result = append(result, g)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].IsActive != result[j].IsActive {
			return result[i].IsActive
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Boost deposits into an active goal. The deposit is clamped to the remaining
// headroom and the mirrored Savings expense carries the applied amount.
func (s *Service) Boost(ctx context.Context, input BoostInput) (*BoostResult, error) {
	input.Amount = input.Amount.Round(2)
	if !input.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	savings, err := s.reservedFor(ctx, input.UserID, input.GoalName, true, categories.ReservedSavings)
	if err != nil {
		return nil, err
	}

	var result BoostResult
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		goal, err := s.lookup(ctx, tx, input.UserID, input.GoalName, true)
		if err != nil {
			return err
		}

		applied := decimal.Min(input.Amount, goal.Headroom())
		if !applied.IsPositive() {
			return ErrGoalArchived
		}

		description := strings.TrimSpace(input.Description)
		if description == "" {
			description = goal.Name
		}
		ledger, err := transactions.New(transactions.RecordInput{
			UserID:      input.UserID,
			CategoryID:  savings.ID,
			Amount:      applied,
			Currency:    input.Currency,
			Description: description,
			Kind:        categories.KindExpense,
			OccurredAt:  input.OccurredAt,
			AIGenerated: input.AIGenerated,
		}, s.now())
		if err != nil {
			return err
		}

		goal.CurrentAmount = goal.CurrentAmount.Add(ledger.Amount)
		archived := archiveIfComplete(goal)
		if err := tx.UpdateGoal(ctx, goal); err != nil {
			return err
		}
		if err := tx.CreateTransaction(ctx, &ledger); err != nil {
			return err
		}
		if err := tx.CreateBoost(ctx, &Boost{
			ID:            uuid.NewString(),
			GoalID:        goal.ID,
			UserID:        input.UserID,
			TransactionID: ledger.ID,
			Amount:        ledger.Amount,
			Description:   description,
			OccurredAt:    ledger.OccurredAt,
		}); err != nil {
			return err
		}

		result = BoostResult{
			Goal:        *goal,
			Requested:   input.Amount,
			Applied:     ledger.Amount,
			Archived:    archived,
			Transaction: ledger,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Transfer moves funds between goals. The destination takes at most its
// headroom; whatever it cannot take never leaves the source.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	input.Amount = input.Amount.Round(2)
	if !input.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}

	var result TransferResult
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		source, err := s.lookup(ctx, tx, input.UserID, input.From, false)
		if err != nil {
			return err
		}
		destination, err := s.lookup(ctx, tx, input.UserID, input.To, true)
		if err != nil {
			return err
		}
		if source.ID == destination.ID {
			return ErrSameGoal
		}
		if source.CurrentAmount.LessThan(input.Amount) {
			return ErrInsufficientFunds.Withf("%s holds only %s", source.Name, source.CurrentAmount.StringFixed(2))
		}

		applied := decimal.Min(input.Amount, destination.Headroom())
		if !applied.IsPositive() {
			return ErrGoalArchived
		}

		source.CurrentAmount = source.CurrentAmount.Sub(applied)
		destination.CurrentAmount = destination.CurrentAmount.Add(applied)
		archived := archiveIfComplete(destination)

		if err := tx.UpdateGoal(ctx, source); err != nil {
			return err
		}
		if err := tx.UpdateGoal(ctx, destination); err != nil {
			return err
		}

		result = TransferResult{
			Source:      *source,
			Destination: *destination,
			Requested:   input.Amount,
			Applied:     applied,
			Remainder:   input.Amount.Sub(applied),
			Archived:    archived,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ReturnFunds moves goal money back to the main balance as one Goal Refund
// income. A nil amount returns everything.
func (s *Service) ReturnFunds(ctx context.Context, input ReturnInput) (*ReturnResult, error) {
	if input.Amount != nil {
		rounded := input.Amount.Round(2)
		if !rounded.IsPositive() {
			return nil, ErrAmountNotPositive
		}
		input.Amount = &rounded
	}
	refund, err := s.reservedFor(ctx, input.UserID, input.GoalName, false, categories.ReservedGoalRefund)
	if err != nil {
		return nil, err
	}

	var result ReturnResult
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		goal, err := s.lookup(ctx, tx, input.UserID, input.GoalName, false)
		if err != nil {
			return err
		}
		ledger, err := s.refund(ctx, tx, goal, input.Amount, refund.ID, input.Currency, input.AIGenerated)
		if err != nil {
			return err
		}
		result = ReturnResult{Goal: *goal, Returned: ledger.Amount, Transaction: *ledger}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a goal. Funds block deletion while another active goal could
// take them; with nowhere else to go they are returned to the main balance
// first.
func (s *Service) Delete(ctx context.Context, input DeleteInput) (*DeleteResult, error) {
	refund, err := s.reservedFor(ctx, input.UserID, input.GoalName, false, categories.ReservedGoalRefund)
	if err != nil {
		return nil, err
	}

	var result DeleteResult
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		goal, err := s.lookup(ctx, tx, input.UserID, input.GoalName, false)
		if err != nil {
			return err
		}
		result.Goal = *goal
		result.Returned = decimal.Zero

		if goal.CurrentAmount.IsPositive() {
			all, err := tx.ListGoals(ctx, input.UserID)
			if err != nil {
				return err
			}
			var candidates []string
			for _, g := range all {
				if g.ID != goal.ID && g.IsActive && g.Headroom().IsPositive() {
					candidates = append(candidates, g.Name)
				}
			}
			if len(candidates) > 0 {
				return ErrGoalHasFunds.
					Withf("%s still holds %s; transfer or return the funds first", goal.Name, goal.CurrentAmount.StringFixed(2)).
					WithSuggestions(candidates...)
			}

			ledger, err := s.refund(ctx, tx, goal, nil, refund.ID, input.Currency, input.AIGenerated)
			if err != nil {
				return err
			}
			result.Returned = ledger.Amount
			result.Transaction = ledger
		}

		ok, err := tx.DeleteGoal(ctx, input.UserID, goal.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrGoalNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SetPlan replaces the goal's active savings plan.
func (s *Service) SetPlan(ctx context.Context, input PlanInput) (*SavingsPlan, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	frequency := input.Frequency
	if frequency == "" {
		frequency = FrequencyMonthly
	}
	if !frequency.Valid() {
		return nil, ErrInvalidFrequency
	}

	var plan SavingsPlan
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		goal, err := s.lookup(ctx, tx, input.UserID, input.GoalName, true)
		if err != nil {
			return err
		}
		if err := tx.DeactivatePlans(ctx, input.UserID, goal.ID); err != nil {
			return err
		}
		plan = SavingsPlan{
			ID:                 uuid.NewString(),
			GoalID:             goal.ID,
			UserID:             input.UserID,
			Amount:             input.Amount.Round(2),
			Frequency:          frequency,
			NextContributionAt: frequency.Next(s.now()).UTC(),
			IsActive:           true,
		}
		return tx.CreatePlan(ctx, &plan)
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *Service) ActivePlan(ctx context.Context, userID, goalName string) (*SavingsPlan, error) {
	goal, err := s.lookup(ctx, s.repo, userID, goalName, false)
	if err != nil {
		return nil, err
	}
	return s.repo.GetActivePlan(ctx, userID, goal.ID)
}

func (s *Service) CheckBalance(ctx context.Context, userID string) (*BalanceReport, error) {
	main, err := s.balance.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.List(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	report := BalanceReport{MainBalance: main, TotalSaved: decimal.Zero, Goals: make([]GoalProgress, 0, len(all))}
	for _, g := range all {
		report.TotalSaved = report.TotalSaved.Add(g.CurrentAmount)
		report.Goals = append(report.Goals, GoalProgress{
			Name:       g.Name,
			Current:    g.CurrentAmount,
			Target:     g.TargetAmount,
			Percentage: g.Progress(),
			IsActive:   g.IsActive,
			Deadline:   g.Deadline,
		})
	}
	return &report, nil
}

func (s *Service) refund(ctx context.Context, tx Repository, goal *Goal, amount *decimal.Decimal, categoryID, currency string, aiGenerated bool) (*transactions.Transaction, error) {
	if !goal.CurrentAmount.IsPositive() {
		return nil, ErrInsufficientFunds.Withf("%s holds no funds", goal.Name)
	}
	returned := goal.CurrentAmount
	if amount != nil {
		returned = decimal.Min(*amount, goal.CurrentAmount)
	}

	ledger, err := transactions.New(transactions.RecordInput{
		UserID:      goal.UserID,
		CategoryID:  categoryID,
		Amount:      returned,
		Currency:    currency,
		Description: goal.Name,
		Kind:        categories.KindIncome,
		AIGenerated: aiGenerated,
	}, s.now())
	if err != nil {
		return nil, err
	}

	goal.CurrentAmount = goal.CurrentAmount.Sub(ledger.Amount)
	if err := tx.UpdateGoal(ctx, goal); err != nil {
		return nil, err
	}
	if err := tx.CreateTransaction(ctx, &ledger); err != nil {
		return nil, err
	}
	return &ledger, nil
}

// lookup resolves a goal by name and re-reads it for update. Active goals win
// over archived ones with the same name; activeOnly rejects archived goals.
// reservedFor resolves a reserved category only once the goal is known to
// exist, so a mistyped goal name leaves no category behind.
func (s *Service) reservedFor(ctx context.Context, userID, goalName string, activeOnly bool, reserved categories.Reserved) (*categories.Category, error) {
	if _, err := s.lookup(ctx, s.repo, userID, goalName, activeOnly); err != nil {
		return nil, err
	}
	return s.reserved.Reserved(ctx, userID, reserved)
}

func (s *Service) lookup(ctx context.Context, repo Repository, userID, name string, activeOnly bool) (*Goal, error) {
	all, err := repo.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	var match *Goal
	for i := range all {
		if !names.Equal(all[i].Name, name) {
			continue
		}
		if match == nil || (all[i].IsActive && !match.IsActive) {
			match = &all[i]
		}
	}

	if match == nil {
		candidates := make([]string, 0, len(all))
		for _, g := range all {
			if g.IsActive || !activeOnly {
				candidates = append(candidates, g.Name)
			}
		}
		return nil, ErrGoalNotFound.
			Withf("goal %q not found", names.Normalize(name)).
			WithSuggestions(names.Suggest(name, candidates, suggestionLimit)...)
	}
	if activeOnly && !match.IsActive {
		return nil, ErrGoalArchived.Withf("%s already reached its target", match.Name)
	}

	return repo.GetGoalForUpdate(ctx, userID, match.ID)
}

func archiveIfComplete(goal *Goal) bool {
	if goal.IsActive && goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
		goal.CurrentAmount = goal.TargetAmount
		goal.IsActive = false
		return true
	}
	return false
}
