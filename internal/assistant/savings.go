package assistant

import (
	"context"
	"strings"
	"time"

	"fintrack-go/internal/domain/goals"
	"fintrack-go/internal/domain/intent"

	"github.com/shopspring/decimal"
)

func (h *Handler) savings(ctx context.Context, s session, req intent.Request) (Reply, error) {
	si, err := h.understanding.Savings(ctx, req)
	if err != nil {
		return Reply{}, err
	}
	if err := intent.AcceptCommand(si.Confidence); err != nil {
		return Reply{}, err
	}

	currency := s.prefs.DefaultCurrency
	var reply Reply
	switch si.Action {
	case intent.SavingsSave:
		if si.Amount == nil {
			return Reply{}, intent.ErrAmountRequired
		}
		result, err := h.services.Goals.Boost(ctx, goals.BoostInput{
			UserID:      s.userID,
			GoalName:    si.GoalName,
			Amount:      *si.Amount,
			Currency:    currency,
			AIGenerated: true,
		})
		if err != nil {
			return Reply{}, err
		}
		lines := []string{s.l.text("goal_boosted", s.l.money(result.Applied, currency), result.Goal.Name,
			s.l.money(result.Goal.CurrentAmount, currency), s.l.money(result.Goal.TargetAmount, currency),
			s.l.percent(result.Goal.Progress()))}
		if result.Applied.LessThan(result.Requested) {
			lines = append(lines, s.l.text("goal_clamped", s.l.money(result.Applied, currency)))
		}
		reply.effect(EffectGoalBoosted, result.Goal.ID)
		reply.effect(EffectTransactionCreated, result.Transaction.ID)
		if result.Archived {
			lines = append(lines, s.l.text("goal_archived", result.Goal.Name))
			reply.effect(EffectGoalArchived, result.Goal.ID)
		}
		reply.Message = strings.Join(lines, "\n")

	case intent.SavingsCreateGoal:
		if si.Amount == nil {
			return Reply{}, goals.ErrTargetNotPositive
		}
		goal, err := h.services.Goals.Create(ctx, goals.CreateInput{
			UserID:   s.userID,
			Name:     si.GoalName,
			Target:   *si.Amount,
			Deadline: si.Deadline,
		})
		if err != nil {
			return Reply{}, err
		}
		reply.Message = s.l.text("goal_created", goal.Name, s.l.money(goal.TargetAmount, currency))
		reply.effect(EffectGoalCreated, goal.ID)

	case intent.SavingsListGoals:
		all, err := h.services.Goals.List(ctx, s.userID, true)
		if err != nil {
			return Reply{}, err
		}
		if len(all) == 0 {
			reply.Message = s.l.text("goal_none")
			break
		}
		lines := []string{s.l.text("goal_list_header")}
		for _, g := range all {
			lines = append(lines, goalLine(s.l, g.Name, g.IsActive, g.CurrentAmount, g.TargetAmount, g.Progress(), currency))
		}
		reply.Message = strings.Join(lines, "\n")

	case intent.SavingsSetPlan:
		if si.Amount == nil {
			return Reply{}, intent.ErrAmountRequired
		}
		plan, err := h.services.Goals.SetPlan(ctx, goals.PlanInput{
			UserID:    s.userID,
			GoalName:  si.GoalName,
			Amount:    *si.Amount,
			Frequency: goals.Frequency(si.Frequency),
		})
		if err != nil {
			return Reply{}, err
		}
		reply.Message = s.l.text("plan_set", si.GoalName, s.l.money(plan.Amount, currency),
			s.l.text("frequency_"+string(plan.Frequency)), plan.NextContributionAt.In(s.loc).Format(time.DateOnly))
		reply.effect(EffectSavingsPlanSet, plan.ID)

	case intent.SavingsTransferGoal:
		if si.Amount == nil {
			return Reply{}, intent.ErrAmountRequired
		}
		result, err := h.services.Goals.Transfer(ctx, goals.TransferInput{
			UserID: s.userID,
			From:   si.GoalName,
			To:     si.TargetGoalName,
			Amount: *si.Amount,
		})
		if err != nil {
			return Reply{}, err
		}
		lines := []string{s.l.text("goal_transferred", s.l.money(result.Applied, currency), result.Source.Name, result.Destination.Name)}
		if result.Remainder.IsPositive() {
			lines = append(lines, s.l.text("goal_remainder", s.l.money(result.Remainder, currency), result.Source.Name, result.Destination.Name))
		}
		reply.effect(EffectGoalTransferred, result.Destination.ID)
		if result.Archived {
			lines = append(lines, s.l.text("goal_archived", result.Destination.Name))
			reply.effect(EffectGoalArchived, result.Destination.ID)
		}
		reply.Message = strings.Join(lines, "\n")

	case intent.SavingsReturnFunds:
		result, err := h.services.Goals.ReturnFunds(ctx, goals.ReturnInput{
			UserID:      s.userID,
			GoalName:    si.GoalName,
			Amount:      si.Amount,
			Currency:    currency,
			AIGenerated: true,
		})
		if err != nil {
			return Reply{}, err
		}
		reply.Message = s.l.text("goal_returned", s.l.money(result.Returned, currency), result.Goal.Name)
		reply.effect(EffectTransactionCreated, result.Transaction.ID)

	case intent.SavingsDeleteGoal:
		result, err := h.services.Goals.Delete(ctx, goals.DeleteInput{
			UserID:      s.userID,
			GoalName:    si.GoalName,
			Currency:    currency,
			AIGenerated: true,
		})
		if err != nil {
			return Reply{}, err
		}
		if result.Transaction != nil {
			reply.Message = s.l.text("goal_deleted_refund", result.Goal.Name, s.l.money(result.Returned, currency))
			reply.effect(EffectTransactionCreated, result.Transaction.ID)
		} else {
			reply.Message = s.l.text("goal_deleted", result.Goal.Name)
		}
		reply.effect(EffectGoalDeleted, result.Goal.ID)

	default:
		report, err := h.services.Goals.CheckBalance(ctx, s.userID)
		if err != nil {
			return Reply{}, err
		}
		lines := []string{s.l.text("balance", s.l.money(report.MainBalance, currency), s.l.money(report.TotalSaved, currency))}
		for _, g := range report.Goals {
			lines = append(lines, goalLine(s.l, g.Name, g.IsActive, g.Current, g.Target, g.Percentage, currency))
		}
		reply.Message = strings.Join(lines, "\n")
	}
	return reply, nil
}

func goalLine(l localizer, name string, active bool, current, target, progress decimal.Decimal, currency string) string {
	icon := "🎯"
	if !active {
		icon = "🏆"
	}
	return l.text("goal_line", icon, name, l.money(current, currency), l.money(target, currency), l.percent(progress))
}
