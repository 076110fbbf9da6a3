package assistant

import (
	"context"
	"strings"

	"fintrack-go/internal/domain/budgets"
	"fintrack-go/internal/domain/categories"
	"fintrack-go/internal/domain/intent"
)

func (h *Handler) budget(ctx context.Context, s session, req intent.Request) (Reply, error) {
	bi, err := h.understanding.Budget(ctx, req)
	if err != nil {
		return Reply{}, err
	}
	if err := intent.AcceptCommand(bi.Confidence); err != nil {
		return Reply{}, err
	}

	switch bi.Action {
	case intent.BudgetCreate, intent.BudgetUpdate:
		return h.upsertBudget(ctx, s, bi)
	case intent.BudgetDelete:
		category, err := h.budgetCategory(ctx, s, bi.CategoryName)
		if err != nil {
			return Reply{}, err
		}
		deleted, err := h.services.Budgets.Delete(ctx, s.userID, category.ID)
		if err != nil {
			return Reply{}, err
		}
		reply := Reply{Message: s.l.text("budget_deleted", category.Name)}
		reply.effect(EffectBudgetDeleted, deleted.ID)
		return reply, nil
	case intent.BudgetCheck:
		if strings.TrimSpace(bi.CategoryName) == "" {
			return h.listBudgets(ctx, s)
		}
		category, err := h.budgetCategory(ctx, s, bi.CategoryName)
		if err != nil {
			return Reply{}, err
		}
		status, err := h.services.Budgets.Check(ctx, s.userID, *category, s.loc)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Message: statusLine(s.l, status, s.prefs.DefaultCurrency)}, nil
	default:
		return h.listBudgets(ctx, s)
	}
}

func (h *Handler) upsertBudget(ctx context.Context, s session, bi intent.BudgetIntent) (Reply, error) {
	if bi.Amount == nil {
		return Reply{}, budgets.ErrAmountNotPositive
	}
	category, err := h.budgetCategory(ctx, s, bi.CategoryName)
	if err != nil {
		return Reply{}, err
	}
	period := budgets.Period(bi.Period)
	if period == "" {
		period = budgets.PeriodMonthly
	}

	budget, created, err := h.services.Budgets.Upsert(ctx, budgets.UpsertInput{
		UserID:   s.userID,
		Category: *category,
		Amount:   *bi.Amount,
		Period:   period,
		Location: s.loc,
	})
	if err != nil {
		return Reply{}, err
	}

	key := "budget_updated"
	if created {
		key = "budget_created"
	}
	reply := Reply{Message: s.l.text(key, category.Name,
		s.l.money(budget.Amount, s.prefs.DefaultCurrency), s.l.text("period_"+string(budget.Period)))}
	reply.effect(EffectBudgetUpserted, budget.ID)
	return reply, nil
}

func (h *Handler) budgetCategory(ctx context.Context, s session, name string) (*categories.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, categories.ErrNameRequired
	}
	return h.services.Categories.Find(ctx, s.userID, name)
}

func (h *Handler) listBudgets(ctx context.Context, s session) (Reply, error) {
	cats, err := h.services.Categories.List(ctx, s.userID)
	if err != nil {
		return Reply{}, err
	}
	byID := make(map[string]string, len(cats))
	for _, c := range cats {
		byID[c.ID] = c.Name
	}

	statuses, err := h.services.Budgets.List(ctx, s.userID, byID, s.loc)
	if err != nil {
		return Reply{}, err
	}
	if len(statuses) == 0 {
		return Reply{Message: s.l.text("budget_none")}, nil
	}

	lines := []string{s.l.text("budget_list_header")}
	for _, status := range statuses {
		lines = append(lines, statusLine(s.l, status, s.prefs.DefaultCurrency))
	}
	return Reply{Message: strings.Join(lines, "\n")}, nil
}

func statusLine(l localizer, status budgets.Status, currency string) string {
	return l.text("budget_status", tierIcon(status.Tier), status.CategoryName,
		l.money(status.Spent, currency), l.money(status.Amount, currency),
		l.percent(status.Percentage), l.money(status.Remaining, currency))
}

func tierIcon(tier budgets.Tier) string {
	switch tier {
	case budgets.TierInfo:
		return "🟡"
	case budgets.TierDanger:
		return "🟠"
	case budgets.TierExceeded:
		return "🔴"
	default:
		return "🟢"
	}
}
