package assistant

import (
	"context"
	"strings"

	"fintrack-go/internal/domain/budgets"
	"fintrack-go/internal/domain/categories"
	"fintrack-go/internal/domain/dates"
	"fintrack-go/internal/domain/intent"
	"fintrack-go/internal/domain/materializer"
)

func (h *Handler) materializeRequest(s session, ti intent.TransactionIntent) materializer.Request {
	return materializer.Request{
		UserID:         s.userID,
		Intent:         ti,
		Channel:        s.route.Channel,
		RawText:        s.msg.Text,
		Currency:       s.prefs.DefaultCurrency,
		Locale:         dates.ParseLocale(s.prefs.Language),
		AutoCategorize: s.prefs.AutoCategorize,
		Location:       s.loc,
	}
}

func (h *Handler) transaction(ctx context.Context, s session, req intent.Request) (Reply, error) {
	ti, err := h.understanding.Transaction(ctx, req)
	if err != nil {
		return Reply{}, err
	}
	outcome, err := h.services.Materializer.Materialize(ctx, h.materializeRequest(s, ti))
	if err != nil {
		return Reply{}, err
	}

	var reply Reply
	lines := []string{h.recordedLine(s.l, outcome)}
	reply.effect(EffectTransactionCreated, outcome.Transaction.ID)
	if outcome.CategoryCreated {
		lines = append(lines, s.l.text("category_created_note", displayCategory(outcome.Category)))
		reply.effect(EffectCategoryCreated, outcome.Category.ID)
	}
	if outcome.Fallback {
		lines = append(lines, s.l.text("fallback_note", outcome.Category.Name))
	}
	if line, effect := adviceLine(s.l, outcome.Advice, outcome.Transaction.Currency); line != "" {
		lines = append(lines, line)
		reply.effect(effect, outcome.Category.ID)
	}
	reply.Message = strings.Join(lines, "\n")
	return reply, nil
}

func (h *Handler) receipt(ctx context.Context, s session, req intent.Request) (Reply, error) {
	items, err := h.understanding.ReceiptItems(ctx, req)
	if err != nil {
		return Reply{}, err
	}
	results := h.services.Materializer.MaterializeReceipt(ctx, h.materializeRequest(s, intent.TransactionIntent{}), items)

	var (
		reply    Reply
		accepted []string
		skipped  []string
		firstErr error
	)
	for _, r := range results {
		if r.Err != nil {
			if firstErr == nil {
				firstErr = r.Err
			}
			skipped = append(skipped, r.Intent.Description)
			reply.effect(EffectReceiptItemSkipped, "")
			continue
		}
		accepted = append(accepted, "• "+h.recordedLine(s.l, r.Outcome))
		reply.effect(EffectTransactionCreated, r.Outcome.Transaction.ID)
		if r.Outcome.CategoryCreated {
			reply.effect(EffectCategoryCreated, r.Outcome.Category.ID)
		}
		if line, effect := adviceLine(s.l, r.Outcome.Advice, r.Outcome.Transaction.Currency); line != "" {
			accepted = append(accepted, "  "+line)
			reply.effect(effect, r.Outcome.Category.ID)
		}
	}

	if len(accepted) == 0 {
		if firstErr != nil {
			return Reply{}, firstErr
		}
		return Reply{}, intent.ErrLowConfidence.Withf("%s", s.l.text("receipt_empty"))
	}

	lines := []string{s.l.text("receipt_header", len(results)-len(skipped))}
	lines = append(lines, accepted...)
	if len(skipped) > 0 {
		lines = append(lines, s.l.text("receipt_skipped", strings.Join(skipped, ", ")))
	}
	reply.Message = strings.Join(lines, "\n")
	return reply, nil
}

func (h *Handler) recordedLine(l localizer, outcome *materializer.Outcome) string {
	kind := "kind_expense"
	if outcome.Transaction.Kind == categories.KindIncome {
		kind = "kind_income"
	}
	return l.text("tx_recorded",
		l.text(kind),
		l.money(outcome.Transaction.Amount, outcome.Transaction.Currency),
		displayCategory(outcome.Category),
		outcome.Transaction.Description,
	)
}

func adviceLine(l localizer, advice budgets.Advice, currency string) (string, EffectType) {
	if status := advice.Alert; status != nil {
		key := ""
		switch status.Tier {
		case budgets.TierInfo:
			key = "alert_info"
		case budgets.TierDanger:
			key = "alert_danger"
		case budgets.TierExceeded:
			key = "alert_exceeded"
		default:
			return "", ""
		}
		return l.text(key, status.CategoryName, l.percent(status.Percentage),
			l.money(status.Spent, currency), l.money(status.Amount, currency)), EffectBudgetAlert
	}
	if rec := advice.Recommendation; rec != nil {
		return l.text("recommendation", rec.CategoryName, l.money(rec.Amount, currency),
			l.money(rec.MonthlyAverage, currency), string(rec.Trend), rec.Confidence), EffectBudgetRecommendation
	}
	return "", ""
}

func displayCategory(c categories.Category) string {
	if c.Icon != nil && *c.Icon != "" {
		return *c.Icon + " " + c.Name
	}
	return c.Name
}
