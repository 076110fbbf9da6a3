package analytics

import "github.com/shopspring/decimal"

const trailingDays = 30

// ProjectCashFlow derives rates from 30-day trailing totals rather than the
// calendar month, so the figures do not swing with the day of the month.
func ProjectCashFlow(in CashFlowInput) CashFlow {
	days := decimal.NewFromInt(trailingDays)
	net := in.Income.Sub(in.Expense)
	daily := net.Div(days)

	flow := CashFlow{
		Daily:       daily.Round(2),
		Weekly:      daily.Mul(decimal.NewFromInt(7)).Round(2),
		Monthly:     net.Round(2),
		Balance:     in.Balance,
		Trend:       cashFlowTrend(net, in.PreviousIncome.Sub(in.PreviousExpense)),
		Projected30: in.Balance.Add(daily.Mul(days)).Round(2),
		Projected90: in.Balance.Add(daily.Mul(decimal.NewFromInt(90))).Round(2),
	}

	switch {
	case !daily.IsNegative():
		flow.Indefinite = true
	case !in.Balance.IsPositive():
		flow.BurnDays = 0
	default:
		flow.BurnDays = in.Balance.Div(daily.Abs()).Floor().IntPart()
	}
	return flow
}

func cashFlowTrend(current, previous decimal.Decimal) CashFlowTrend {
	switch current.Cmp(previous) {
	case 1:
		return CashFlowImproving
	case -1:
		return CashFlowDeclining
	}
	return CashFlowStable
}
