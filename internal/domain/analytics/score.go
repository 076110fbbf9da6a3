package analytics

import "github.com/shopspring/decimal"

const scoreBase = 50

var (
	pct10 = decimal.RequireFromString("0.1")
	pct20 = decimal.RequireFromString("0.2")
	pct30 = decimal.RequireFromString("0.3")
	pct50 = decimal.RequireFromString("0.5")
	pct80 = decimal.RequireFromString("0.8")
)

// ComputeScore adds independent contributions to a base of 50 and clamps the
// result to [0, 100].
func ComputeScore(in ScoreInput) Score {
	breakdown := []Contribution{
		{Factor: "savings_rate", Points: savingsRatePoints(in)},
		{Factor: "cash_flow", Points: cashFlowPoints(in)},
		{Factor: "emergency_fund", Points: emergencyFundPoints(in)},
		{Factor: "income", Points: incomePoints(in)},
		{Factor: "activity", Points: activityPoints(in)},
		{Factor: "expense_ratio", Points: expenseRatioPoints(in)},
	}

	total := scoreBase
	for _, c := range breakdown {
		total += c.Points
	}
	total = max(0, min(100, total))

	return Score{Value: total, Grade: grade(total), Breakdown: breakdown}
}

func savingsRatePoints(in ScoreInput) int {
	if !in.Income.IsPositive() {
		if in.Expense.IsPositive() {
			return -10
		}
		return 0
	}
	rate := in.Income.Sub(in.Expense).Div(in.Income)
	switch {
	case rate.GreaterThanOrEqual(pct30):
		return 30
	case rate.GreaterThanOrEqual(pct20):
		return 20
	case rate.GreaterThanOrEqual(pct10):
		return 10
	case rate.IsNegative():
		return -10
	}
	return 0
}

func cashFlowPoints(in ScoreInput) int {
	net := in.Income.Sub(in.Expense)
	switch {
	case in.Income.IsPositive() && net.GreaterThanOrEqual(in.Income.Mul(pct20)):
		return 25
	case net.IsPositive():
		return 15
	case net.IsNegative():
		return -15
	}
	return 0
}

func emergencyFundPoints(in ScoreInput) int {
	if in.Balance.IsNegative() {
		return -10
	}
	if !in.Balance.IsPositive() {
		return 0
	}
	if !in.Expense.IsPositive() {
		return 20
	}
	months := in.Balance.Div(in.Expense)
	switch {
	case months.GreaterThanOrEqual(decimal.NewFromInt(6)):
		return 20
	case months.GreaterThanOrEqual(decimal.NewFromInt(3)):
		return 15
	case months.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return 10
	}
	return 5
}

func incomePoints(in ScoreInput) int {
	switch {
	case in.IncomeCount >= 2:
		return 15
	case in.IncomeCount == 1:
		return 10
	}
	return 0
}

func activityPoints(in ScoreInput) int {
	if in.RecentActivity {
		return 10
	}
	return 0
}

func expenseRatioPoints(in ScoreInput) int {
	if !in.Income.IsPositive() {
		return 0
	}
	ratio := in.Expense.Div(in.Income)
	switch {
	case ratio.LessThanOrEqual(pct50):
		return 10
	case ratio.LessThanOrEqual(pct80):
		return 5
	}
	return 0
}

func grade(score int) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	}
	return "poor"
}
