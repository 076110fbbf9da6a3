package categories

type seed struct {
	name  string
	kind  Kind
	icon  string
	color string
}

const (
	OtherExpenseName = "Other"
	OtherIncomeName  = "Other Income"
	SavingsName      = "Savings"
	GoalRefundName   = "Goal Refund"
)

var defaultSeeds = []seed{
	{"Food & Drink", KindExpense, "🍔", "#f97316"},
	{"Transportation", KindExpense, "🚗", "#3b82f6"},
	{"Shopping", KindExpense, "🛍️", "#ec4899"},
	{"Bills & Utilities", KindExpense, "💡", "#eab308"},
	{"Entertainment", KindExpense, "🎬", "#8b5cf6"},
	{"Health", KindExpense, "💊", "#ef4444"},
	{"Education", KindExpense, "📚", "#0ea5e9"},
	{OtherExpenseName, KindExpense, "📦", "#6b7280"},
	{"Salary", KindIncome, "💼", "#22c55e"},
	{"Bonus", KindIncome, "🎁", "#14b8a6"},
	{"Investment", KindIncome, "📈", "#10b981"},
	{OtherIncomeName, KindIncome, "💰", "#84cc16"},
}

type Reserved string

const (
	ReservedSavings    Reserved = SavingsName
	ReservedGoalRefund Reserved = GoalRefundName
)

var reservedSeeds = map[Reserved]seed{
	ReservedSavings:    {SavingsName, KindExpense, "🐷", "#0d9488"},
	ReservedGoalRefund: {GoalRefundName, KindIncome, "🔄", "#0891b2"},
}

func isReservedName(name string) bool {
	for r := range reservedSeeds {
		if equalName(string(r), name) {
			return true
		}
	}
	return false
}
