package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryFilter bounds are [From, To); nil means unbounded.
type SummaryFilter struct {
	From *time.Time
	To   *time.Time
}

type SummaryResult struct {
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
	IncomeCount  int64           `json:"income_count"`
	ExpenseCount int64           `json:"expense_count"`
	Net          decimal.Decimal `json:"net"`
	AvgPerDay    decimal.Decimal `json:"avg_expense_per_day"`
}

type ByCategoryFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

type ByCategoryRow struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
	Count        int64           `json:"count"`
}

type MonthlyFilter struct {
	From       time.Time
	To         time.Time
	CategoryID string
	Timezone   string
}

// MonthlyCategoryRow is the expense total of one category in one calendar
// month ("2006-01") of the user's timezone.
type MonthlyCategoryRow struct {
	CategoryID   string
	CategoryName string
	Month        string
	Total        decimal.Decimal
}

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

type MonthAmount struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

type SpendingPattern struct {
	CategoryID     string          `json:"category_id"`
	CategoryName   string          `json:"category_name"`
	MonthlyAverage decimal.Decimal `json:"monthly_average"`
	Trend          Trend           `json:"trend"`
	Volatility     float64         `json:"volatility"`
	Months         []MonthAmount   `json:"months"`
}

type Contribution struct {
	Factor string `json:"factor"`
	Points int    `json:"points"`
}

type Score struct {
	Value     int            `json:"score"`
	Grade     string         `json:"grade"`
	Breakdown []Contribution `json:"breakdown"`
}

type ScoreInput struct {
	Income         decimal.Decimal
	Expense        decimal.Decimal
	Balance        decimal.Decimal
	IncomeCount    int64
	RecentActivity bool
}

type CashFlowInput struct {
	Income          decimal.Decimal
	Expense         decimal.Decimal
	PreviousIncome  decimal.Decimal
	PreviousExpense decimal.Decimal
	Balance         decimal.Decimal
}

type CashFlowTrend string

const (
	CashFlowImproving CashFlowTrend = "improving"
	CashFlowDeclining CashFlowTrend = "declining"
	CashFlowStable    CashFlowTrend = "stable"
)

type CashFlow struct {
	Daily       decimal.Decimal `json:"daily"`
	Weekly      decimal.Decimal `json:"weekly"`
	Monthly     decimal.Decimal `json:"monthly"`
	Balance     decimal.Decimal `json:"balance"`
	BurnDays    int64           `json:"burn_days"`
	Indefinite  bool            `json:"burn_indefinite"`
	Trend       CashFlowTrend   `json:"trend"`
	Projected30 decimal.Decimal `json:"projected_30d"`
	Projected90 decimal.Decimal `json:"projected_90d"`
}
