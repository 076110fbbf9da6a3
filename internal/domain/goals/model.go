package goals

import (
	"time"

	"fintrack-go/internal/domain/transactions"

	"github.com/shopspring/decimal"
)

type Goal struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	UserID        string          `gorm:"type:uuid;index;not null"`
	Name          string          `gorm:"not null"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	Deadline      *time.Time      `gorm:"type:timestamptz"`
	CategoryID    *string         `gorm:"type:uuid"`
	IsActive      bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

func (g Goal) Headroom() decimal.Decimal {
	h := g.TargetAmount.Sub(g.CurrentAmount)
	if h.IsNegative() {
		return decimal.Zero
	}
	return h
}

func (g Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(1)
}

type Boost struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	GoalID        string          `gorm:"type:uuid;index;not null"`
	UserID        string          `gorm:"type:uuid;index;not null"`
	TransactionID string          `gorm:"type:uuid;not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Description   string          `gorm:"not null"`
	OccurredAt    time.Time       `gorm:"type:timestamptz;not null"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
}

func (Boost) TableName() string { return "goal_boosts" }

type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	return f == FrequencyWeekly || f == FrequencyBiweekly || f == FrequencyMonthly
}

// Next returns the first contribution date after from.
func (f Frequency) Next(from time.Time) time.Time {
	switch f {
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		return from.AddDate(0, 0, 14)
	default:
		return from.AddDate(0, 1, 0)
	}
}

type SavingsPlan struct {
	ID                 string          `gorm:"type:uuid;primaryKey"`
	GoalID             string          `gorm:"type:uuid;index;not null"`
	UserID             string          `gorm:"type:uuid;index;not null"`
	Amount             decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Frequency          Frequency       `gorm:"type:text;not null"`
	NextContributionAt time.Time       `gorm:"type:timestamptz;not null"`
	IsActive           bool            `gorm:"not null;default:true"`
	CreatedAt          time.Time       `gorm:"autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime"`
}

func (SavingsPlan) TableName() string { return "goal_savings_plans" }

type CreateInput struct {
	UserID     string
	Name       string
	Target     decimal.Decimal
	Deadline   *time.Time
	CategoryID *string
}

type BoostInput struct {
	UserID      string
	GoalName    string
	Amount      decimal.Decimal
	Description string
	Currency    string
	OccurredAt  time.Time
	AIGenerated bool
}

type BoostResult struct {
	Goal        Goal
	Requested   decimal.Decimal
	Applied     decimal.Decimal
	Archived    bool
	Transaction transactions.Transaction
}

type TransferInput struct {
	UserID string
	From   string
	To     string
	Amount decimal.Decimal
}

type TransferResult struct {
	Source      Goal
	Destination Goal
	Requested   decimal.Decimal
	Applied     decimal.Decimal
	Remainder   decimal.Decimal
	Archived    bool
}

type ReturnInput struct {
	UserID      string
	GoalName    string
	Amount      *decimal.Decimal
	Currency    string
	AIGenerated bool
}

type ReturnResult struct {
	Goal        Goal
	Returned    decimal.Decimal
	Transaction transactions.Transaction
}

type DeleteInput struct {
	UserID      string
	GoalName    string
	Currency    string
	AIGenerated bool
}

type DeleteResult struct {
	Goal        Goal
	Returned    decimal.Decimal
	Transaction *transactions.Transaction
}

type PlanInput struct {
	UserID    string
	GoalName  string
	Amount    decimal.Decimal
	Frequency Frequency
}

type GoalProgress struct {
	Name       string          `json:"name"`
	Current    decimal.Decimal `json:"current"`
	Target     decimal.Decimal `json:"target"`
	Percentage decimal.Decimal `json:"percentage"`
	IsActive   bool            `json:"is_active"`
	Deadline   *time.Time      `json:"deadline,omitempty"`
}

type BalanceReport struct {
	MainBalance decimal.Decimal `json:"main_balance"`
	TotalSaved  decimal.Decimal `json:"total_saved"`
	Goals       []GoalProgress  `json:"goals"`
}
