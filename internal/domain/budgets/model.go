package budgets

import (
	"time"

	"fintrack-go/internal/domain/analytics"
	"fintrack-go/internal/domain/categories"

	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

func (p Period) Valid() bool {
	return p == PeriodWeekly || p == PeriodMonthly
}

type Budget struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	UserID     string          `gorm:"type:uuid;index;not null"`
	CategoryID string          `gorm:"type:uuid;index;not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Period     Period          `gorm:"type:text;not null"`
	StartAt    time.Time       `gorm:"type:timestamptz;not null"`
	EndAt      time.Time       `gorm:"type:timestamptz;not null"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

type Tier string

const (
	TierSilent   Tier = "silent"
	TierInfo     Tier = "info"
	TierDanger   Tier = "danger"
	TierExceeded Tier = "exceeded"
)

type Status struct {
	Budget       Budget          `json:"-"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	Period       Period          `json:"period"`
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	Percentage   decimal.Decimal `json:"percentage"`
	Tier         Tier            `json:"tier"`
	WindowStart  time.Time       `json:"window_start"`
	WindowEnd    time.Time       `json:"window_end"`
}

type Recommendation struct {
	CategoryID     string          `json:"category_id"`
	CategoryName   string          `json:"category_name"`
	Amount         decimal.Decimal `json:"amount"`
	Period         Period          `json:"period"`
	MonthlyAverage decimal.Decimal `json:"monthly_average"`
	Trend          analytics.Trend `json:"trend"`
	Confidence     int             `json:"confidence"`
}

// Advice is the outcome of the post-expense check: an alert when a budget
// exists for the category, otherwise a recommendation. Never both.
type Advice struct {
	Alert          *Status
	Recommendation *Recommendation
}

type UpsertInput struct {
	UserID   string
	Category categories.Category
	Amount   decimal.Decimal
	Period   Period
	Location *time.Location
}
