package transactions

import (
	"time"

	"fintrack-go/internal/domain/categories"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	UserID      string          `gorm:"type:uuid;index;not null"`
	CategoryID  string          `gorm:"type:uuid;index;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Currency    string          `gorm:"size:3;not null"`
	Description string          `gorm:"not null"`
	Kind        categories.Kind `gorm:"type:text;not null"`
	OccurredAt  time.Time       `gorm:"type:timestamptz;index;not null"`
	AIGenerated bool            `gorm:"not null;default:false"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

// Signed returns the amount with the sign implied by the kind.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == categories.KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ListFilter bounds are [From, To).
type ListFilter struct {
	From       *time.Time
	To         *time.Time
	CategoryID string
	Kind       categories.Kind
	Limit      int
	Offset     int
}

type RecordInput struct {
	UserID      string
	CategoryID  string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Kind        categories.Kind
	OccurredAt  time.Time
	AIGenerated bool
}
