package categories

import "time"

type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	Kind      Kind      `gorm:"type:text;not null"`
	Icon      *string   `gorm:"type:text"`
	Color     *string   `gorm:"type:text"`
	IsDefault bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type CreateInput struct {
	UserID string
	Name   string
	Kind   Kind
	Icon   *string
	Color  *string
}

type OptionalNullableString struct {
	Set   bool
	Value *string
}

type UpdateInput struct {
	UserID  string
	Name    string
	NewName string
	Icon    OptionalNullableString
	Color   OptionalNullableString
}
