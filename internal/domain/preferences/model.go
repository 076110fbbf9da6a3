package preferences

import "time"

type Preferences struct {
	UserID          string    `gorm:"type:uuid;primaryKey"`
	DefaultCurrency string    `gorm:"size:3;not null"`
	Language        string    `gorm:"size:5;not null"`
	AutoCategorize  bool      `gorm:"not null;default:true"`
	Timezone        string    `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Preferences) TableName() string { return "user_preferences" }

// Location falls back to UTC for unknown zones.
func (p Preferences) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type Defaults struct {
	Currency       string
	Language       string
	Timezone       string
	AutoCategorize bool
}

type UpdateInput struct {
	UserID         string
	Currency       *string
	Language       *string
	Timezone       *string
	AutoCategorize *bool
}
