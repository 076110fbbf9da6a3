package identity

import "time"

// Link maps a chat sender (e.g. "whatsapp:628123456789") to a user.
type Link struct {
	ChannelIdentity string    `gorm:"primaryKey"`
	UserID          string    `gorm:"type:uuid;index;not null"`
	LinkedAt        time.Time `gorm:"not null"`
}

func (Link) TableName() string { return "channel_links" }

type ActivationCode struct {
	Code      string     `gorm:"size:6;primaryKey"`
	UserID    string     `gorm:"type:uuid;index;not null"`
	ExpiresAt time.Time  `gorm:"not null"`
	UsedAt    *time.Time `gorm:"type:timestamptz"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

func (ActivationCode) TableName() string { return "activation_codes" }
