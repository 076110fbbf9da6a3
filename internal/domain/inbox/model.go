package inbox

import "time"

type State string

const (
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
)

// Record marks an inbound channel message as seen so redelivered messages
// are answered from the stored reply instead of being applied twice.
type Record struct {
	MessageID       string    `gorm:"primaryKey"`
	ChannelIdentity string    `gorm:"not null;index"`
	PayloadHash     string    `gorm:"not null"`
	Status          State     `gorm:"not null"`
	ReplyJSON       []byte    `gorm:"type:jsonb;column:reply_json"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Record) TableName() string { return "inbound_messages" }

type Claim struct {
	Duplicate bool
	Reply     []byte
}
