package assistant

import (
	"time"

	"fintrack-go/internal/domain/apperror"
)

// Message is one inbound chat message. ID is the channel's message id and
// makes redelivery idempotent; it may be empty.
type Message struct {
	ID              string    `json:"id"`
	ChannelIdentity string    `json:"channel_identity"`
	Text            string    `json:"text"`
	Media           []byte    `json:"media,omitempty"`
	MimeType        string    `json:"mime_type,omitempty"`
	ReceivedAt      time.Time `json:"received_at"`
}

type Reply struct {
	Success     bool          `json:"success"`
	Kind        apperror.Kind `json:"kind,omitempty"`
	Domain      Domain        `json:"domain,omitempty"`
	Message     string        `json:"message"`
	Example     string        `json:"example,omitempty"`
	Suggestions []string      `json:"suggestions,omitempty"`
	SideEffects []SideEffect  `json:"side_effects,omitempty"`
}

type EffectType string

const (
	EffectTransactionCreated   EffectType = "transaction_created"
	EffectCategoryCreated      EffectType = "category_created"
	EffectCategoryUpdated      EffectType = "category_updated"
	EffectCategoryDeleted      EffectType = "category_deleted"
	EffectBudgetUpserted       EffectType = "budget_upserted"
	EffectBudgetDeleted        EffectType = "budget_deleted"
	EffectBudgetAlert          EffectType = "budget_alert"
	EffectBudgetRecommendation EffectType = "budget_recommendation"
	EffectGoalCreated          EffectType = "goal_created"
	EffectGoalBoosted          EffectType = "goal_boosted"
	EffectGoalArchived         EffectType = "goal_archived"
	EffectGoalTransferred      EffectType = "goal_transferred"
	EffectGoalDeleted          EffectType = "goal_deleted"
	EffectSavingsPlanSet       EffectType = "savings_plan_set"
	EffectChannelLinked        EffectType = "channel_linked"
	EffectReceiptItemSkipped   EffectType = "receipt_item_skipped"
)

type SideEffect struct {
	Type EffectType `json:"type"`
	ID   string     `json:"id,omitempty"`
}

func (r *Reply) effect(t EffectType, id string) {
	r.SideEffects = append(r.SideEffects, SideEffect{Type: t, ID: id})
}

func (r Reply) Has(t EffectType) bool {
	for _, e := range r.SideEffects {
		if e.Type == t {
			return true
		}
	}
	return false
}
