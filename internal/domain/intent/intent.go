// Package intent defines the contract with the Language/Vision Understanding
// Service: what the core sends for each command domain and the typed intents
// it accepts back. Intents are validated here, at the boundary, so nothing
// loosely shaped travels further into the domain packages.
package intent

import (
	"context"
	"time"

	"fintrack-go/internal/domain/categories"

	"github.com/shopspring/decimal"
)

type Channel string

const (
	ChannelText  Channel = "text"
	ChannelVoice Channel = "voice"
	ChannelImage Channel = "image"
)

// Minimum confidence per channel. Voice and receipt images tolerate more noise
// because the user cannot easily correct them mid-flow.
const (
	ThresholdText    = 0.7
	ThresholdVoice   = 0.6
	ThresholdImage   = 0.6
	ThresholdCommand = 0.7
)

func TransactionThreshold(channel Channel) float64 {
	switch channel {
	case ChannelVoice:
		return ThresholdVoice
	case ChannelImage:
		return ThresholdImage
	default:
		return ThresholdText
	}
}

type Input struct {
	Text     string
	Media    []byte
	MimeType string
	Channel  Channel
}

type CategoryRef struct {
	Name  string          `json:"name"`
	Kind  categories.Kind `json:"kind"`
	Icon  string          `json:"icon,omitempty"`
	Color string          `json:"color,omitempty"`
}

// Context is sent with every call; the service keeps no session state.
type Context struct {
	Categories     []CategoryRef `json:"categories"`
	Goals          []string      `json:"goals,omitempty"`
	Language       string        `json:"language"`
	Currency       string        `json:"currency"`
	AutoCategorize bool          `json:"auto_categorize"`
	Timezone       string        `json:"timezone"`
	Now            time.Time     `json:"now"`
}

type Request struct {
	Input   Input
	Context Context
}

type SuggestedCategory struct {
	Name  string
	Icon  string
	Color string
	Kind  categories.Kind
}

type TransactionIntent struct {
	Amount               decimal.Decimal
	Currency             string
	Description          string
	CategoryName         string
	Kind                 categories.Kind
	Confidence           float64
	OccurredAt           *time.Time
	SuggestedNewCategory *SuggestedCategory
}

type BudgetAction string

const (
	BudgetCreate BudgetAction = "create"
	BudgetUpdate BudgetAction = "update"
	BudgetDelete BudgetAction = "delete"
	BudgetCheck  BudgetAction = "check"
	BudgetList   BudgetAction = "list"
)

type BudgetIntent struct {
	Action       BudgetAction
	CategoryName string
	Amount       *decimal.Decimal
	Period       string
	Confidence   float64
}

type CategoryAction string

const (
	CategoryCreate CategoryAction = "create"
	CategoryUpdate CategoryAction = "update"
	CategoryDelete CategoryAction = "delete"
	CategoryList   CategoryAction = "list"
)

type CategoryIntent struct {
	Action          CategoryAction
	CategoryName    string
	NewCategoryName string
	Icon            string
	Color           string
	Kind            categories.Kind
	Confidence      float64
}

type SavingsAction string

const (
	SavingsSave         SavingsAction = "save"
	SavingsCreateGoal   SavingsAction = "create_goal"
	SavingsListGoals    SavingsAction = "list_goals"
	SavingsCheckBalance SavingsAction = "check_balance"
	SavingsSetPlan      SavingsAction = "set_plan"
	SavingsTransferGoal SavingsAction = "transfer_goal"
	SavingsReturnFunds  SavingsAction = "return_funds"
	SavingsDeleteGoal   SavingsAction = "delete_goal"
)

type SavingsIntent struct {
	Action         SavingsAction
	GoalName       string
	TargetGoalName string
	Amount         *decimal.Decimal
	Frequency      string
	Deadline       *time.Time
	Confidence     float64
}

// Client is the Understanding Service as seen by the core. Implementations
// must honour ctx deadlines and must not retry internally.
type Client interface {
	Transaction(ctx context.Context, req Request) (TransactionIntent, error)
	ReceiptItems(ctx context.Context, req Request) ([]TransactionIntent, error)
	Budget(ctx context.Context, req Request) (BudgetIntent, error)
	Category(ctx context.Context, req Request) (CategoryIntent, error)
	Savings(ctx context.Context, req Request) (SavingsIntent, error)
}
