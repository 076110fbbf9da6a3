package understanding

import (
	"encoding/json"
	"strings"
	"time"

	"fintrack-go/internal/domain/categories"
	"fintrack-go/internal/domain/intent"

	"github.com/shopspring/decimal"
)

// Domain names the request shape sent to a remote service.
type Domain string

const (
	DomainTransaction Domain = "transaction"
	DomainReceipt     Domain = "receipt"
	DomainBudget      Domain = "budget"
	DomainCategory    Domain = "category"
	DomainSavings     Domain = "savings"
)

type suggestionWire struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Kind  string `json:"kind"`
}

type transactionWire struct {
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	Description          string          `json:"description"`
	CategoryName         string          `json:"category_name"`
	Kind                 string          `json:"kind"`
	Confidence           float64         `json:"confidence"`
	OccurredAt           string          `json:"occurred_at"`
	SuggestedNewCategory *suggestionWire `json:"suggested_new_category"`
}

type receiptWire struct {
	Items []transactionWire `json:"items"`
}

type budgetWire struct {
	Action       string           `json:"action"`
	CategoryName string           `json:"category_name"`
	Amount       *decimal.Decimal `json:"amount"`
	Period       string           `json:"period"`
	Confidence   float64          `json:"confidence"`
}

type categoryWire struct {
	Action          string  `json:"action"`
	CategoryName    string  `json:"category_name"`
	NewCategoryName string  `json:"new_category_name"`
	Icon            string  `json:"icon"`
	Color           string  `json:"color"`
	Kind            string  `json:"kind"`
	Confidence      float64 `json:"confidence"`
}

type savingsWire struct {
	Action         string           `json:"action"`
	GoalName       string           `json:"goal_name"`
	TargetGoalName string           `json:"target_goal_name"`
	Amount         *decimal.Decimal `json:"amount"`
	Frequency      string           `json:"frequency"`
	Deadline       string           `json:"deadline"`
	Confidence     float64          `json:"confidence"`
}

// requestWire is the body posted to a remote service and embedded in prompts.
type requestWire struct {
	Domain   Domain         `json:"domain"`
	Channel  intent.Channel `json:"channel"`
	Text     string         `json:"text,omitempty"`
	Media    []byte         `json:"media,omitempty"`
	MimeType string         `json:"mime_type,omitempty"`
	Context  intent.Context `json:"context"`
}

func newRequestWire(domain Domain, req intent.Request) requestWire {
	return requestWire{
		Domain:   domain,
		Channel:  req.Input.Channel,
		Text:     req.Input.Text,
		Media:    req.Input.Media,
		MimeType: req.Input.MimeType,
		Context:  req.Context,
	}
}

// cleanJSON strips markdown code fences and any prose around the outermost
// JSON object.
func cleanJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}

func unmarshal(body []byte, v any) error {
	if err := json.Unmarshal([]byte(cleanJSON(string(body))), v); err != nil {
		return intent.ErrMalformed.Wrap(err)
	}
	return nil
}

func parseKind(value string, fallback categories.Kind) categories.Kind {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return categories.Kind(value)
}

// parseTime accepts RFC 3339 or a bare date, the latter read in loc.
func parseTime(value string, loc *time.Location) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return &t
	}
	return nil
}

func contextLocation(ctx intent.Context) *time.Location {
	if ctx.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(ctx.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (w transactionWire) toIntent(ctx intent.Context) (intent.TransactionIntent, error) {
	currency := strings.ToUpper(strings.TrimSpace(w.Currency))
	if currency == "" {
		currency = ctx.Currency
	}

	out := intent.TransactionIntent{
		Amount:       w.Amount,
		Currency:     currency,
		Description:  strings.TrimSpace(w.Description),
		CategoryName: strings.TrimSpace(w.CategoryName),
		Kind:         parseKind(w.Kind, categories.KindExpense),
		Confidence:   w.Confidence,
		OccurredAt:   parseTime(w.OccurredAt, contextLocation(ctx)),
	}
	if s := w.SuggestedNewCategory; s != nil && strings.TrimSpace(s.Name) != "" {
		out.SuggestedNewCategory = &intent.SuggestedCategory{
			Name:  strings.TrimSpace(s.Name),
			Icon:  strings.TrimSpace(s.Icon),
			Color: strings.TrimSpace(s.Color),
			Kind:  parseKind(s.Kind, out.Kind),
		}
	}
	if err := out.Validate(); err != nil {
		return intent.TransactionIntent{}, err
	}
	return out, nil
}

func decodeTransaction(body []byte, ctx intent.Context) (intent.TransactionIntent, error) {
	var w transactionWire
	if err := unmarshal(body, &w); err != nil {
		return intent.TransactionIntent{}, err
	}
	return w.toIntent(ctx)
}

func decodeReceipt(body []byte, ctx intent.Context) ([]intent.TransactionIntent, error) {
	var w receiptWire
	if err := unmarshal(body, &w); err != nil {
		return nil, err
	}
	items := make([]intent.TransactionIntent, 0, len(w.Items))
	for _, item := range w.Items {
		parsed, err := item.toIntent(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, parsed)
	}
	return items, nil
}

func decodeBudget(body []byte) (intent.BudgetIntent, error) {
	var w budgetWire
	if err := unmarshal(body, &w); err != nil {
		return intent.BudgetIntent{}, err
	}
	out := intent.BudgetIntent{
		Action:       intent.BudgetAction(strings.ToLower(strings.TrimSpace(w.Action))),
		CategoryName: strings.TrimSpace(w.CategoryName),
		Amount:       w.Amount,
		Period:       strings.ToLower(strings.TrimSpace(w.Period)),
		Confidence:   w.Confidence,
	}
	if err := out.Validate(); err != nil {
		return intent.BudgetIntent{}, err
	}
	return out, nil
}

func decodeCategory(body []byte) (intent.CategoryIntent, error) {
	var w categoryWire
	if err := unmarshal(body, &w); err != nil {
		return intent.CategoryIntent{}, err
	}
	out := intent.CategoryIntent{
		Action:          intent.CategoryAction(strings.ToLower(strings.TrimSpace(w.Action))),
		CategoryName:    strings.TrimSpace(w.CategoryName),
		NewCategoryName: strings.TrimSpace(w.NewCategoryName),
		Icon:            strings.TrimSpace(w.Icon),
		Color:           strings.TrimSpace(w.Color),
		Kind:            parseKind(w.Kind, ""),
		Confidence:      w.Confidence,
	}
	if err := out.Validate(); err != nil {
		return intent.CategoryIntent{}, err
	}
	return out, nil
}

func decodeSavings(body []byte, ctx intent.Context) (intent.SavingsIntent, error) {
	var w savingsWire
	if err := unmarshal(body, &w); err != nil {
		return intent.SavingsIntent{}, err
	}
	out := intent.SavingsIntent{
		Action:         intent.SavingsAction(strings.ToLower(strings.TrimSpace(w.Action))),
		GoalName:       strings.TrimSpace(w.GoalName),
		TargetGoalName: strings.TrimSpace(w.TargetGoalName),
		Amount:         w.Amount,
		Frequency:      strings.ToLower(strings.TrimSpace(w.Frequency)),
		Deadline:       parseTime(w.Deadline, contextLocation(ctx)),
		Confidence:     w.Confidence,
	}
	if err := out.Validate(); err != nil {
		return intent.SavingsIntent{}, err
	}
	return out, nil
}
