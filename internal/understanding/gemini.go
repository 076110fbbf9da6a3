package understanding

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fintrack-go/internal/domain/intent"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-1.5-flash"

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiCompleter asks a Gemini model for strict JSON. Audio and images are
// sent inline as blobs next to the prompt.
type GeminiCompleter struct {
	client *genai.Client
	model  generator
}

func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("unable to create gemini client: %w", err)
	}

	m := client.GenerativeModel(model)
	m.SetTemperature(0.1)
	m.ResponseMIMEType = "application/json"

	return &GeminiCompleter{client: client, model: m}, nil
}

func (g *GeminiCompleter) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiCompleter) Complete(ctx context.Context, domain Domain, req intent.Request) ([]byte, error) {
	prompt, err := buildPrompt(domain, req)
	if err != nil {
		return nil, err
	}

	parts := []genai.Part{genai.Text(prompt)}
	if len(req.Input.Media) > 0 {
		parts = append(parts, &genai.Blob{MIMEType: req.Input.MimeType, Data: req.Input.Media})
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, intent.ErrMalformed.Withf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return nil, intent.ErrMalformed.Withf("gemini returned no text")
	}
	return []byte(cleanJSON(sb.String())), nil
}

var domainInstructions = map[Domain]string{
	DomainTransaction: `Extract one financial transaction. Respond with:
{"amount": number > 0, "currency": "ISO code", "description": "", "category_name": "one of the user's categories or empty",
 "kind": "expense|income", "confidence": 0..1, "occurred_at": "YYYY-MM-DD or empty",
 "suggested_new_category": {"name": "", "icon": "single emoji", "color": "#RRGGBB", "kind": "expense|income"} or null}
Only suggest a new category when none of the user's categories fits.`,
	DomainReceipt: `The attachment is a receipt. Extract every purchased line item. Respond with:
{"items": [{"amount": number > 0, "currency": "", "description": "", "category_name": "", "kind": "expense",
 "confidence": 0..1, "occurred_at": "YYYY-MM-DD or empty", "suggested_new_category": null}]}`,
	DomainBudget: `Interpret a budget command. Respond with:
{"action": "create|update|delete|check|list", "category_name": "", "amount": number or null,
 "period": "weekly|monthly or empty", "confidence": 0..1}`,
	DomainCategory: `Interpret a category command. Respond with:
{"action": "create|update|delete|list", "category_name": "", "new_category_name": "", "icon": "", "color": "",
 "kind": "expense|income or empty", "confidence": 0..1}`,
	DomainSavings: `Interpret a savings goal command. Respond with:
{"action": "save|create_goal|list_goals|check_balance|set_plan|transfer_goal|return_funds|delete_goal",
 "goal_name": "", "target_goal_name": "", "amount": number or null, "frequency": "weekly|biweekly|monthly or empty",
 "deadline": "YYYY-MM-DD or empty", "confidence": 0..1}`,
}

func buildPrompt(domain Domain, req intent.Request) (string, error) {
	instructions, ok := domainInstructions[domain]
	if !ok {
		return "", fmt.Errorf("unknown domain %q", domain)
	}

	userContext, err := json.Marshal(req.Context)
	if err != nil {
		return "", fmt.Errorf("failed to marshal context: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You are a personal finance assistant. Respond with ONLY a JSON object, no markdown.\n")
	sb.WriteString("Never invent an amount; use a confidence below 0.5 when the input is unclear.\n")
	sb.WriteString(instructions)
	sb.WriteString("\nUser context: ")
	sb.Write(userContext)
	sb.WriteString("\nInput channel: ")
	sb.WriteString(string(req.Input.Channel))
	if text := strings.TrimSpace(req.Input.Text); text != "" {
		sb.WriteString("\nMessage: ")
		sb.WriteString(text)
	}
	return sb.String(), nil
}
