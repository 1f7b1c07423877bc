package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"smartspend/internal/core"
)

// ErrUnparsable reports that the model's answer could not be turned into a
// usable expense draft. Callers surface it as "could not interpret input".
var ErrUnparsable = errors.New("could not interpret expense text")

// responseSchema for the structured-output declaration sent with each call.
type schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*schema `json:"properties,omitempty"`
	Items       *schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

func categoryNames() []string {
	cats := core.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return names
}

func expenseSchema() *schema {
	return &schema{
		Type: "OBJECT",
		Properties: map[string]*schema{
			"amount":      {Type: "NUMBER"},
			"description": {Type: "STRING"},
			"category":    {Type: "STRING", Enum: categoryNames()},
			"date":        {Type: "STRING", Description: "YYYY-MM-DD format"},
		},
		Required: []string{"amount", "description", "category"},
	}
}

func insightSchema() *schema {
	return &schema{
		Type: "ARRAY",
		Items: &schema{
			Type: "OBJECT",
			Properties: map[string]*schema{
				"title":   {Type: "STRING"},
				"content": {Type: "STRING"},
				"type":    {Type: "STRING", Enum: []string{"saving", "warning", "tip"}},
			},
			Required: []string{"title", "content", "type"},
		},
	}
}

type expensePayload struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

type insightPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// ParseExpense asks the model to turn free text into an expense draft.
//
// The draft comes back without a date when the text named none; resolving
// "today" is the caller's job so the current date is never trusted to the
// model. An unknown category is substituted with Other here, at the boundary,
// so no out-of-enum value ever leaves this package. Any transport or schema
// failure maps to ErrUnparsable; there is no retry.
func (c *Client) ParseExpense(ctx context.Context, text string) (*core.Draft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrUnparsable
	}

	prompt := fmt.Sprintf(
		`Parse the following text into a structured expense JSON object: %q.
The JSON should have "amount" (number), "description" (string), and "category" (one of: %s).
Include "date" (YYYY-MM-DD) only if the text mentions a date. Output ONLY valid JSON.`,
		text, strings.Join(categoryNames(), ", "))

	raw, err := c.generate(ctx, prompt, expenseSchema())
	if err != nil {
		slog.WarnContext(ctx, "Expense parse request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnparsable, err)
	}

	var p expensePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		slog.WarnContext(ctx, "Expense payload not valid JSON", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnparsable, err)
	}
	if p.Amount <= 0 {
		return nil, fmt.Errorf("%w: missing or non-positive amount", ErrUnparsable)
	}
	if strings.TrimSpace(p.Description) == "" {
		return nil, fmt.Errorf("%w: missing description", ErrUnparsable)
	}
	cents, err := core.CentsFromFloat(p.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparsable, err)
	}
	if p.Date != "" && core.ValidateDate(p.Date) != nil {
		return nil, fmt.Errorf("%w: malformed date %q", ErrUnparsable, p.Date)
	}

	category, known := core.ParseCategory(p.Category)
	if !known {
		slog.InfoContext(ctx, "Model produced unknown category, substituting Other", "category", p.Category)
	}

	return &core.Draft{
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Description: strings.TrimSpace(p.Description),
		Date:        p.Date,
	}, nil
}

// GenerateInsights summarizes the collection for the model and asks for a
// short list of categorized insights. Entries that fail schema validation
// are dropped individually; the rest survive. Callers should short-circuit
// on an empty collection instead of invoking this.
func (c *Client) GenerateInsights(ctx context.Context, txs []core.Transaction) ([]core.AIInsight, error) {
	lines := make([]string, len(txs))
	for i, t := range txs {
		lines[i] = fmt.Sprintf("%s: %s for %s (%s)", t.Date, t.Amount, t.Description, t.Category)
	}

	prompt := fmt.Sprintf(
		`Analyze these expenses and provide 3 key financial insights or tips.
Focus on spending patterns, potential savings, and budget warnings.
Expenses:
%s`, strings.Join(lines, "\n"))

	raw, err := c.generate(ctx, prompt, insightSchema())
	if err != nil {
		return nil, fmt.Errorf("generate insights: %w", err)
	}

	var payload []insightPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse insights payload: %w", err)
	}

	insights := make([]core.AIInsight, 0, len(payload))
	for _, p := range payload {
		ins := core.AIInsight{
			Title:   strings.TrimSpace(p.Title),
			Content: strings.TrimSpace(p.Content),
			Type:    core.InsightType(p.Type),
		}
		if ins.Title == "" || ins.Content == "" || !ins.Type.Valid() {
			slog.DebugContext(ctx, "Dropping malformed insight entry", "title", p.Title, "type", p.Type)
			continue
		}
		insights = append(insights, ins)
	}
	return insights, nil
}
