// Package ai wraps the AI vendor SDK for shopping-list generation, recipe
// analysis and image OCR. Calls are stateless pass-throughs: no retries, no
// caching.
package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/momsflavor/backend/internal/config"
	"github.com/momsflavor/backend/internal/domain"
)

// Client talks to the AI vendor. When no API key is configured the client
// still constructs; each call fails with a descriptive error instead.
type Client struct {
	llm        anthropic.Client
	model      string
	maxTokens  int64
	configured bool
	log        *slog.Logger
}

// New builds the AI client from config.
func New(cfg config.AIConfig, logger *slog.Logger) *Client {
	c := &Client{
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		configured: cfg.APIKey != "",
		log:        logger.With("adapter", "ai"),
	}
	if c.configured {
		c.llm = anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	}
	return c
}

// ShoppingList asks the model to turn a recipe's ingredient list into a
// categorized shopping list. Returns the raw JSON document.
func (c *Client) ShoppingList(ctx context.Context, recipe *domain.Recipe) (json.RawMessage, error) {
	if !c.configured {
		return nil, fmt.Errorf("ai vendor is not configured: set AI_API_KEY")
	}

	var ingredients strings.Builder
	for _, ing := range recipe.Ingredients {
		fmt.Fprintf(&ingredients, "- %s: %s %s\n", ing.Name, ing.Quantity, ing.Unit)
	}

	prompt := fmt.Sprintf(`You are a grocery shopping assistant.

Turn the ingredient list of the dish %q into a shopping list grouped by store section.

Ingredients:
%s
Output ONLY a valid JSON object matching this exact schema:
{
  "items": [
    {"name": "<ingredient>", "quantity": "<amount with unit>", "category": "<produce|meat|seafood|dairy|pantry|spices|other>"}
  ]
}

Rules:
- Keep quantities exactly as given, do not convert units
- One entry per distinct ingredient
- Output ONLY the JSON, no markdown, no explanations`, recipe.DishName, ingredients.String())

	return c.completeJSON(ctx, []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	})
}

// Analyze extracts a structured recipe draft from free-form text, e.g. a
// transcript or pasted description.
func (c *Client) Analyze(ctx context.Context, text string) (json.RawMessage, error) {
	if !c.configured {
		return nil, fmt.Errorf("ai vendor is not configured: set AI_API_KEY")
	}

	prompt := fmt.Sprintf(`You are a recipe editor.

Extract a structured recipe from the following text:

%s

Output ONLY a valid JSON object matching this exact schema:
{
  "dishName": "<short dish name>",
  "recipeName": "<title of this particular version>",
  "difficulty": "<very_easy|easy|normal|hard|very_hard>",
  "cookingTime": "<very_fast|fast|normal|slow|very_slow>",
  "ingredients": [{"name": "", "quantity": "", "unit": ""}],
  "instructions": [{"step": 1, "title": "", "description": "", "needsTime": false, "duration": ""}]
}

Rules:
- Number instructions densely starting at 1
- Set needsTime and a human-readable duration only for steps that wait on a timer
- Output ONLY the JSON, no markdown, no explanations`, text)

	return c.completeJSON(ctx, []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	})
}

// OCR extracts recipe text from an image via a vision message.
func (c *Client) OCR(ctx context.Context, image []byte, mediaType string) (string, error) {
	if !c.configured {
		return "", fmt.Errorf("ai vendor is not configured: set AI_API_KEY")
	}

	encoded := base64.StdEncoding.EncodeToString(image)

	msg, err := c.llm.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, encoded),
				anthropic.NewTextBlock("Transcribe all recipe text visible in this image. Output only the transcribed text, preserving the order of ingredients and steps."),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai ocr call: %w", err)
	}
	if len(msg.Content) == 0 {
		return "", fmt.Errorf("ai ocr call: empty response")
	}

	return msg.Content[0].Text, nil
}

func (c *Client) completeJSON(ctx context.Context, messages []anthropic.MessageParam) (json.RawMessage, error) {
	msg, err := c.llm.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages:  messages,
	})
	if err != nil {
		return nil, fmt.Errorf("ai api call: %w", err)
	}
	if len(msg.Content) == 0 {
		return nil, fmt.Errorf("ai api call: empty response")
	}

	jsonStr, err := extractJSON(msg.Content[0].Text)
	if err != nil {
		return nil, fmt.Errorf("ai api call: %w", err)
	}
	if !json.Valid([]byte(jsonStr)) {
		return nil, fmt.Errorf("ai api call: response does not contain valid JSON")
	}

	return json.RawMessage(jsonStr), nil
}

// extractJSON finds the first complete JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
