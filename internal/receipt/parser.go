package receipt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const extractionPrompt = `You are a receipt parser. Extract ALL line items with their quantities and prices from this receipt image.
Ignore tax, tip, subtotal, and total lines.

Return ONLY a valid JSON array of objects with these exact keys:
- item_name: string (the item description)
- quantity: integer (default 1 if not shown)
- total_price: number (the line total for that item)

Example output:
[
  {"item_name": "Caesar Salad", "quantity": 1, "total_price": 12.50},
  {"item_name": "IPA Beer", "quantity": 2, "total_price": 16.00}
]

Return ONLY the JSON array. No markdown, no explanation, no code fences.`

// ErrEmptyCompletion is returned when the model produces no usable output
var ErrEmptyCompletion = errors.New("vision model returned no content")

// Parser extracts line items from receipt images using a vision model
type Parser struct {
	client *openai.Client
	model  string
}

// NewParser creates a receipt parser backed by the given API key and model
func NewParser(apiKey, model string) *Parser {
	return &Parser{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Parse sends the receipt image to the vision model and returns the extracted
// line items. If the first completion is not valid JSON, one repair attempt is
// made before giving up.
func (p *Parser) Parse(ctx context.Context, imageData []byte, mimeType string) ([]ParsedItem, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	raw, err := p.complete(ctx, []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: extractionPrompt},
				{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	items, err := decodeItems(raw)
	if err == nil {
		return items, nil
	}

	// Retry once, asking the model to repair its own output.
	repaired, err := p.complete(ctx, []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf("Fix this into valid JSON. Return ONLY a JSON array. No text.\n\n%s", raw),
		},
	})
	if err != nil {
		return nil, err
	}

	items, err = decodeItems(repaired)
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt items: %w", err)
	}
	return items, nil
}

// complete runs one chat completion and returns the trimmed content
func (p *Parser) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.model,
		MaxTokens: 2000,
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("vision completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

// decodeItems unmarshals the model output into items, tolerating markdown
// code fences around the JSON array.
func decodeItems(raw string) ([]ParsedItem, error) {
	cleaned := stripFences(raw)

	var items []ParsedItem
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].Quantity < 1 {
			items[i].Quantity = 1
		}
	}
	return items, nil
}

// stripFences removes a surrounding markdown code fence, if present
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
