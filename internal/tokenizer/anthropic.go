package tokenizer

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// DefaultAnthropicModel is the model whose tokenizer the count endpoint uses.
const DefaultAnthropicModel = "claude-sonnet-4-6"

// AnthropicCounter counts tokens with the Anthropic count_tokens endpoint.
type AnthropicCounter struct {
	client *anthropic.Client
	model  string
}

// NewAnthropic creates an AnthropicCounter. An empty apiKey yields ErrUnavailable.
// baseURL may be empty to use the public API.
func NewAnthropic(apiKey, model, baseURL string) (*AnthropicCounter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: anthropic: no API key configured (set ANTHROPIC_API_KEY)", ErrUnavailable)
	}
	if model == "" {
		model = DefaultAnthropicModel
	}

	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &AnthropicCounter{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}, nil
}

func (c *AnthropicCounter) Name() string { return BackendAnthropic }

// Count sends text as a single user message and returns the input token count.
func (c *AnthropicCounter) Count(ctx context.Context, text string) (int, error) {
	// The endpoint rejects empty content blocks.
	if text == "" {
		return 0, nil
	}

	resp, err := c.client.CountTokens(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(text)},
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("%w: anthropic count tokens: %w", ErrFailed, err)
	}
	return resp.InputTokens, nil
}
