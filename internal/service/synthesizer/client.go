package synthesizer

import (
	"context"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/staffpulse/backend/internal/config"
	"github.com/staffpulse/backend/internal/domain"
)

// Client is the anthropic-backed completion client.
type Client struct {
	api   anthropic.Client
	model anthropic.Model
}

// NewClient validates the LLM configuration and constructs the completion
// client. A missing or placeholder API key is a constructor-time
// configuration error, not a deep runtime surprise.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, domain.NewConfigError("llm.api_key", "missing")
	}
	if config.IsPlaceholder(cfg.APIKey) {
		return nil, domain.NewConfigError("llm.api_key", "placeholder value")
	}
	if cfg.Model == "" {
		return nil, domain.NewConfigError("llm.model", "missing")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:   anthropic.NewClient(opts...),
		model: anthropic.Model(cfg.Model),
	}, nil
}

// Complete sends one prompt and returns the raw completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm api call: %w", err)
	}

	if len(msg.Content) == 0 {
		return "", fmt.Errorf("empty completion")
	}

	return msg.Content[0].Text, nil
}
