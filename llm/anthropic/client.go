// Package anthropic provides an Anthropic-backed Generator.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-3-5-haiku-latest"

// DefaultMaxTokens bounds the response length.
const DefaultMaxTokens = 1024

// Client implements chatbot.Generator over the Anthropic messages API.
type Client struct {
	client       anthropic.Client
	model        string
	maxTokens    int64
	systemPrompt string
}

// Config for the Anthropic generator.
type Config struct {
	// APIKey is the Anthropic API key. Falls back to ANTHROPIC_API_KEY.
	APIKey string

	// BaseURL overrides the API endpoint. Optional.
	BaseURL string

	// Model is the model name. Defaults to DefaultModel.
	Model string

	// MaxTokens bounds the response. Defaults to DefaultMaxTokens.
	MaxTokens int64

	// SystemPrompt is sent as the system block. Optional.
	SystemPrompt string
}

// New creates an Anthropic-backed generator.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client:       anthropic.NewClient(opts...),
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		systemPrompt: cfg.SystemPrompt,
	}, nil
}

// Generate sends the prompt as a single-message exchange and returns
// the concatenated text blocks.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if c.systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: c.systemPrompt}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", errors.New("empty response from Anthropic")
	}

	return text, nil
}
