// Package openai provides an OpenAI-compatible Generator for
// deployments that serve the fine-tuned model behind an OpenAI API.
package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Client implements chatbot.Generator over the OpenAI chat API.
type Client struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

// Config for the OpenAI generator.
type Config struct {
	// APIKey is the OpenAI API key. Required.
	APIKey string

	// BaseURL points at an OpenAI-compatible server. Optional.
	BaseURL string

	// Model is the model name. Defaults to DefaultModel.
	Model string

	// SystemPrompt is prepended to every request. Optional.
	SystemPrompt string
}

// New creates an OpenAI-backed generator.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
	}, nil
}

// Generate sends the prompt as a chat completion and returns the text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if c.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}
