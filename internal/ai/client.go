package ai

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/unclebandit/mailpulse-backend/internal/metrics"
)

// ErrNoChoices is returned when the provider answers without any completion.
var ErrNoChoices = errors.New("completion returned no choices")

// Completer turns a system and a user prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Client calls an OpenAI-compatible chat completion API (Groq by default).
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
}

func NewClient(apiKey, baseURL, model string, maxTokens int) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:       openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *Client) Complete(ctx context.Context, system, prompt string) (text string, err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.RecordUpstreamCall("ai", status, time.Since(start))
	}()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

var _ Completer = (*Client)(nil)
