package llm_client

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"talkitout/internal/metrics"
)

// Client is a thin wrapper over the OpenAI-compatible chat completions API.
// The rest of the application depends on exactly one capability: given a
// prompt, return generated text.
type Client struct {
	client  openai.Client
	model   string
	timeout time.Duration
	enabled bool
}

// NewClient creates a generation client. An empty apiKey produces a disabled
// client: Enabled() reports false and callers fall back per their own rules.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	c := &Client{model: model, timeout: timeout}
	if apiKey == "" {
		return c
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	c.client = openai.NewClient(opts...)
	c.enabled = true
	return c
}

// Enabled reports whether an API credential is configured.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Generate sends a single chat completion request and returns the text of the
// first choice. One shot, no retry; the configured timeout bounds the call.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("llm client is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(userPrompt))

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	})
	metrics.ObserveLLMRequest(time.Since(start), err == nil)
	if err != nil {
		return "", fmt.Errorf("error calling chat completions: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
