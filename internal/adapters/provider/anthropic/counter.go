// Package anthropic counts tokens with the Anthropic count-tokens endpoint.
package anthropic

import (
	"context"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jbctechsolutions/tokcount/internal/application/ports"
)

// Config holds the client settings.
type Config struct {
	APIKey  string
	BaseURL string        // empty uses the SDK default
	Timeout time.Duration // per request; zero uses the SDK default
}

// Counter issues one POST /v1/messages/count_tokens per call.
type Counter struct {
	client anthropic.Client
	config Config
}

// Ensure Counter implements ports.TokenCounter at compile time.
var _ ports.TokenCounter = (*Counter)(nil)

// NewCounter creates a Counter. No request is made until CountTokens.
func NewCounter(config Config) *Counter {
	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.Timeout))
	}

	return &Counter{
		client: anthropic.NewClient(opts...),
		config: config,
	}
}

// CountTokens sends text as a single user message and returns input_tokens.
// SDK errors are returned as is.
func (c *Counter) CountTokens(ctx context.Context, model, text string) (int, error) {
	resp, err := c.client.Messages.CountTokens(ctx, anthropic.MessageCountTokensParams{
		Model: anthropic.Model(model),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return 0, err
	}
	return int(resp.InputTokens), nil
}
