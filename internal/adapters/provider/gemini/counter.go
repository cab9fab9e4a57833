// Package gemini counts tokens with the Gemini models.countTokens endpoint,
// through either the Gemini Developer API or Vertex AI.
package gemini

import (
	"context"
	"time"

	"google.golang.org/genai"

	"github.com/jbctechsolutions/tokcount/internal/application/ports"
)

// DefaultLocation is the Vertex AI region used when none is configured.
const DefaultLocation = "us-central1"

// Config holds the client settings.
type Config struct {
	APIKey      string
	UseVertexAI bool
	ProjectID   string
	Location    string
	BaseURL     string        // empty uses the SDK default
	Timeout     time.Duration // per request; zero means none
}

// Counter issues one models.countTokens call per CountTokens.
type Counter struct {
	client *genai.Client
	config Config
}

// Ensure Counter implements ports.TokenCounter at compile time.
var _ ports.TokenCounter = (*Counter)(nil)

// NewCounter builds the genai client. With Vertex AI the SDK resolves
// application default credentials here, and any failure is returned as is.
func NewCounter(ctx context.Context, config Config) (*Counter, error) {
	cc := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{BaseURL: config.BaseURL},
	}
	if config.UseVertexAI {
		if config.Location == "" {
			config.Location = DefaultLocation
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = config.ProjectID
		cc.Location = config.Location
	} else {
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = config.APIKey
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Counter{client: client, config: config}, nil
}

// CountTokens returns totalTokens for text sent as a single user turn.
// SDK errors are returned as is.
func (c *Counter) CountTokens(ctx context.Context, model, text string) (int, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	resp, err := c.client.Models.CountTokens(ctx, model, genai.Text(text), nil)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}
