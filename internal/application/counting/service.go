// Package counting dispatches token counts to the provider counters and
// attaches optional input-cost estimates.
package counting

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jbctechsolutions/tokcount/internal/adapters/provider/anthropic"
	"github.com/jbctechsolutions/tokcount/internal/adapters/provider/gemini"
	"github.com/jbctechsolutions/tokcount/internal/application/ports"
	domainErrors "github.com/jbctechsolutions/tokcount/internal/domain/errors"
	"github.com/jbctechsolutions/tokcount/internal/domain/provider"
	"github.com/jbctechsolutions/tokcount/internal/domain/tokens"
	"github.com/jbctechsolutions/tokcount/internal/infrastructure/logging"
	"github.com/jbctechsolutions/tokcount/internal/infrastructure/tokenizer"
	"github.com/jbctechsolutions/tokcount/internal/infrastructure/tracing"
)

// AnthropicFactory builds the Anthropic counter once a key is known.
type AnthropicFactory func(cfg anthropic.Config) ports.TokenCounter

// GeminiFactory builds the Gemini counter once credentials are known.
type GeminiFactory func(ctx context.Context, cfg gemini.Config) (ports.TokenCounter, error)

// Options configures a Service. Zero values select the defaults.
type Options struct {
	// Credentials are resolved against the environment by New.
	Credentials Credentials
	Getenv      func(string) string

	// ConfigCredentials fill whatever Credentials and the environment leave empty.
	ConfigCredentials Credentials

	// DefaultModels overrides the built-in default model per provider.
	DefaultModels map[provider.Provider]string

	AnthropicBaseURL string
	AnthropicTimeout time.Duration
	GeminiBaseURL    string
	GeminiTimeout    time.Duration

	Pricing ports.PriceLookup
	Logger  *logging.Logger
	Tracer  *tracing.Tracer

	Local            ports.TokenCounter
	AnthropicFactory AnthropicFactory
	GeminiFactory    GeminiFactory
}

// Service counts tokens for any supported provider.
// It is safe for concurrent use; remote clients are created on first use and reused.
type Service struct {
	creds         Credentials
	defaultModels map[provider.Provider]string
	opts          Options

	pricing ports.PriceLookup
	logger  *logging.Logger
	tracer  *tracing.Tracer
	local   ports.TokenCounter

	mu        sync.Mutex
	anthropic ports.TokenCounter
	gemini    ports.TokenCounter
}

// New creates a Service. No network activity happens here.
func New(opts Options) *Service {
	s := &Service{
		creds:         ResolveCredentialsWithFallback(opts.Credentials, opts.Getenv, opts.ConfigCredentials),
		defaultModels: make(map[provider.Provider]string),
		opts:          opts,
		pricing:       opts.Pricing,
		logger:        opts.Logger,
		tracer:        opts.Tracer,
		local:         opts.Local,
	}
	for p, m := range opts.DefaultModels {
		if m != "" {
			s.defaultModels[p] = m
		}
	}
	if s.pricing == nil {
		s.pricing = provider.NewDefaultCostCalculator()
	}
	if s.logger == nil {
		s.logger = logging.Nop()
	}
	if s.tracer == nil {
		s.tracer = tracing.Noop()
	}
	if s.local == nil {
		s.local = tokenizer.NewEstimator()
	}
	if s.opts.AnthropicFactory == nil {
		s.opts.AnthropicFactory = func(cfg anthropic.Config) ports.TokenCounter {
			return anthropic.NewCounter(cfg)
		}
	}
	if s.opts.GeminiFactory == nil {
		s.opts.GeminiFactory = func(ctx context.Context, cfg gemini.Config) (ports.TokenCounter, error) {
			return gemini.NewCounter(ctx, cfg)
		}
	}
	return s
}

// Credentials returns the resolved credentials.
func (s *Service) Credentials() Credentials {
	return s.creds
}

// DefaultModel returns the model used for p when a request names none.
func (s *Service) DefaultModel(p provider.Provider) string {
	if m, ok := s.defaultModels[p]; ok {
		return m
	}
	return p.DefaultModel()
}

// CountTokens counts text for p and model, estimating input cost when asked.
func (s *Service) CountTokens(ctx context.Context, text string, p provider.Provider, model string, estimateCost bool) (*tokens.CountResult, error) {
	return s.Count(ctx, tokens.CountRequest{
		Provider:     p,
		Model:        model,
		Text:         text,
		EstimateCost: estimateCost,
	})
}

// Count validates req, dispatches it to the provider's counter, and assembles the result.
// Validation and credential errors are raised before any client is built.
// Errors from the provider SDKs are returned unwrapped.
func (s *Service) Count(ctx context.Context, req tokens.CountRequest) (*tokens.CountResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Model) == "" {
		req.Model = s.DefaultModel(req.Provider)
	}
	req = req.Resolved()
	offline := req.Provider.IsOffline()

	ctx = logging.WithProvider(ctx, req.Provider.String())
	ctx = logging.WithModel(ctx, req.Model)
	ctx, span := s.tracer.StartCountSpan(ctx, req.Provider.String(), req.Model, offline)

	start := time.Now()
	logging.LogCountStart(ctx, s.logger, len(req.Text), offline)

	count, err := s.dispatch(ctx, req)
	if err != nil {
		logging.LogCountFailed(ctx, s.logger, err, time.Since(start))
		span.EndWithError(err)
		return nil, err
	}
	if count < 0 {
		count = 0
	}
	logging.LogCountComplete(ctx, s.logger, count, time.Since(start))
	span.SetTokens(count)

	var estimate *provider.CostEstimate
	if req.EstimateCost {
		estimate = s.EstimateCost(req.Provider, req.Model, count)
		if estimate != nil {
			logging.LogCostEstimated(ctx, s.logger, estimate.MatchedModel, estimate.PricePerToken, estimate.InputCost)
			span.SetCost(estimate.InputCost, estimate.MatchedModel)
		} else {
			logging.LogCostUnavailable(ctx, s.logger)
			span.SetCostUnavailable()
		}
	}
	span.End()

	return tokens.NewResult(req, count, offline, estimate), nil
}

// EstimateCost prices tokens as input to model. It returns nil when the
// price table has no entry for the model.
func (s *Service) EstimateCost(p provider.Provider, model string, count int) *provider.CostEstimate {
	rate, ok := s.pricing.Lookup(p.PricingID(), model)
	if !ok {
		return nil
	}
	return provider.NewCostEstimate(p, model, rate, count)
}

func (s *Service) dispatch(ctx context.Context, req tokens.CountRequest) (int, error) {
	switch req.Provider {
	case provider.OpenAI:
		return s.local.CountTokens(ctx, req.Model, req.Text)

	case provider.Anthropic:
		counter, err := s.anthropicCounter()
		if err != nil {
			return 0, err
		}
		return counter.CountTokens(ctx, req.Model, req.Text)

	case provider.Gemini:
		counter, err := s.geminiCounter(ctx)
		if err != nil {
			return 0, err
		}
		return counter.CountTokens(ctx, req.Model, req.Text)

	default:
		return 0, domainErrors.Validation("unsupported provider "+req.Provider.String(), domainErrors.ErrUnsupportedProvider)
	}
}

func (s *Service) anthropicCounter() (ports.TokenCounter, error) {
	if s.creds.AnthropicAPIKey == "" {
		return nil, domainErrors.MissingCredential(
			"Anthropic API key is required for token counting. Provide --anthropic-api-key or set "+EnvAnthropicAPIKey,
			EnvAnthropicAPIKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.anthropic == nil {
		s.anthropic = s.opts.AnthropicFactory(anthropic.Config{
			APIKey:  s.creds.AnthropicAPIKey,
			BaseURL: s.opts.AnthropicBaseURL,
			Timeout: s.opts.AnthropicTimeout,
		})
	}
	return s.anthropic, nil
}

func (s *Service) geminiCounter(ctx context.Context) (ports.TokenCounter, error) {
	if s.creds.UseVertexAI {
		if s.creds.GeminiProjectID == "" {
			return nil, domainErrors.MissingCredential(
				"Gemini project ID is required when using Vertex AI. Provide --gemini-project or set "+EnvGoogleProject,
				EnvGoogleProject)
		}
	} else if s.creds.GeminiAPIKey == "" {
		return nil, domainErrors.MissingCredential(
			"Gemini API key is required for token counting. Provide --gemini-api-key or set "+EnvGoogleAPIKey+" or "+EnvGeminiAPIKey,
			EnvGoogleAPIKey, EnvGeminiAPIKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gemini == nil {
		counter, err := s.opts.GeminiFactory(ctx, gemini.Config{
			APIKey:      s.creds.GeminiAPIKey,
			UseVertexAI: s.creds.UseVertexAI,
			ProjectID:   s.creds.GeminiProjectID,
			Location:    s.creds.GeminiLocation,
			BaseURL:     s.opts.GeminiBaseURL,
			Timeout:     s.opts.GeminiTimeout,
		})
		if err != nil {
			return nil, err
		}
		s.gemini = counter
	}
	return s.gemini, nil
}
