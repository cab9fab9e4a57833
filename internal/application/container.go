// Package application provides application-level services and dependency injection.
package application

import (
	"context"
	"fmt"
	"io"

	"github.com/jbctechsolutions/tokcount/internal/adapters/pricing"
	"github.com/jbctechsolutions/tokcount/internal/application/counting"
	"github.com/jbctechsolutions/tokcount/internal/domain/provider"
	"github.com/jbctechsolutions/tokcount/internal/infrastructure/config"
	"github.com/jbctechsolutions/tokcount/internal/infrastructure/logging"
	"github.com/jbctechsolutions/tokcount/internal/infrastructure/tracing"
)

// Container holds all application dependencies and provides a central
// point for dependency injection.
type Container struct {
	config  *config.Config
	verbose bool // Override log level to debug when true

	credentials counting.Credentials
	pricingFile string
	getenv      func(string) string
	logOutput   io.Writer

	logger         *logging.Logger
	tracer         *tracing.Tracer
	costCalculator *provider.CostCalculator
	pricedModels   int // entries loaded from the external price file

	counter *counting.Service
}

// Option customizes a Container.
type Option func(*Container)

// WithCredentials sets credentials given on the command line.
// Empty fields fall back to the environment.
func WithCredentials(creds counting.Credentials) Option {
	return func(c *Container) {
		c.credentials = creds
	}
}

// WithPricingFile overrides pricing.file from the config.
func WithPricingFile(path string) Option {
	return func(c *Container) {
		c.pricingFile = path
	}
}

// WithGetenv replaces the environment lookup.
func WithGetenv(getenv func(string) string) Option {
	return func(c *Container) {
		c.getenv = getenv
	}
}

// WithLogOutput redirects log output (stderr by default).
func WithLogOutput(w io.Writer) Option {
	return func(c *Container) {
		c.logOutput = w
	}
}

// NewContainer creates a new dependency injection container with all services
// initialized based on the provided configuration.
func NewContainer(cfg *config.Config, verbose bool, opts ...Option) (*Container, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	c := &Container{
		config:  cfg,
		verbose: verbose,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pricingFile == "" {
		c.pricingFile = cfg.Pricing.File
	}

	if err := c.initObservability(); err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	if err := c.initPricing(); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.initServices()

	return c, nil
}

// initObservability initializes logging and tracing.
func (c *Container) initObservability() error {
	logLevel := logging.Level(c.config.Logging.Level)
	if logLevel == "" {
		logLevel = logging.LevelWarn
	}
	if c.verbose {
		logLevel = logging.LevelDebug
	}

	logFormat := logging.FormatText
	if c.config.Logging.Format == "json" {
		logFormat = logging.FormatJSON
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logLevel
	logCfg.Format = logFormat
	if c.logOutput != nil {
		logCfg.Output = c.logOutput
	}
	c.logger = logging.New(logCfg)

	if !c.config.Tracing.Enabled {
		c.tracer = tracing.Noop()
		return nil
	}

	tracingCfg := tracing.DefaultConfig()
	tracingCfg.Enabled = true
	tracingCfg.ExporterType = tracing.ExporterType(c.config.Tracing.ExporterType)
	tracingCfg.OTLPEndpoint = c.config.Tracing.OTLPEndpoint
	tracingCfg.SampleRate = c.config.Tracing.SampleRate
	tracingCfg.Environment = "production"
	if c.config.Tracing.ServiceName != "" {
		tracingCfg.ServiceName = c.config.Tracing.ServiceName
	}

	tracer, err := tracing.New(context.Background(), tracingCfg)
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	c.tracer = tracer
	return nil
}

// initPricing builds the price table: built-in defaults, then the optional
// external dataset on top.
func (c *Container) initPricing() error {
	c.costCalculator = provider.NewDefaultCostCalculator()
	if c.pricingFile == "" {
		return nil
	}

	n, err := pricing.LoadInto(context.Background(), pricing.NewFileSource(c.pricingFile), c.costCalculator)
	if err != nil {
		return err
	}
	c.pricedModels = n
	c.logger.Debug("loaded pricing dataset", "path", c.pricingFile, "models", n)
	return nil
}

func (c *Container) initServices() {
	providers := c.config.Providers
	c.counter = counting.New(counting.Options{
		Credentials: c.credentials,
		Getenv:      c.getenv,
		ConfigCredentials: counting.Credentials{
			GeminiProjectID: providers.Gemini.ProjectID,
			GeminiLocation:  providers.Gemini.Location,
			UseVertexAI:     providers.Gemini.UseVertexAI,
		},
		DefaultModels: map[provider.Provider]string{
			provider.OpenAI:    providers.OpenAI.DefaultModel,
			provider.Anthropic: providers.Anthropic.DefaultModel,
			provider.Gemini:    providers.Gemini.DefaultModel,
		},
		AnthropicBaseURL: providers.Anthropic.BaseURL,
		AnthropicTimeout: providers.Anthropic.Timeout,
		GeminiBaseURL:    providers.Gemini.BaseURL,
		GeminiTimeout:    providers.Gemini.Timeout,
		Pricing:          c.costCalculator,
		Logger:           c.logger,
		Tracer:           c.tracer,
	})
}

// Close releases all resources held by the container.
func (c *Container) Close() error {
	if c.tracer != nil {
		if err := c.tracer.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("failed to shutdown tracer: %w", err)
		}
	}
	return nil
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Counter returns the token counting service.
func (c *Container) Counter() *counting.Service {
	return c.counter
}

// Logger returns the structured logger.
func (c *Container) Logger() *logging.Logger {
	return c.logger
}

// Tracer returns the tracer.
func (c *Container) Tracer() *tracing.Tracer {
	return c.tracer
}

// CostCalculator returns the price table.
func (c *Container) CostCalculator() *provider.CostCalculator {
	return c.costCalculator
}

// PricingFile returns the external price dataset in use, if any.
func (c *Container) PricingFile() string {
	return c.pricingFile
}

// PricedModels returns how many entries the external dataset contributed.
func (c *Container) PricedModels() int {
	return c.pricedModels
}
