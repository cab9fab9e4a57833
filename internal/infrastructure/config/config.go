// Package config provides configuration structs and utilities for the tokcount application.
// API keys are deliberately absent: they come from flags, the environment, or a .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config represents the root configuration for the tokcount application.
type Config struct {
	Providers ProviderConfigs `yaml:"providers"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Logging   LoggingConfig   `yaml:"logging"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// ProviderConfigs holds per-provider settings.
type ProviderConfigs struct {
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini"`
}

// OpenAIConfig holds settings for offline OpenAI counting.
type OpenAIConfig struct {
	DefaultModel string `yaml:"default_model,omitempty"`
}

// AnthropicConfig holds settings for the Anthropic count-tokens endpoint.
type AnthropicConfig struct {
	DefaultModel string        `yaml:"default_model,omitempty"`
	BaseURL      string        `yaml:"base_url,omitempty"` // Optional custom endpoint (e.g., for proxies)
	Timeout      time.Duration `yaml:"timeout,omitempty"`  // zero keeps the SDK default
}

// GeminiConfig holds settings for the Gemini count-tokens endpoint.
type GeminiConfig struct {
	DefaultModel string        `yaml:"default_model,omitempty"`
	BaseURL      string        `yaml:"base_url,omitempty"`
	UseVertexAI  bool          `yaml:"use_vertex_ai"`
	ProjectID    string        `yaml:"project_id,omitempty"`
	Location     string        `yaml:"location,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
}

// PricingConfig points at an optional external price dataset.
type PricingConfig struct {
	File string `yaml:"file,omitempty"` // .yaml, .yml or models.dev .json
}

// LoggingConfig holds configuration for application logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// TracingConfig holds configuration for distributed tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`       // Whether tracing is enabled
	ExporterType string  `yaml:"exporter_type"` // none, stdout, otlp
	OTLPEndpoint string  `yaml:"otlp_endpoint"` // OTLP collector endpoint
	SampleRate   float64 `yaml:"sample_rate"`   // Sampling rate (0.0 to 1.0)
	ServiceName  string  `yaml:"service_name"`  // Service name for traces
}

// Default configuration values.
const (
	DefaultGeminiLocation = "us-central1"
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "text"

	DefaultTracingEnabled      = false
	DefaultTracingExporterType = "none"
	DefaultTracingSampleRate   = 1.0
	DefaultTracingServiceName  = "tokcount"
)

// Valid log levels.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Valid log formats.
var validLogFormats = map[string]bool{
	"json": true,
	"text": true,
}

// Valid tracing exporter types.
var validTracingExporterTypes = map[string]bool{
	"none":   true,
	"stdout": true,
	"otlp":   true,
}

// NewDefaultConfig creates a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		Providers: ProviderConfigs{
			Gemini: GeminiConfig{
				Location: DefaultGeminiLocation,
			},
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Tracing: TracingConfig{
			Enabled:      DefaultTracingEnabled,
			ExporterType: DefaultTracingExporterType,
			SampleRate:   DefaultTracingSampleRate,
			ServiceName:  DefaultTracingServiceName,
		},
	}
}

// Validate checks if the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Providers.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("providers: %w", err))
	}

	if err := c.Tracing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks if the LoggingConfig is valid.
func (l *LoggingConfig) Validate() error {
	var errs []error

	if l.Level != "" && !validLogLevels[l.Level] {
		errs = append(errs, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", l.Level))
	}

	if l.Format != "" && !validLogFormats[l.Format] {
		errs = append(errs, fmt.Errorf("invalid log format %q: must be one of json, text", l.Format))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks if the ProviderConfigs is valid.
func (p *ProviderConfigs) Validate() error {
	var errs []error

	if p.Anthropic.Timeout < 0 {
		errs = append(errs, errors.New("anthropic: timeout must be non-negative"))
	}
	if err := validateBaseURL("anthropic", p.Anthropic.BaseURL); err != nil {
		errs = append(errs, err)
	}

	if p.Gemini.Timeout < 0 {
		errs = append(errs, errors.New("gemini: timeout must be non-negative"))
	}
	if err := validateBaseURL("gemini", p.Gemini.BaseURL); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func validateBaseURL(providerName, baseURL string) error {
	if baseURL == "" {
		return nil
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("%s: invalid base_url: %w", providerName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s: base_url must use http or https scheme", providerName)
	}
	return nil
}

// Validate checks if the TracingConfig is valid.
func (t *TracingConfig) Validate() error {
	var errs []error

	if t.ExporterType != "" && !validTracingExporterTypes[t.ExporterType] {
		errs = append(errs, fmt.Errorf("invalid exporter_type %q: must be one of none, stdout, otlp", t.ExporterType))
	}

	if t.SampleRate < 0 || t.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate))
	}

	if t.Enabled && t.ExporterType == "otlp" && t.OTLPEndpoint == "" {
		errs = append(errs, errors.New("otlp_endpoint is required when exporter_type is otlp"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
