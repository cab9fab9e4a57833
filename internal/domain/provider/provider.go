// Package provider contains domain types for token-counting providers and model pricing.
package provider

import (
	"fmt"
	"strings"

	domainErrors "github.com/jbctechsolutions/tokcount/internal/domain/errors"
)

// Provider identifies a token-counting backend.
type Provider string

// Supported providers.
const (
	OpenAI    Provider = "openai"
	Anthropic Provider = "anthropic"
	Gemini    Provider = "gemini"
)

// Pricing dataset provider identifiers.
const (
	PricingOpenAI    = "openai"
	PricingAnthropic = "anthropic"
	PricingGoogle    = "google"
)

// Default models used when a request leaves the model empty.
const (
	DefaultOpenAIModel    = "gpt-4o"
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
	DefaultGeminiModel    = "gemini-2.0-flash-001"
)

// All returns every supported provider in display order.
func All() []Provider {
	return []Provider{OpenAI, Anthropic, Gemini}
}

// ParseProvider resolves a provider tag, case-insensitively.
// "claude" and "google" are accepted as aliases.
func ParseProvider(name string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		return OpenAI, nil
	case "anthropic", "claude":
		return Anthropic, nil
	case "gemini", "google":
		return Gemini, nil
	}
	return "", domainErrors.WithContext(
		domainErrors.NewError(domainErrors.CodeValidation,
			fmt.Sprintf("unsupported provider %q (supported: openai, anthropic, gemini)", name),
			domainErrors.ErrUnsupportedProvider),
		"provider", name)
}

// String returns the provider tag.
func (p Provider) String() string {
	return string(p)
}

// IsValid reports whether p is one of the supported providers.
func (p Provider) IsValid() bool {
	switch p {
	case OpenAI, Anthropic, Gemini:
		return true
	}
	return false
}

// DisplayName returns a human-readable label.
func (p Provider) DisplayName() string {
	switch p {
	case OpenAI:
		return "OpenAI"
	case Anthropic:
		return "Anthropic"
	case Gemini:
		return "Gemini"
	}
	return string(p)
}

// DefaultModel returns the model used when none is requested.
func (p Provider) DefaultModel() string {
	switch p {
	case OpenAI:
		return DefaultOpenAIModel
	case Anthropic:
		return DefaultAnthropicModel
	case Gemini:
		return DefaultGeminiModel
	}
	return ""
}

// PricingID returns the provider identifier used by pricing datasets.
func (p Provider) PricingID() string {
	switch p {
	case OpenAI:
		return PricingOpenAI
	case Anthropic:
		return PricingAnthropic
	case Gemini:
		return PricingGoogle
	}
	return string(p)
}

// IsOffline reports whether counting happens locally without network access.
func (p Provider) IsOffline() bool {
	return p == OpenAI
}

// CredentialEnvVars lists the environment variables consulted for the
// provider's credential, highest precedence first.
func (p Provider) CredentialEnvVars() []string {
	switch p {
	case Anthropic:
		return []string{"ANTHROPIC_API_KEY"}
	case Gemini:
		return []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"}
	}
	return nil
}

// ResolveModel returns model, or the provider default when model is blank.
func (p Provider) ResolveModel(model string) string {
	if m := strings.TrimSpace(model); m != "" {
		return m
	}
	return p.DefaultModel()
}

// ProviderForPricingID maps a pricing dataset provider id back to a Provider.
func ProviderForPricingID(id string) (Provider, bool) {
	switch strings.ToLower(id) {
	case PricingOpenAI:
		return OpenAI, true
	case PricingAnthropic:
		return Anthropic, true
	case PricingGoogle, "gemini":
		return Gemini, true
	}
	return "", false
}
