package counting

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables consulted by ResolveCredentials.
const (
	EnvAnthropicAPIKey   = "ANTHROPIC_API_KEY"
	EnvGoogleAPIKey      = "GOOGLE_API_KEY"
	EnvGeminiAPIKey      = "GEMINI_API_KEY"
	EnvGoogleProject     = "GOOGLE_CLOUD_PROJECT"
	EnvGoogleLocation    = "GOOGLE_CLOUD_LOCATION"
	EnvGoogleUseVertexAI = "GOOGLE_GENAI_USE_VERTEXAI"
)

// DefaultGeminiLocation is the Vertex AI region used when none is given.
const DefaultGeminiLocation = "us-central1"

// Credentials are the values a remote counter needs. They are fixed for the
// lifetime of a Service.
type Credentials struct {
	AnthropicAPIKey string
	GeminiAPIKey    string
	GeminiProjectID string
	GeminiLocation  string
	UseVertexAI     bool
}

// ResolveCredentials fills empty fields of explicit from the environment.
// Explicit values always win. For Gemini, GOOGLE_API_KEY takes precedence
// over GEMINI_API_KEY. A nil getenv reads the process environment.
//
// UseVertexAI can only be switched on explicitly: an explicit false means
// "not set", so GOOGLE_GENAI_USE_VERTEXAI still applies.
func ResolveCredentials(explicit Credentials, getenv func(string) string) Credentials {
	return ResolveCredentialsWithFallback(explicit, getenv, Credentials{})
}

// ResolveCredentialsWithFallback resolves like ResolveCredentials, then
// fills what is still empty from fallback (the config file). Precedence is
// explicit, then environment, then fallback. A GOOGLE_GENAI_USE_VERTEXAI
// that parses as a boolean overrides fallback.UseVertexAI either way.
func ResolveCredentialsWithFallback(explicit Credentials, getenv func(string) string, fallback Credentials) Credentials {
	if getenv == nil {
		getenv = os.Getenv
	}

	resolved := Credentials{
		AnthropicAPIKey: firstNonEmpty(explicit.AnthropicAPIKey, getenv(EnvAnthropicAPIKey), fallback.AnthropicAPIKey),
		GeminiAPIKey:    firstNonEmpty(explicit.GeminiAPIKey, getenv(EnvGoogleAPIKey), getenv(EnvGeminiAPIKey), fallback.GeminiAPIKey),
		GeminiProjectID: firstNonEmpty(explicit.GeminiProjectID, getenv(EnvGoogleProject), fallback.GeminiProjectID),
		GeminiLocation:  firstNonEmpty(explicit.GeminiLocation, getenv(EnvGoogleLocation), fallback.GeminiLocation, DefaultGeminiLocation),
		UseVertexAI:     explicit.UseVertexAI,
	}
	if !resolved.UseVertexAI {
		if v, err := strconv.ParseBool(strings.TrimSpace(getenv(EnvGoogleUseVertexAI))); err == nil {
			resolved.UseVertexAI = v
		} else {
			resolved.UseVertexAI = fallback.UseVertexAI
		}
	}
	return resolved
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
