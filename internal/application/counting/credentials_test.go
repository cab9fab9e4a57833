package counting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestResolveCredentials(t *testing.T) {
	tests := []struct {
		name     string
		explicit Credentials
		env      map[string]string
		want     Credentials
	}{
		{
			name: "nothing set",
			want: Credentials{GeminiLocation: DefaultGeminiLocation},
		},
		{
			name: "environment only",
			env: map[string]string{
				EnvAnthropicAPIKey: "ant-env",
				EnvGeminiAPIKey:    "gem-env",
			},
			want: Credentials{
				AnthropicAPIKey: "ant-env",
				GeminiAPIKey:    "gem-env",
				GeminiLocation:  DefaultGeminiLocation,
			},
		},
		{
			name: "GOOGLE_API_KEY wins over GEMINI_API_KEY",
			env: map[string]string{
				EnvGoogleAPIKey: "google-key",
				EnvGeminiAPIKey: "gemini-key",
			},
			want: Credentials{GeminiAPIKey: "google-key", GeminiLocation: DefaultGeminiLocation},
		},
		{
			name:     "explicit wins over environment",
			explicit: Credentials{AnthropicAPIKey: "ant-explicit", GeminiAPIKey: "gem-explicit"},
			env: map[string]string{
				EnvAnthropicAPIKey: "ant-env",
				EnvGoogleAPIKey:    "google-key",
			},
			want: Credentials{
				AnthropicAPIKey: "ant-explicit",
				GeminiAPIKey:    "gem-explicit",
				GeminiLocation:  DefaultGeminiLocation,
			},
		},
		{
			name: "blank values are ignored",
			env: map[string]string{
				EnvGoogleAPIKey: "   ",
				EnvGeminiAPIKey: "gemini-key",
			},
			want: Credentials{GeminiAPIKey: "gemini-key", GeminiLocation: DefaultGeminiLocation},
		},
		{
			name: "vertex from environment",
			env: map[string]string{
				EnvGoogleUseVertexAI: "true",
				EnvGoogleProject:     "proj",
				EnvGoogleLocation:    "europe-west4",
			},
			want: Credentials{
				UseVertexAI:     true,
				GeminiProjectID: "proj",
				GeminiLocation:  "europe-west4",
			},
		},
		{
			name:     "explicit vertex settings",
			explicit: Credentials{UseVertexAI: true, GeminiProjectID: "p1", GeminiLocation: "asia-east1"},
			env:      map[string]string{EnvGoogleProject: "p2", EnvGoogleUseVertexAI: "false"},
			want:     Credentials{UseVertexAI: true, GeminiProjectID: "p1", GeminiLocation: "asia-east1"},
		},
		{
			name: "unparseable vertex flag is false",
			env:  map[string]string{EnvGoogleUseVertexAI: "maybe"},
			want: Credentials{GeminiLocation: DefaultGeminiLocation},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCredentials(tt.explicit, envMap(tt.env))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCredentialsWithFallback(t *testing.T) {
	fallback := Credentials{
		GeminiProjectID: "cfg-project",
		GeminiLocation:  "europe-west4",
		UseVertexAI:     true,
	}

	tests := []struct {
		name     string
		explicit Credentials
		env      map[string]string
		want     Credentials
	}{
		{
			name: "fallback fills empty fields",
			want: Credentials{UseVertexAI: true, GeminiProjectID: "cfg-project", GeminiLocation: "europe-west4"},
		},
		{
			name: "environment wins over fallback",
			env:  map[string]string{EnvGoogleProject: "env-project", EnvGoogleLocation: "us-east1"},
			want: Credentials{UseVertexAI: true, GeminiProjectID: "env-project", GeminiLocation: "us-east1"},
		},
		{
			name:     "explicit wins over environment and fallback",
			explicit: Credentials{GeminiProjectID: "flag-project"},
			env:      map[string]string{EnvGoogleProject: "env-project"},
			want:     Credentials{UseVertexAI: true, GeminiProjectID: "flag-project", GeminiLocation: "europe-west4"},
		},
		{
			name: "environment can switch vertex off",
			env:  map[string]string{EnvGoogleUseVertexAI: "false"},
			want: Credentials{GeminiProjectID: "cfg-project", GeminiLocation: "europe-west4"},
		},
		{
			name: "unparseable environment keeps fallback",
			env:  map[string]string{EnvGoogleUseVertexAI: "maybe"},
			want: Credentials{UseVertexAI: true, GeminiProjectID: "cfg-project", GeminiLocation: "europe-west4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCredentialsWithFallback(tt.explicit, envMap(tt.env), fallback)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCredentials_ExplicitFalseDoesNotOverrideEnvironment(t *testing.T) {
	got := ResolveCredentials(Credentials{UseVertexAI: false}, envMap(map[string]string{EnvGoogleUseVertexAI: "true"}))
	assert.True(t, got.UseVertexAI)
}

func TestResolveCredentials_NilGetenvUsesProcessEnv(t *testing.T) {
	t.Setenv(EnvAnthropicAPIKey, "from-process")
	t.Setenv(EnvGoogleAPIKey, "")
	t.Setenv(EnvGeminiAPIKey, "")

	got := ResolveCredentials(Credentials{}, nil)
	assert.Equal(t, "from-process", got.AnthropicAPIKey)
	assert.Empty(t, got.GeminiAPIKey)
}
