package provider

import (
	"testing"

	domainErrors "github.com/jbctechsolutions/tokcount/internal/domain/errors"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input   string
		want    Provider
		wantErr bool
	}{
		{"openai", OpenAI, false},
		{"OpenAI", OpenAI, false},
		{" anthropic ", Anthropic, false},
		{"claude", Anthropic, false},
		{"gemini", Gemini, false},
		{"google", Gemini, false},
		{"mistral", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				if !domainErrors.Is(err, domainErrors.ErrUnsupportedProvider) {
					t.Errorf("expected ErrUnsupportedProvider, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseProvider(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestProviderMetadata(t *testing.T) {
	tests := []struct {
		p           Provider
		model       string
		pricingID   string
		offline     bool
		displayName string
	}{
		{OpenAI, "gpt-4o", "openai", true, "OpenAI"},
		{Anthropic, "claude-sonnet-4-20250514", "anthropic", false, "Anthropic"},
		{Gemini, "gemini-2.0-flash-001", "google", false, "Gemini"},
	}

	for _, tt := range tests {
		t.Run(tt.p.String(), func(t *testing.T) {
			if got := tt.p.DefaultModel(); got != tt.model {
				t.Errorf("DefaultModel() = %q, want %q", got, tt.model)
			}
			if got := tt.p.PricingID(); got != tt.pricingID {
				t.Errorf("PricingID() = %q, want %q", got, tt.pricingID)
			}
			if got := tt.p.IsOffline(); got != tt.offline {
				t.Errorf("IsOffline() = %v, want %v", got, tt.offline)
			}
			if got := tt.p.DisplayName(); got != tt.displayName {
				t.Errorf("DisplayName() = %q, want %q", got, tt.displayName)
			}
			if !tt.p.IsValid() {
				t.Error("IsValid() = false")
			}
		})
	}
}

func TestResolveModel(t *testing.T) {
	if got := Anthropic.ResolveModel(""); got != DefaultAnthropicModel {
		t.Errorf("ResolveModel(\"\") = %q, want default", got)
	}
	if got := Anthropic.ResolveModel("  "); got != DefaultAnthropicModel {
		t.Errorf("ResolveModel(blank) = %q, want default", got)
	}
	if got := OpenAI.ResolveModel("gpt-4"); got != "gpt-4" {
		t.Errorf("ResolveModel(gpt-4) = %q", got)
	}
}

func TestCredentialEnvVars(t *testing.T) {
	if vars := OpenAI.CredentialEnvVars(); len(vars) != 0 {
		t.Errorf("openai should need no credential, got %v", vars)
	}
	vars := Gemini.CredentialEnvVars()
	if len(vars) != 2 || vars[0] != "GOOGLE_API_KEY" || vars[1] != "GEMINI_API_KEY" {
		t.Errorf("unexpected gemini env vars: %v", vars)
	}
}

func TestProviderForPricingID(t *testing.T) {
	p, ok := ProviderForPricingID("google")
	if !ok || p != Gemini {
		t.Errorf("google should map to gemini, got %q %v", p, ok)
	}
	if _, ok := ProviderForPricingID("mistral"); ok {
		t.Error("mistral should not map to a provider")
	}
}
