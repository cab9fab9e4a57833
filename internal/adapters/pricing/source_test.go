package pricing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/jbctechsolutions/tokcount/internal/domain/errors"
	"github.com/jbctechsolutions/tokcount/internal/domain/provider"
)

const yamlDatasetFixture = `
models:
  - id: gpt-4o
    provider: openai
    input: 1.0
    output: 4.0
  - id: gemini-3-pro
    provider: google
    input: 2.0
    output: 12.0
`

const modelsDevDataset = `{
  "openai": {
    "id": "openai",
    "models": {
      "gpt-4o": {"id": "gpt-4o", "cost": {"input": 2.5, "output": 10}},
      "gpt-image-1": {"id": "gpt-image-1"}
    }
  },
  "google": {
    "models": {
      "gemini-2.5-pro": {"cost": {"input": 1.25, "output": 10}}
    }
  },
  "mistral": {
    "models": {
      "mistral-large": {"cost": {"input": 2, "output": 6}}
    }
  }
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSource_YAML(t *testing.T) {
	path := writeFile(t, "prices.yaml", yamlDatasetFixture)

	rates, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 2)

	assert.Equal(t, "gpt-4o", rates[0].ModelID)
	assert.Equal(t, provider.PricingOpenAI, rates[0].Provider)
	assert.Equal(t, 1.0, rates[0].InputRate)
	assert.Equal(t, provider.PricingGoogle, rates[1].Provider)
}

func TestFileSource_ModelsDevJSON(t *testing.T) {
	path := writeFile(t, "api.json", modelsDevDataset)

	rates, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)

	byID := make(map[string]provider.ModelCostRate)
	for _, r := range rates {
		byID[r.ModelID] = r
	}
	assert.Len(t, byID, 2, "unpriced and unknown-provider models are skipped")
	assert.Equal(t, 2.5, byID["gpt-4o"].InputRate)
	assert.Equal(t, provider.PricingGoogle, byID["gemini-2.5-pro"].Provider)
}

func TestLoadIntoOverridesDefaults(t *testing.T) {
	calc := provider.NewDefaultCostCalculator()
	path := writeFile(t, "prices.yml", yamlDatasetFixture)

	n, err := LoadInto(context.Background(), NewFileSource(path), calc)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	est, ok := calc.EstimateInputCost(provider.OpenAI, "gpt-4o", 1_000_000)
	require.True(t, ok)
	assert.InDelta(t, 1.0, est.InputCost, 1e-9)

	_, ok = calc.EstimateInputCost(provider.Gemini, "gemini-3-pro-preview", 10)
	assert.True(t, ok, "new entry should be usable as a prefix")
}

func TestFileSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad yaml", "p.yaml", "models: [unclosed"},
		{"missing id", "p.yaml", "models:\n  - provider: openai\n    input: 1\n"},
		{"unknown provider", "p.yaml", "models:\n  - id: x\n    provider: mistral\n    input: 1\n"},
		{"missing input", "p.yaml", "models:\n  - id: x\n    provider: openai\n"},
		{"negative price", "p.yaml", "models:\n  - id: x\n    provider: openai\n    input: -1\n"},
		{"bad json", "p.json", "{not json"},
		{"bad extension", "p.toml", "x = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := NewFileSource(path).Load(context.Background())
			require.Error(t, err)
			assert.True(t, domainErrors.Is(err, domainErrors.ErrInvalidPricing))
			assert.Equal(t, domainErrors.CodeConfiguration, domainErrors.CodeOf(err))
		})
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml")).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, domainErrors.CodeConfiguration, domainErrors.CodeOf(err))
}
