// Package pricing loads external price datasets into the cost calculator.
//
// Two formats are understood, chosen by file extension:
//
//	.yaml/.yml  models: [{id, provider, input, output}]
//	.json       models.dev layout: {"<provider>": {"models": {"<id>": {"cost": {"input": X, "output": Y}}}}}
//
// Rates are USD per million tokens in both.
package pricing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/jbctechsolutions/tokcount/internal/application/ports"
	domainErrors "github.com/jbctechsolutions/tokcount/internal/domain/errors"
	"github.com/jbctechsolutions/tokcount/internal/domain/provider"
)

// FileSource reads a price dataset from disk.
type FileSource struct {
	Path string
}

// Ensure FileSource implements ports.PriceSource at compile time.
var _ ports.PriceSource = (*FileSource)(nil)

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load reads and parses the dataset.
func (s *FileSource) Load(_ context.Context) ([]provider.ModelCostRate, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, invalid(s.Path, err)
	}

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml":
		return ParseYAML(data, s.Path)
	case ".json":
		return ParseModelsDev(data, s.Path)
	default:
		return nil, invalid(s.Path, fmt.Errorf("unsupported extension %q (want .yaml, .yml or .json)", filepath.Ext(s.Path)))
	}
}

type yamlDataset struct {
	Models []yamlModel `yaml:"models"`
}

type yamlModel struct {
	ID       string   `yaml:"id"`
	Provider string   `yaml:"provider"`
	Input    *float64 `yaml:"input"`
	Output   float64  `yaml:"output"`
}

// ParseYAML parses the YAML dataset layout.
func ParseYAML(data []byte, name string) ([]provider.ModelCostRate, error) {
	var ds yamlDataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, invalid(name, err)
	}

	rates := make([]provider.ModelCostRate, 0, len(ds.Models))
	for i, m := range ds.Models {
		if m.ID == "" {
			return nil, invalid(name, fmt.Errorf("models[%d]: id is required", i))
		}
		p, ok := provider.ProviderForPricingID(m.Provider)
		if !ok {
			return nil, invalid(name, fmt.Errorf("models[%d] (%s): unknown provider %q", i, m.ID, m.Provider))
		}
		if m.Input == nil {
			return nil, invalid(name, fmt.Errorf("models[%d] (%s): input price is required", i, m.ID))
		}
		if *m.Input < 0 || m.Output < 0 {
			return nil, invalid(name, fmt.Errorf("models[%d] (%s): prices must be non-negative", i, m.ID))
		}
		rates = append(rates, provider.ModelCostRate{
			ModelID:    m.ID,
			Provider:   p.PricingID(),
			InputRate:  *m.Input,
			OutputRate: m.Output,
		})
	}
	return rates, nil
}

// ParseModelsDev parses a models.dev style JSON document. Providers other than
// openai, anthropic and google, and models without an input price, are skipped.
func ParseModelsDev(data []byte, name string) ([]provider.ModelCostRate, error) {
	if !gjson.ValidBytes(data) {
		return nil, invalid(name, fmt.Errorf("malformed JSON"))
	}

	var rates []provider.ModelCostRate
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		p, ok := provider.ProviderForPricingID(key.String())
		if !ok {
			return true
		}
		value.Get("models").ForEach(func(id, model gjson.Result) bool {
			input := model.Get("cost.input")
			if !input.Exists() || input.Float() < 0 {
				return true
			}
			modelID := model.Get("id").String()
			if modelID == "" {
				modelID = id.String()
			}
			rates = append(rates, provider.ModelCostRate{
				ModelID:    modelID,
				Provider:   p.PricingID(),
				InputRate:  input.Float(),
				OutputRate: model.Get("cost.output").Float(),
			})
			return true
		})
		return true
	})
	return rates, nil
}

// LoadInto merges the source's entries into calc.
func LoadInto(ctx context.Context, src ports.PriceSource, calc *provider.CostCalculator) (int, error) {
	rates, err := src.Load(ctx)
	if err != nil {
		return 0, err
	}
	calc.Merge(rates)
	return len(rates), nil
}

func invalid(name string, cause error) error {
	return domainErrors.WithContext(
		domainErrors.Configuration(fmt.Sprintf("pricing dataset %s: %v", name, cause), domainErrors.ErrInvalidPricing),
		"path", name)
}
