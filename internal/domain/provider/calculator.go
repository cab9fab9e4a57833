package provider

import (
	"sort"
	"strings"
	"sync"
)

// ModelCostRate represents the cost rates for a specific model.
type ModelCostRate struct {
	ModelID    string  // model identifier as listed in the price table
	Provider   string  // pricing provider id (openai, anthropic, google)
	InputRate  float64 // USD per million input tokens
	OutputRate float64 // USD per million output tokens
}

// InputPricePerToken returns the USD price of a single input token.
func (r ModelCostRate) InputPricePerToken() float64 {
	return r.InputRate / 1_000_000
}

// CostCalculator is an in-memory price table keyed by pricing provider and model.
// It is safe for concurrent use.
type CostCalculator struct {
	mu     sync.RWMutex
	models map[string]map[string]*ModelCostRate
}

// NewCostCalculator creates a new CostCalculator with an empty model registry.
func NewCostCalculator() *CostCalculator {
	return &CostCalculator{
		models: make(map[string]map[string]*ModelCostRate),
	}
}

// NewDefaultCostCalculator returns a calculator populated with DefaultModelPricing.
func NewDefaultCostCalculator() *CostCalculator {
	calc := NewCostCalculator()
	PopulateCostCalculator(calc)
	return calc
}

// RegisterModel registers a model with its provider and cost rates.
// If the model already exists, its rates are updated.
func (c *CostCalculator) RegisterModel(rate ModelCostRate) {
	providerID := strings.ToLower(rate.Provider)

	c.mu.Lock()
	defer c.mu.Unlock()

	byModel, ok := c.models[providerID]
	if !ok {
		byModel = make(map[string]*ModelCostRate)
		c.models[providerID] = byModel
	}
	rate.Provider = providerID
	byModel[rate.ModelID] = &rate
}

// Lookup finds the price entry for a model.
// Matching tries the exact id, then a case-insensitive id, then the longest
// registered id that prefixes the requested model up to a version suffix
// separator ("gpt-4o-2024-08-06" prices as gpt-4o; "gpt-4.5" is not gpt-4).
func (c *CostCalculator) Lookup(providerID, model string) (ModelCostRate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byModel := c.models[strings.ToLower(providerID)]
	if len(byModel) == 0 || model == "" {
		return ModelCostRate{}, false
	}

	if rate, ok := byModel[model]; ok {
		return *rate, true
	}

	lower := strings.ToLower(model)
	var best *ModelCostRate
	for id, rate := range byModel {
		candidate := strings.ToLower(id)
		if candidate == lower {
			return *rate, true
		}
		if isVersionOf(lower, candidate) && (best == nil || len(id) > len(best.ModelID)) {
			best = rate
		}
	}
	if best == nil {
		return ModelCostRate{}, false
	}
	return *best, true
}

// suffixSeparators may follow a base model id in a dated or tagged variant.
const suffixSeparators = "-@:"

func isVersionOf(model, base string) bool {
	return len(model) > len(base) &&
		strings.HasPrefix(model, base) &&
		strings.IndexByte(suffixSeparators, model[len(base)]) >= 0
}

// EstimateInputCost prices tokens as model input.
// The boolean is false when the model has no price entry.
func (c *CostCalculator) EstimateInputCost(p Provider, model string, tokens int) (*CostEstimate, bool) {
	rate, ok := c.Lookup(p.PricingID(), model)
	if !ok {
		return nil, false
	}
	return NewCostEstimate(p, model, rate, tokens), true
}

// Models returns the price entries registered for a pricing provider, sorted by model id.
func (c *CostCalculator) Models(providerID string) []ModelCostRate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byModel := c.models[strings.ToLower(providerID)]
	rates := make([]ModelCostRate, 0, len(byModel))
	for _, rate := range byModel {
		rates = append(rates, *rate)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].ModelID < rates[j].ModelID })
	return rates
}

// ModelCount returns the number of registered models.
func (c *CostCalculator) ModelCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, byModel := range c.models {
		n += len(byModel)
	}
	return n
}

// Merge registers every entry of rates, overriding existing ones.
func (c *CostCalculator) Merge(rates []ModelCostRate) {
	for _, rate := range rates {
		c.RegisterModel(rate)
	}
}

// Clone creates a deep copy of the CostCalculator with all registered models.
func (c *CostCalculator) Clone() *CostCalculator {
	c.mu.RLock()
	defer c.mu.RUnlock()

	clone := NewCostCalculator()
	for providerID, byModel := range c.models {
		copied := make(map[string]*ModelCostRate, len(byModel))
		for id, rate := range byModel {
			r := *rate
			copied[id] = &r
		}
		clone.models[providerID] = copied
	}
	return clone
}
