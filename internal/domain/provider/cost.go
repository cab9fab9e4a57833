package provider

// CostEstimate is the input-token cost of a counted request.
// Output tokens are never priced; their number is unknown before generation.
type CostEstimate struct {
	Provider      Provider
	Model         string  // model that was requested
	MatchedModel  string  // price table entry the estimate came from
	InputTokens   int
	PricePerToken float64 // USD
	InputCost     float64 // USD
}

// NewCostEstimate prices tokens with rate.
func NewCostEstimate(p Provider, model string, rate ModelCostRate, tokens int) *CostEstimate {
	if tokens < 0 {
		tokens = 0
	}
	price := rate.InputPricePerToken()
	if price < 0 {
		price = 0
	}
	return &CostEstimate{
		Provider:      p,
		Model:         model,
		MatchedModel:  rate.ModelID,
		InputTokens:   tokens,
		PricePerToken: price,
		InputCost:     float64(tokens) * price,
	}
}

// IsPrefixMatch reports whether the estimate used a price entry other than the requested model.
func (e *CostEstimate) IsPrefixMatch() bool {
	return e != nil && e.MatchedModel != e.Model
}
