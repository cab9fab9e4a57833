// Package tokens defines the request and result values of a token count.
package tokens

import (
	"strings"

	domainErrors "github.com/jbctechsolutions/tokcount/internal/domain/errors"
	"github.com/jbctechsolutions/tokcount/internal/domain/provider"
)

// CountRequest asks for the token count of Text under Provider and Model.
type CountRequest struct {
	Provider     provider.Provider
	Model        string // empty selects the provider's default model
	Text         string
	EstimateCost bool
}

// Validate rejects requests that must not reach any counter.
func (r CountRequest) Validate() error {
	if !r.Provider.IsValid() {
		return domainErrors.WithContext(
			domainErrors.Validation("unsupported provider "+string(r.Provider), domainErrors.ErrUnsupportedProvider),
			"provider", string(r.Provider))
	}
	if strings.TrimSpace(r.Text) == "" {
		return domainErrors.Validation("Input text cannot be empty", domainErrors.ErrEmptyText)
	}
	return nil
}

// Resolved returns a copy with the model defaulted.
func (r CountRequest) Resolved() CountRequest {
	r.Model = r.Provider.ResolveModel(r.Model)
	return r
}

// CountResult is the outcome of one count.
type CountResult struct {
	Tokens        int               `json:"tokens"`
	EstimatedCost *float64          `json:"estimated_cost,omitempty"`
	MatchedModel  string            `json:"matched_model,omitempty"`
	Provider      provider.Provider `json:"provider"`
	Model         string            `json:"model"`
	Offline       bool              `json:"offline"`
}

// NewResult assembles a result from a resolved request, the raw count, and an
// optional cost estimate. Nothing is looked up again.
func NewResult(req CountRequest, count int, offline bool, estimate *provider.CostEstimate) *CountResult {
	if count < 0 {
		count = 0
	}
	result := &CountResult{
		Tokens:   count,
		Provider: req.Provider,
		Model:    req.Model,
		Offline:  offline,
	}
	if estimate != nil {
		cost := estimate.InputCost
		if cost < 0 {
			cost = 0
		}
		result.EstimatedCost = &cost
		result.MatchedModel = estimate.MatchedModel
	}
	return result
}

// HasCost reports whether a cost was estimated.
func (r *CountResult) HasCost() bool {
	return r != nil && r.EstimatedCost != nil
}

// ProviderLabel returns the display name of the provider.
func (r *CountResult) ProviderLabel() string {
	return r.Provider.DisplayName()
}

// MatchedDifferentModel reports whether the price entry differs from the counted model.
func (r *CountResult) MatchedDifferentModel() bool {
	return r.HasCost() && r.MatchedModel != "" && r.MatchedModel != r.Model
}
