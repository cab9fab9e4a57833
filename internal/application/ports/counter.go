// Package ports defines the capabilities the counting service depends on.
package ports

import (
	"context"

	"github.com/jbctechsolutions/tokcount/internal/domain/provider"
)

// TokenCounter counts the tokens a model would see for text.
type TokenCounter interface {
	CountTokens(ctx context.Context, model, text string) (int, error)
}

// PriceLookup maps a pricing provider id and model to a price entry.
type PriceLookup interface {
	Lookup(providerID, model string) (provider.ModelCostRate, bool)
}

// PriceTable is a PriceLookup that can also enumerate its entries.
type PriceTable interface {
	PriceLookup
	Models(providerID string) []provider.ModelCostRate
}

// PriceSource loads price entries from an external dataset.
type PriceSource interface {
	Load(ctx context.Context) ([]provider.ModelCostRate, error)
}

var _ PriceTable = (*provider.CostCalculator)(nil)
