package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	domainErrors "github.com/jbctechsolutions/tokcount/internal/domain/errors"
	"github.com/jbctechsolutions/tokcount/internal/domain/provider"
	"github.com/jbctechsolutions/tokcount/internal/presentation/cli/output"
)

// PriceRow is one entry of the price table in JSON output. Rates are USD
// per million tokens.
type PriceRow struct {
	Provider string  `json:"provider"`
	Model    string  `json:"model"`
	Input    float64 `json:"input_per_million"`
	Output   float64 `json:"output_per_million"`
}

// NewPricingCmd creates the pricing command.
func NewPricingCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "pricing [provider]",
		Short: "Show the price table used for cost estimates",
		Long: `Show the input and output prices (USD per million tokens) known to tokcount.

The table is the built-in defaults merged with --pricing or pricing.file from
the config. With --model, show only the entry a cost estimate for that model
would use.`,
		Example: `  tokcount pricing
  tokcount pricing anthropic
  tokcount pricing gemini --model gemini-2.0-flash-001`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPricing(args, model)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "show the entry matched for this model")

	return cmd
}

func runPricing(args []string, model string) error {
	providers := provider.All()
	if len(args) == 1 {
		p, err := provider.ParseProvider(args[0])
		if err != nil {
			return err
		}
		providers = []provider.Provider{p}
	}

	rows, err := priceRows(GetContainer().CostCalculator(), providers, model)
	if err != nil {
		return err
	}

	formatter := GetFormatter()
	if formatter.Format() == output.FormatJSON {
		return formatter.JSON(rows)
	}

	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{r.Provider, r.Model, formatRate(r.Input), formatRate(r.Output)})
	}
	return formatter.Table(output.TableData{
		Columns: []output.TableColumn{
			{Header: "PROVIDER"},
			{Header: "MODEL"},
			{Header: "INPUT $/1M", Align: output.AlignRight},
			{Header: "OUTPUT $/1M", Align: output.AlignRight},
		},
		Rows: table,
	})
}

// priceRows lists the table for providers, or the single matched entry when
// model is set.
func priceRows(table *provider.CostCalculator, providers []provider.Provider, model string) ([]PriceRow, error) {
	rows := make([]PriceRow, 0)
	for _, p := range providers {
		if model != "" {
			rate, ok := table.Lookup(p.PricingID(), model)
			if !ok {
				continue
			}
			rows = append(rows, toPriceRow(rate))
			continue
		}
		for _, rate := range table.Models(p.PricingID()) {
			rows = append(rows, toPriceRow(rate))
		}
	}

	if model != "" && len(rows) == 0 {
		return nil, domainErrors.Validation(fmt.Sprintf("no price entry for model %s", model), nil)
	}
	return rows, nil
}

func toPriceRow(rate provider.ModelCostRate) PriceRow {
	return PriceRow{
		Provider: rate.Provider,
		Model:    rate.ModelID,
		Input:    rate.InputRate,
		Output:   rate.OutputRate,
	}
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 2, 64)
}
