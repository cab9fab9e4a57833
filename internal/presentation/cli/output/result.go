package output

import (
	"strconv"
	"strings"

	"github.com/jbctechsolutions/tokcount/internal/domain/tokens"
)

// FormatCost renders a USD amount with six decimals.
func FormatCost(cost float64) string {
	return strconv.FormatFloat(cost, 'f', 6, 64)
}

// QuietLine returns "tokens" when no cost was requested and "tokens,cost"
// when it was; the cost field is left empty for unpriced models.
func QuietLine(r *tokens.CountResult, costRequested bool) string {
	count := strconv.Itoa(r.Tokens)
	if !costRequested {
		return count
	}
	if !r.HasCost() {
		return count + ","
	}
	return count + "," + FormatCost(*r.EstimatedCost)
}

// SummaryLine returns "Provider: X | Model: Y | Tokens: N", with an
// "(offline)" suffix for local counts.
func SummaryLine(r *tokens.CountResult) string {
	var b strings.Builder
	b.WriteString("Provider: ")
	b.WriteString(r.ProviderLabel())
	b.WriteString(" | Model: ")
	b.WriteString(r.Model)
	b.WriteString(" | Tokens: ")
	b.WriteString(strconv.Itoa(r.Tokens))
	if r.Offline {
		b.WriteString(" (offline)")
	}
	return b.String()
}

// CountResult writes r in the formatter's format. Quiet wins over the format.
func (f *Formatter) CountResult(r *tokens.CountResult, costRequested, quiet bool) error {
	if quiet {
		return f.Println("%s", QuietLine(r, costRequested))
	}
	if f.Format() == FormatJSON {
		return f.JSON(r)
	}

	if err := f.Println("%s", SummaryLine(r)); err != nil {
		return err
	}
	if !costRequested {
		return nil
	}
	if !r.HasCost() {
		return f.Warning("Cost unavailable for model %s", r.Model)
	}

	if err := f.Println("%s $%s %s", f.Bold("Estimated cost:"), FormatCost(*r.EstimatedCost), f.Dim("(input only)")); err != nil {
		return err
	}
	if r.MatchedDifferentModel() {
		return f.Println("  %s", f.Dim("(matched to: "+r.MatchedModel+")"))
	}
	return nil
}
