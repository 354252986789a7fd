package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/date"
)

// SaleMarkdown details how a sale of symbol was matched against the lots of
// the position, followed by the position totals once the sale is applied.
func SaleMarkdown(symbol string, sale costbasis.Sale, p *costbasis.Position) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Sale of %s on %s\n\n", symbol, sale.Date)
	fmt.Fprintf(&b, "- Quantity: %s\n", sale.Quantity)
	fmt.Fprintf(&b, "- Proceeds: %s (%s per unit)\n", sale.Proceeds, sale.PricePerUnit())
	fmt.Fprintf(&b, "- Cost basis: %s\n", sale.Cost)
	fmt.Fprintf(&b, "- Realized gain: %s\n\n", sale.Gain.SignedString())

	fmt.Fprint(&b, "## Lots\n\n")
	t := newTable(&b,
		"Lot", "Date", "Original qty:", "Split:", "Adjusted qty:", "Price:", "FX:",
		"Total cost:", "Adjusted cost/share:", "Qty sold:", "Qty left:",
		"Cost used:", "Cost left:", "Proceeds:", "Gain:",
	)
	for _, a := range sale.Allocations {
		t.row(
			a.LotID,
			a.Acquired.String(),
			a.OriginalQuantity.String(),
			a.SplitFactor.String(),
			a.AdjustedQuantity.String(),
			money(a.Price),
			a.Rate.String(),
			a.TotalCost.String(),
			a.AdjustedCostPerUnit.String(),
			a.Quantity.String(),
			a.QuantityRemaining.String(),
			a.Cost.String(),
			a.CostRemaining.String(),
			a.Proceeds.String(),
			a.Gain.SignedString(),
		)
	}
	t.row(
		bold("Total"), "", "", "", "", "", "", "", "",
		bold(sale.Quantity.String()), "",
		bold(sale.Cost.String()), "",
		bold(sale.Proceeds.String()),
		bold(sale.Gain.SignedString()),
	)

	if p != nil {
		fmt.Fprint(&b, "\n## Position after the sale\n\n")
		fmt.Fprintf(&b, "- Quantity held: %s\n", p.TotalQuantityRemaining())
		fmt.Fprintf(&b, "- Cost basis held: %s\n", p.TotalCostRemaining())
		fmt.Fprintf(&b, "- Realized gain to date: %s\n", p.RealizedGain().SignedString())
	}
	return b.String()
}

// SalesMarkdown lists the sales of a position made within r, most recent
// last. The zero Range selects every sale.
func SalesMarkdown(p *costbasis.Position, r date.Range) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Sales of %s", p.Symbol())
	if !r.IsZero() {
		fmt.Fprintf(&b, " in %s", r)
	}
	fmt.Fprint(&b, "\n\n")

	t := newTable(&b, "Date", "Quantity:", "Price:", "Proceeds:", "Cost:", "Gain:")
	total := costbasis.M(0, p.Currency())
	for s := range p.Sales() {
		if !r.Contains(s.Date) {
			continue
		}
		t.row(
			s.Date.String(),
			s.Quantity.String(),
			s.PricePerUnit().String(),
			s.Proceeds.String(),
			s.Cost.String(),
			s.Gain.SignedString(),
		)
		total = total.Add(s.Gain)
	}
	t.row(bold("Total"), "", "", "", "", bold(total.SignedString()))
	return b.String()
}
