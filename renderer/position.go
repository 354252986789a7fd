package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/costbasis"
)

// LotsMarkdown lists the lots of a position in the order they are consumed.
// Closed lots are listed too, with nothing left.
func LotsMarkdown(p *costbasis.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Lots of %s\n\n", p.Symbol())
	t := newTable(&b,
		"Lot", "Date", "Original qty:", "Split:", "Adjusted qty:", "Price:", "FX:",
		"Total cost:", "Adjusted cost/share:", "Qty sold:", "Qty left:", "Cost left:",
	)
	for l := range p.Lots() {
		t.row(
			l.ID(),
			l.Date().String(),
			l.OriginalQuantity().String(),
			l.SplitFactor().String(),
			l.AdjustedQuantity().String(),
			money(l.Price()),
			l.Rate().String(),
			l.TotalCost().String(),
			l.AdjustedCostPerUnit().String(),
			l.QuantitySold().String(),
			l.QuantityRemaining().String(),
			l.CostRemaining().String(),
		)
	}
	t.row(
		bold("Total"), "", "", "", "", "", "", "", "", "",
		bold(p.TotalQuantityRemaining().String()),
		bold(p.TotalCostRemaining().String()),
	)
	return b.String()
}

// ValuationMarkdown summarizes the valuations of one or more positions.
func ValuationMarkdown(cur string, vals ...costbasis.Valuation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Valuation in %s\n\n", cur)
	t := newTable(&b, "Symbol", "Quantity:", "Price:", "FX:", "Cost:", "Value:", "Profit:", "ROI:", "Realized:")

	totalCost := costbasis.M(0, cur)
	totalValue := costbasis.M(0, cur)
	totalRealized := costbasis.M(0, cur)
	for _, v := range vals {
		t.row(
			v.Symbol,
			v.Quantity.String(),
			money(v.Price),
			v.Rate.String(),
			v.Cost.String(),
			v.Value.String(),
			v.Profit.SignedString(),
			v.ROI.SignedString(),
			v.Realized.SignedString(),
		)
		totalCost = totalCost.Add(v.Cost)
		totalValue = totalValue.Add(v.Value)
		totalRealized = totalRealized.Add(v.Realized)
	}
	profit := totalValue.Sub(totalCost)
	var roi costbasis.Percent
	if !totalCost.IsZero() {
		roi = costbasis.Percent(profit.Ratio(totalCost).Shift(2).InexactFloat64())
	}
	t.row(
		bold("Total"), "", "", "",
		bold(totalCost.String()),
		bold(totalValue.String()),
		bold(profit.SignedString()),
		bold(roi.SignedString()),
		bold(totalRealized.SignedString()),
	)
	return b.String()
}
