package costbasis

import (
	"fmt"

	"github.com/etnz/costbasis/date"
)

// Allocation is the share of a sale settled against one lot.
//
// Lot attributes are copied as they were at the time of the sale, remaining
// quantity and cost are the values left after the sale.
type Allocation struct {
	LotID               string
	Acquired            date.Date
	OriginalQuantity    Quantity
	SplitFactor         Factor
	AdjustedQuantity    Quantity
	Price               Money // acquisition price per unit, informational
	Rate                Rate  // acquisition rate, informational
	TotalCost           Money
	AdjustedCostPerUnit Money

	Quantity          Quantity // taken from the lot
	QuantityRemaining Quantity
	Cost              Money // cost basis consumed
	CostRemaining     Money
	Proceeds          Money // share of the sale proceeds
	Gain              Money // Proceeds - Cost
}

// Sale is a settled sell event. It is never modified once recorded.
type Sale struct {
	Date        date.Date
	Quantity    Quantity
	Proceeds    Money
	Cost        Money // sum of the allocations' cost
	Gain        Money // Proceeds - Cost
	Allocations []Allocation
}

// PricePerUnit returns the average sale price.
func (s Sale) PricePerUnit() Money { return s.Proceeds.Div(s.Quantity) }

func (s Sale) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", s.Date)
	w.Append("quantity", s.Quantity)
	w.Append("proceeds", s.Proceeds)
	w.Append("cost", s.Cost)
	w.Append("gain", s.Gain)
	w.Append("allocations", s.Allocations)
	return w.MarshalJSON()
}

func (a Allocation) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("lot", a.LotID)
	w.Append("acquired", a.Acquired)
	w.Append("originalQuantity", a.OriginalQuantity)
	w.Append("splitFactor", a.SplitFactor)
	w.Append("adjustedQuantity", a.AdjustedQuantity)
	w.Optional("price", a.Price)
	w.Optional("rate", a.Rate)
	w.Append("totalCost", a.TotalCost)
	w.Append("adjustedCostPerUnit", a.AdjustedCostPerUnit)
	w.Append("quantity", a.Quantity)
	w.Append("quantityRemaining", a.QuantityRemaining)
	w.Append("cost", a.Cost)
	w.Append("costRemaining", a.CostRemaining)
	w.Append("proceeds", a.Proceeds)
	w.Append("gain", a.Gain)
	return w.MarshalJSON()
}

// take is one step of a sale plan: q shares out of lots[lot].
type take struct {
	lot int
	q   Quantity
}

// Sell settles the sale of quantity shares for a total of proceeds against the
// lots, oldest first, and records the Sale.
//
// The sale is atomic: when the lots cannot cover quantity, Sell returns a
// *ShortfallError and no lot is modified.
func (p *Position) Sell(on date.Date, quantity Quantity, proceeds Money) (Sale, error) {
	if !quantity.IsPositive() {
		return Sale{}, fmt.Errorf("%s: %w: sell quantity must be positive, got %s", p.symbol, ErrInvalidQuantity, quantity)
	}
	proceeds = proceeds.In(p.cur)
	if proceeds.Currency() != p.cur {
		return Sale{}, fmt.Errorf("%s: %w: proceeds in %s, reporting currency is %s", p.symbol, ErrCurrencyMismatch, proceeds.Currency(), p.cur)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	plan, short := p.plan(quantity)
	if !short.IsNegligible() {
		return Sale{}, &ShortfallError{
			Symbol:    p.symbol,
			Requested: quantity,
			Available: quantity.Sub(short),
			Short:     short,
		}
	}

	sale := Sale{
		Date:        on,
		Quantity:    quantity,
		Proceeds:    proceeds,
		Cost:        M(0, p.cur),
		Allocations: make([]Allocation, 0, len(plan)),
	}
	for _, t := range plan {
		l := &p.lots[t.lot]
		a := Allocation{
			LotID:               l.id,
			Acquired:            l.on,
			OriginalQuantity:    l.original,
			SplitFactor:         l.factor,
			AdjustedQuantity:    l.adjusted,
			Price:               l.price,
			Rate:                l.rate,
			TotalCost:           l.cost,
			AdjustedCostPerUnit: l.AdjustedCostPerUnit(),
			Quantity:            t.q,
		}
		a.Cost = l.consume(t.q)
		a.QuantityRemaining = l.remaining
		a.CostRemaining = l.costLeft
		a.Proceeds = proceeds.Mul(t.q).Div(quantity)
		a.Gain = a.Proceeds.Sub(a.Cost)

		sale.Cost = sale.Cost.Add(a.Cost)
		sale.Allocations = append(sale.Allocations, a)
	}
	sale.Gain = sale.Proceeds.Sub(sale.Cost)
	p.sales = append(p.sales, sale)
	return sale, nil
}

// plan walks the lots in FIFO order and returns what to take from each to
// cover quantity, and what could not be covered. It does not modify the lots.
func (p *Position) plan(quantity Quantity) ([]take, Quantity) {
	var plan []take
	toSell := quantity
	for i := range p.lots {
		if toSell.IsNegligible() {
			break
		}
		remaining := p.lots[i].remaining
		if remaining.IsNegligible() {
			continue
		}
		q := toSell.Min(remaining)
		plan = append(plan, take{lot: i, q: q})
		toSell = toSell.Sub(q)
	}
	return plan, toSell
}
