package costbasis

import (
	"fmt"

	"github.com/etnz/costbasis/date"
)

// Acquisition describes a buy event, the input needed to open a Lot.
//
// The total cost is either given in Cost, or derived from Price (per unit, in
// the security's currency) times Quantity, converted with Rate into the
// reporting currency. Cost wins when both are given.
type Acquisition struct {
	ID       string
	Date     date.Date
	Quantity Quantity
	Price    Money // optional, per unit
	Rate     Rate  // optional, used to convert Price
	Cost     Money // optional, total in the reporting currency
}

// Lot is a single acquisition of shares and what remains of it.
//
// The total cost of a lot never changes. Splits scale its share counts, sales
// consume its remaining quantity and cost.
type Lot struct {
	id       string
	on       date.Date
	original Quantity
	factor   Factor
	price    Money
	rate     Rate
	cost     Money

	adjusted  Quantity // original * factor
	sold      Quantity
	remaining Quantity
	costLeft  Money
}

// NewLot opens a lot from an acquisition. The cost is expressed in the
// reporting currency cur.
func NewLot(a Acquisition, cur string) (Lot, error) {
	if a.Quantity.IsNegative() {
		return Lot{}, fmt.Errorf("lot %s: %w: quantity must not be negative, got %s", a.ID, ErrInvalidQuantity, a.Quantity)
	}

	cost := a.Cost
	switch {
	case cost.IsSet():
		if cost.Currency() != cur {
			return Lot{}, fmt.Errorf("lot %s: %w: cost in %s, reporting currency is %s", a.ID, ErrCurrencyMismatch, cost.Currency(), cur)
		}
	case a.Price.IsSet() && (a.Rate.IsSet() || a.Price.Currency() == cur):
		var err error
		cost, err = a.Rate.Convert(a.Price.Mul(a.Quantity), cur)
		if err != nil {
			return Lot{}, fmt.Errorf("lot %s: %w", a.ID, err)
		}
	default:
		return Lot{}, fmt.Errorf("lot %s: %w: either provide a total cost or a price and an exchange rate", a.ID, ErrMissingCostBasis)
	}
	if cost.IsNegative() {
		return Lot{}, fmt.Errorf("lot %s: %w: cost must not be negative, got %s", a.ID, ErrInvalidCost, cost)
	}

	return Lot{
		id:        a.ID,
		on:        a.Date,
		original:  a.Quantity,
		factor:    one,
		price:     a.Price,
		rate:      a.Rate,
		cost:      cost,
		adjusted:  a.Quantity,
		remaining: a.Quantity,
		costLeft:  cost,
	}, nil
}

func (l Lot) ID() string                  { return l.id }
func (l Lot) Date() date.Date             { return l.on }
func (l Lot) OriginalQuantity() Quantity  { return l.original }
func (l Lot) SplitFactor() Factor         { return l.factor }
func (l Lot) Price() Money                { return l.price }
func (l Lot) Rate() Rate                  { return l.rate }
func (l Lot) TotalCost() Money            { return l.cost }
func (l Lot) AdjustedQuantity() Quantity  { return l.adjusted }
func (l Lot) QuantitySold() Quantity      { return l.sold }
func (l Lot) QuantityRemaining() Quantity { return l.remaining }
func (l Lot) CostRemaining() Money        { return l.costLeft }

// AdjustedCostPerUnit is the total cost spread over the split adjusted
// quantity, zero for an empty lot.
func (l Lot) AdjustedCostPerUnit() Money { return l.cost.Div(l.adjusted) }

// IsClosed reports whether nothing (within tolerance) remains in the lot.
func (l Lot) IsClosed() bool { return l.remaining.IsNegligible() }

// ApplySplit multiplies the lot's share counts by f. Costs are unchanged: a
// split changes the number of shares, not what was paid for them.
func (l *Lot) ApplySplit(f Factor) error {
	if !f.IsPositive() {
		return fmt.Errorf("%w: must be positive, got %s", ErrInvalidSplitFactor, f)
	}
	l.factor = l.factor.Mul(f)
	l.adjusted = l.original.Scale(l.factor)
	l.remaining = l.remaining.Scale(f)
	return nil
}

// consume takes q out of the lot at its current average cost and returns the
// cost consumed. q must not exceed the remaining quantity.
func (l *Lot) consume(q Quantity) Money {
	var used Money
	if q.Equal(l.remaining) {
		used = l.costLeft
	} else {
		used = l.costLeft.Mul(q).Div(l.remaining)
	}
	l.remaining = l.remaining.Sub(q)
	l.sold = l.sold.Add(q)
	l.costLeft = l.costLeft.Sub(used)
	return used
}

// audit checks the lot's conservation invariants.
func (l Lot) audit() error {
	switch {
	case !l.adjusted.Equal(l.original.Scale(l.factor)):
		return fmt.Errorf("lot %s: adjusted quantity %s != %s * %s", l.id, l.adjusted, l.original, l.factor)
	case !l.remaining.Add(l.sold).ApproxEqual(l.adjusted):
		return fmt.Errorf("lot %s: remaining %s + sold %s != adjusted %s", l.id, l.remaining, l.sold, l.adjusted)
	case l.remaining.IsNegative() && !l.remaining.IsNegligible():
		return fmt.Errorf("lot %s: negative remaining quantity %s", l.id, l.remaining)
	case l.costLeft.IsNegative() && !l.costLeft.ApproxEqual(M(0, l.costLeft.Currency())):
		return fmt.Errorf("lot %s: negative remaining cost %s", l.id, l.costLeft)
	case l.costLeft.GreaterThan(l.cost):
		return fmt.Errorf("lot %s: remaining cost %s exceeds total cost %s", l.id, l.costLeft, l.cost)
	}
	return nil
}
