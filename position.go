package costbasis

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"sync"

	"github.com/etnz/costbasis/date"
)

// Position holds the lots and sales of a single security.
//
// Lots are kept in insertion order, which is the FIFO order used by Sell.
// All costs, proceeds and valuations are in the position's reporting currency.
//
// A Position is safe for concurrent use: operations are serialized.
type Position struct {
	mu     sync.Mutex
	symbol string
	cur    string
	lots   []Lot
	ids    map[string]int // lot id -> index in lots
	sales  []Sale
}

// NewPosition returns an empty position on symbol reporting in currency cur.
func NewPosition(symbol, cur string) (*Position, error) {
	if err := ValidateCurrency(cur); err != nil {
		return nil, fmt.Errorf("invalid reporting currency: %w", err)
	}
	return &Position{
		symbol: symbol,
		cur:    cur,
		ids:    make(map[string]int),
	}, nil
}

func (p *Position) Symbol() string   { return p.symbol }
func (p *Position) Currency() string { return p.cur }

// Buy opens a new lot. When a.ID is empty the lot is named after its rank
// ("B1", "B2", ...).
func (p *Position) Buy(a Acquisition) (Lot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if a.ID == "" {
		a.ID = "B" + strconv.Itoa(len(p.lots)+1)
	}
	if _, exists := p.ids[a.ID]; exists {
		return Lot{}, fmt.Errorf("%s: %w: %q", p.symbol, ErrDuplicateLot, a.ID)
	}
	a.Cost = a.Cost.In(p.costCurrency(a))
	l, err := NewLot(a, p.cur)
	if err != nil {
		return Lot{}, fmt.Errorf("%s: %w", p.symbol, err)
	}
	p.ids[l.id] = len(p.lots)
	p.lots = append(p.lots, l)
	return l, nil
}

// costCurrency tells which currency an untagged cost amount should adopt: a
// zero-valued, untagged cost means "not supplied" and stays untagged.
func (p *Position) costCurrency(a Acquisition) string {
	if a.Cost.IsZero() {
		return ""
	}
	return p.cur
}

// Lot returns the lot with the given id.
func (p *Position) Lot(id string) (Lot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i, ok := p.ids[id]
	if !ok {
		return Lot{}, false
	}
	return p.lots[i], true
}

// Lots returns a snapshot of the lots, in insertion order.
func (p *Position) Lots() iter.Seq[Lot] {
	p.mu.Lock()
	lots := slices.Clone(p.lots)
	p.mu.Unlock()
	return slices.Values(lots)
}

// Sales returns a snapshot of the sales, in execution order.
func (p *Position) Sales() iter.Seq[Sale] {
	p.mu.Lock()
	sales := slices.Clone(p.sales)
	p.mu.Unlock()
	return slices.Values(sales)
}

// TotalQuantityRemaining returns the quantity held across all lots.
func (p *Position) TotalQuantityRemaining() Quantity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.quantityRemaining()
}

func (p *Position) quantityRemaining() Quantity {
	var total Quantity
	for i := range p.lots {
		total = total.Add(p.lots[i].remaining)
	}
	return total
}

// TotalCostRemaining returns the cost basis of the quantity held.
func (p *Position) TotalCostRemaining() Money {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.costRemaining()
}

func (p *Position) costRemaining() Money {
	total := M(0, p.cur)
	for i := range p.lots {
		total = total.Add(p.lots[i].costLeft)
	}
	return total
}

// RealizedGain returns the sum of the gains of all sales.
func (p *Position) RealizedGain() Money {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := M(0, p.cur)
	for _, s := range p.sales {
		total = total.Add(s.Gain)
	}
	return total
}

// UnrealizedValue returns the market value of the quantity held, for a price
// per unit in the security's own currency and a rate converting it into the
// reporting currency.
func (p *Position) UnrealizedValue(price Money, rate Rate) (Money, error) {
	v, err := p.Valuation(price, rate)
	return v.Value, err
}

// UnrealizedProfit returns the market value minus the cost basis of the quantity held.
func (p *Position) UnrealizedProfit(price Money, rate Rate) (Money, error) {
	v, err := p.Valuation(price, rate)
	return v.Profit, err
}

// UnrealizedROI returns the unrealized profit as a percentage of the cost
// basis. It is zero when there is no cost basis left.
func (p *Position) UnrealizedROI(price Money, rate Rate) (Percent, error) {
	v, err := p.Valuation(price, rate)
	return v.ROI, err
}

// Valuation is the unrealized state of a position at a given market price.
type Valuation struct {
	Symbol   string
	Quantity Quantity // held
	Price    Money    // per unit, security currency
	Rate     Rate
	Cost     Money   // cost basis of the quantity held
	Value    Money   // market value in the reporting currency
	Profit   Money   // Value - Cost
	ROI      Percent // Profit / Cost
	Realized Money   // gains realized by past sales
}

// Valuation computes the position's unrealized metrics at price.
func (p *Position) Valuation(price Money, rate Rate) (Valuation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	unit, err := rate.Convert(price, p.cur)
	if err != nil {
		return Valuation{}, fmt.Errorf("%s: cannot value position: %w", p.symbol, err)
	}
	v := Valuation{
		Symbol:   p.symbol,
		Quantity: p.quantityRemaining(),
		Price:    price,
		Rate:     rate,
		Cost:     p.costRemaining(),
		Realized: M(0, p.cur),
	}
	for _, s := range p.sales {
		v.Realized = v.Realized.Add(s.Gain)
	}
	v.Value = unit.Mul(v.Quantity)
	v.Profit = v.Value.Sub(v.Cost)
	if !v.Cost.IsZero() {
		v.ROI = Percent(v.Profit.Ratio(v.Cost).Shift(2).InexactFloat64())
	}
	return v, nil
}

// Audit checks the quantity and cost conservation invariants of every lot.
func (p *Position) Audit() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs error
	for i := range p.lots {
		if err := p.lots[i].audit(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("%s: %w", p.symbol, err))
		}
	}
	return errs
}

// ApplySplit applies a split of factor f, effective on day 'on', to every lot
// acquired on or before that day. Later lots already hold post-split shares.
//
// Splits are not deduplicated: applying the same split twice doubles its effect.
func (p *Position) ApplySplit(f Factor, on date.Date) error {
	if !f.IsPositive() {
		return fmt.Errorf("%s: %w: must be positive, got %s", p.symbol, ErrInvalidSplitFactor, f)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.lots {
		if !p.lots[i].on.OnOrBefore(on) {
			continue
		}
		if err := p.lots[i].ApplySplit(f); err != nil {
			return fmt.Errorf("%s: %w", p.symbol, err)
		}
	}
	return nil
}
