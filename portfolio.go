package costbasis

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Portfolio is a set of positions sharing a reporting currency.
type Portfolio struct {
	mu        sync.Mutex
	cur       string
	positions map[string]*Position
}

// NewPortfolio returns an empty portfolio reporting in currency cur.
func NewPortfolio(cur string) (*Portfolio, error) {
	if err := ValidateCurrency(cur); err != nil {
		return nil, fmt.Errorf("invalid reporting currency: %w", err)
	}
	return &Portfolio{cur: cur, positions: make(map[string]*Position)}, nil
}

// Currency returns the reporting currency.
func (pf *Portfolio) Currency() string { return pf.cur }

// Position returns the position on symbol, creating it if needed.
func (pf *Portfolio) Position(symbol string) *Position {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	if p, ok := pf.positions[symbol]; ok {
		return p
	}
	p := pf.newPosition(symbol)
	pf.positions[symbol] = p
	return p
}

// newPosition returns an empty position that is not part of pf.
func (pf *Portfolio) newPosition(symbol string) *Position {
	// cur has already been validated.
	return &Position{symbol: symbol, cur: pf.cur, ids: make(map[string]int)}
}

// Lookup returns the position on symbol, if any.
func (pf *Portfolio) Lookup(symbol string) (*Position, bool) {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	p, ok := pf.positions[symbol]
	return p, ok
}

// Symbols returns the symbols of all positions, sorted.
func (pf *Portfolio) Symbols() []string {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	return slices.Sorted(maps.Keys(pf.positions))
}

// Apply executes a transaction on the position it refers to.
//
// Only a Buy opens a position. A Sell or a Split on a symbol that is not held
// runs against an empty position left out of pf: the sale fails with a
// shortfall and the split has no effect.
func (pf *Portfolio) Apply(tx Transaction) error {
	p, ok := pf.Lookup(tx.Symbol())
	if !ok {
		if _, buy := tx.(Buy); buy {
			p = pf.Position(tx.Symbol())
		} else {
			p = pf.newPosition(tx.Symbol())
		}
	}
	switch v := tx.(type) {
	case Buy:
		_, err := p.Buy(v.Acquisition())
		return err
	case Sell:
		_, err := p.Sell(v.Date, v.Quantity, v.Amount)
		return err
	case Split:
		return p.ApplySplit(v.Factor(), v.Date)
	default:
		return fmt.Errorf("unsupported transaction %T", tx)
	}
}
