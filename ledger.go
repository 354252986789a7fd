package costbasis

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sort"
)

// Ledger is a list of transactions in chronological order.
//
// Transactions on the same day keep the order in which they were appended:
// a buy and a sell on the same day settle in that order.
type Ledger struct {
	cur          string
	transactions []Transaction
}

// NewLedger returns an empty ledger reporting in currency cur.
func NewLedger(cur string) *Ledger {
	return &Ledger{cur: cur}
}

// Currency returns the reporting currency.
func (l *Ledger) Currency() string { return l.cur }

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Append appends transactions to this ledger and maintains the chronological order of transactions.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
}

// stableSort sorts the ledger by transaction date. The sort is stable, meaning
// transactions on the same day maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].When().Before(l.transactions[j].When())
	})
}

// Transactions returns the transactions in chronological order.
func (l *Ledger) Transactions() iter.Seq[Transaction] {
	return slices.Values(l.transactions)
}

// Symbols returns the symbols referenced by the ledger, sorted.
func (l *Ledger) Symbols() []string {
	var symbols []string
	for _, tx := range l.transactions {
		symbols = append(symbols, tx.Symbol())
	}
	slices.Sort(symbols)
	return slices.Compact(symbols)
}

// Replay executes every transaction in order on a new Portfolio.
//
// A transaction that fails is reported and skipped, the following ones are
// still executed. The returned error joins every failure.
func (l *Ledger) Replay() (*Portfolio, error) {
	pf, err := NewPortfolio(l.cur)
	if err != nil {
		return nil, err
	}
	var errs error
	for i, tx := range l.transactions {
		err := tx.Validate()
		if err == nil {
			err = pf.Apply(tx)
		}
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("transaction #%d %s %s on %s: %w", i+1, tx.What(), tx.Symbol(), tx.When(), err))
		}
	}
	return pf, errs
}
