// Package market fetches live quotes and exchange rates.
package market

import (
	"context"
	"errors"
	"strings"

	"github.com/etnz/costbasis"
)

// ErrNoData is returned when the quote service has no value for a symbol.
var ErrNoData = errors.New("no market data")

// Provider gives access to live market data.
type Provider interface {
	// Price returns the last price of one unit of symbol, in the currency the
	// symbol trades in.
	Price(ctx context.Context, symbol string) (costbasis.Money, error)
	// Rate returns the exchange rate at which 1 unit of from is worth some
	// units of to.
	Rate(ctx context.Context, from, to string) (costbasis.Rate, error)
}

// Quote is the price and rate needed to value a position on symbol in the
// reporting currency cur.
func Quote(ctx context.Context, p Provider, symbol, cur string) (costbasis.Money, costbasis.Rate, error) {
	price, err := p.Price(ctx, symbol)
	if err != nil {
		return costbasis.Money{}, costbasis.Rate{}, err
	}
	if price.Currency() == cur {
		return price, costbasis.Rate{}, nil
	}
	rate, err := p.Rate(ctx, price.Currency(), cur)
	if err != nil {
		return costbasis.Money{}, costbasis.Rate{}, err
	}
	return price, rate, nil
}

// pairSymbol returns the quote symbol of a currency pair: EURUSD=X.
func pairSymbol(from, to string) string {
	return strings.ToUpper(from) + strings.ToUpper(to) + "=X"
}
