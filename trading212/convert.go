package trading212

import (
	"errors"
	"fmt"

	"github.com/etnz/costbasis"
	"github.com/etnz/costbasis/date"
	"github.com/google/uuid"
)

// Transactions converts the trades among records into buy and sell
// transactions for an account in currency cur.
//
// The exchange rate of a row is the number of price currency units per
// account currency unit. The row total, when it is in cur, is the buy cost or
// the sell proceeds. Buys without an ID get a generated one.
//
// A row that cannot be converted is reported in the joined error and skipped.
func Transactions(records []Record, cur string) ([]costbasis.Transaction, error) {
	var txs []costbasis.Transaction
	var errs error
	for _, r := range records {
		var tx costbasis.Transaction
		var err error
		switch r.Type {
		case Buy:
			tx, err = buy(r, cur)
		case Sell:
			tx, err = sell(r, cur)
		default:
			continue
		}
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%s %s %s on %s: %w", r.Type, r.Symbol(), r.ID, r.Time.Format(date.Layout), err))
			continue
		}
		txs = append(txs, tx)
	}
	return txs, errs
}

func buy(r Record, cur string) (costbasis.Buy, error) {
	shares, err := quantity(r)
	if err != nil {
		return costbasis.Buy{}, err
	}
	tx := costbasis.NewBuy(date.Of(r.Time), r.Notes, r.Symbol(), shares, costbasis.Money{})
	tx.ID = r.ID
	if tx.ID == "" {
		// Stable across imports of the same row.
		tx.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprint(r.Symbol(), r.Time.Unix(), shares))).String()
	}
	if r.Price.Valid {
		tx.Price = costbasis.M(r.Price.Decimal, r.priceCurrency(cur))
		tx.Rate = r.rate(cur)
	}
	if r.Total.Valid && r.TotalCurrency == cur {
		tx.Amount = costbasis.M(r.Total.Decimal, cur)
	}
	if err := tx.Validate(); err != nil {
		return costbasis.Buy{}, err
	}
	return tx, nil
}

func sell(r Record, cur string) (costbasis.Sell, error) {
	shares, err := quantity(r)
	if err != nil {
		return costbasis.Sell{}, err
	}
	var proceeds costbasis.Money
	switch {
	case r.Total.Valid && r.TotalCurrency == cur:
		proceeds = costbasis.M(r.Total.Decimal, cur)
	case r.Price.Valid:
		price := costbasis.M(r.Price.Decimal, r.priceCurrency(cur))
		proceeds, err = r.rate(cur).Convert(price.Mul(shares), cur)
		if err != nil {
			return costbasis.Sell{}, err
		}
	default:
		return costbasis.Sell{}, fmt.Errorf("no total in %s and no price", cur)
	}
	return costbasis.NewSell(date.Of(r.Time), r.Notes, r.Symbol(), shares, proceeds), nil
}

func quantity(r Record) (costbasis.Quantity, error) {
	if !r.Shares.Valid {
		return costbasis.Quantity{}, errors.New("missing number of shares")
	}
	return costbasis.Q(r.Shares.Decimal), nil
}

// priceCurrency defaults to the account currency.
func (r Record) priceCurrency(cur string) string {
	if r.PriceCurrency == "" {
		return cur
	}
	return r.PriceCurrency
}

// rate returns the row's exchange rate as 1 cur = rate price currency.
func (r Record) rate(cur string) costbasis.Rate {
	pc := r.priceCurrency(cur)
	if pc == cur || !r.ExchangeRate.Valid {
		return costbasis.Rate{}
	}
	return costbasis.R(r.ExchangeRate.Decimal, cur, pc)
}
