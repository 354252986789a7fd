package costbasis

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Rate is a foreign exchange rate: 1 unit of Base is worth Value units of Quote.
//
// A EURUSD rate of 1.2075 is R(1.2075, "EUR", "USD"). The zero Rate is "no rate".
type Rate struct {
	value decimal.Decimal
	base  string
	quote string
}

// R returns the rate at which 1 base is worth value quote.
func R[T number](value T, base, quote string) Rate {
	return Rate{value: newDecimal(value), base: base, quote: quote}
}

func (r Rate) Base() string             { return r.base }
func (r Rate) Quote() string            { return r.quote }
func (r Rate) Decimal() decimal.Decimal { return r.value }
func (r Rate) IsSet() bool              { return r.base != "" || r.quote != "" }

// Equal reports whether r and s quote the same pair at the same value.
func (r Rate) Equal(s Rate) bool {
	return r.base == s.base && r.quote == s.quote && r.value.Equal(s.value)
}

// Invert returns the rate of the reverse pair.
func (r Rate) Invert() Rate {
	if r.value.IsZero() {
		return Rate{base: r.quote, quote: r.base}
	}
	return Rate{value: decimal.NewFromInt(1).Div(r.value), base: r.quote, quote: r.base}
}

// String returns the rate as "EURUSD 1.2075".
func (r Rate) String() string {
	if !r.IsSet() {
		return ""
	}
	return r.base + r.quote + " " + r.value.String()
}

// Convert converts m into currency 'to' through r.
//
// Money already in 'to' is returned unchanged. Otherwise r must connect the
// money's currency and 'to' in either direction.
func (r Rate) Convert(m Money, to string) (Money, error) {
	if m.cur == to {
		return m, nil
	}
	if !r.value.IsPositive() {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidRate, r)
	}
	switch {
	case m.cur == r.base && to == r.quote:
		return Money{value: m.value.Mul(r.value), cur: to}, nil
	case m.cur == r.quote && to == r.base:
		return Money{value: m.value.Div(r.value), cur: to}, nil
	}
	return Money{}, fmt.Errorf("%w: cannot convert %s to %s with %s", ErrCurrencyMismatch, m.cur, to, r)
}

func (r Rate) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("base", r.base)
	w.Append("quote", r.quote)
	w.Append("rate", r.value)
	return w.MarshalJSON()
}

func (r *Rate) UnmarshalJSON(b []byte) error {
	var temp struct {
		Base  string          `json:"base"`
		Quote string          `json:"quote"`
		Rate  decimal.Decimal `json:"rate"`
	}
	if err := json.Unmarshal(b, &temp); err != nil {
		return err
	}
	*r = Rate{value: temp.Rate, base: temp.Base, quote: temp.Quote}
	return nil
}
