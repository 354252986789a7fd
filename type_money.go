package costbasis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an exact amount in a given currency.
//
// The empty currency is weak: it takes the currency of the other operand in
// Add and Sub. Adding two different currencies is a programming error and
// panics; the Position API validates currencies before doing any arithmetic.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns the Money for value in currency.
func M[T number](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// ValidateCurrency checks that cur is a known ISO 4217 currency code.
func ValidateCurrency(cur string) error {
	if money.GetCurrency(cur) == nil {
		return fmt.Errorf("unknown currency %q", cur)
	}
	return nil
}

// currency returns the money's currency, never nil.
func (m Money) currency() money.Currency {
	return *money.New(0, m.cur).Currency()
}

// String returns the amount formatted with its currency symbol, rounded to
// the currency's minor unit.
func (m Money) String() string {
	if money.GetCurrency(m.cur) == nil {
		return strings.TrimSpace(m.value.StringFixed(2) + " " + m.cur)
	}
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString is like String with an explicit sign, and "-" for zero.
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Currency() string                { return m.cur }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) IsSet() bool                     { return m.cur != "" }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(q Quantity) Money            { return Money{value: m.value.Mul(q.value), cur: m.cur} }

// Div divides m by q. Dividing by a zero quantity returns zero.
func (m Money) Div(q Quantity) Money {
	if q.IsZero() {
		return Money{value: decimal.Zero, cur: m.cur}
	}
	return Money{value: m.value.Div(q.value), cur: m.cur}
}

// Ratio returns m/n as a plain decimal. It is zero when n is zero.
func (m Money) Ratio(n Money) decimal.Decimal {
	if n.value.IsZero() {
		return decimal.Zero
	}
	return m.value.Div(n.value)
}

// In returns m tagged with cur when m has no currency yet, m otherwise.
func (m Money) In(cur string) Money {
	if m.cur == "" {
		m.cur = cur
	}
	return m
}

// ApproxEqual reports whether m and n have the same currency and differ by at most 1e-9.
func (m Money) ApproxEqual(n Money) bool {
	return m.cur == n.cur && m.value.Sub(n.value).Abs().LessThanOrEqual(epsilon)
}

func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// cur makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + "!=" + b.cur)
	}
	return a.cur
}

// MarshalJSON writes money as {"currency":..., "amount":...} with every digit kept.
func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", m.cur)
	w.Append("amount", m.value)
	return w.MarshalJSON()
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var a amount
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*m = a.Money()
	return nil
}
