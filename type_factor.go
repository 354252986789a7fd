package costbasis

import "github.com/shopspring/decimal"

// Factor is a split multiplier applied to share counts. A 4-for-1 split is
// Ratio(4, 1), a 1-for-10 reverse split is Ratio(1, 10).
type Factor struct {
	value decimal.Decimal
}

// F returns the Factor for value.
func F[T number](value T) Factor { return Factor{value: newDecimal(value)} }

// Ratio returns the factor num/den. A zero den returns the zero (invalid) factor.
func Ratio(num, den int64) Factor {
	if den == 0 {
		return Factor{}
	}
	return Factor{value: decimal.NewFromInt(num).Div(decimal.NewFromInt(den))}
}

// one is the split factor of a lot that never split.
var one = F(1)

func (f Factor) Mul(g Factor) Factor          { return Factor{value: f.value.Mul(g.value)} }
func (f Factor) Equal(g Factor) bool          { return f.value.Equal(g.value) }
func (f Factor) IsPositive() bool             { return f.value.IsPositive() }
func (f Factor) Decimal() decimal.Decimal     { return f.value }
func (f Factor) String() string               { return f.value.String() }
func (f Factor) MarshalJSON() ([]byte, error) { return f.value.MarshalJSON() }
func (f *Factor) UnmarshalJSON(b []byte) error { return f.value.UnmarshalJSON(b) }
