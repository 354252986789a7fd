package cmd

import (
	"strings"

	"github.com/etnz/costbasis/date"
	"github.com/shopspring/decimal"
)

// decimalValue is a flag.Value for exact numbers. It also accepts a comma as
// decimal separator.
type decimalValue struct {
	decimal.Decimal
	set bool
}

func (v *decimalValue) String() string {
	if v == nil || !v.set {
		return ""
	}
	return v.Decimal.String()
}

func (v *decimalValue) Set(s string) error {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return err
	}
	v.Decimal, v.set = d, true
	return nil
}

// dateValue is a flag.Value for a day, today by default.
type dateValue struct{ date.Date }

func (v *dateValue) String() string {
	if v == nil || v.IsZero() {
		return date.Today().String()
	}
	return v.Date.String()
}

func (v *dateValue) Set(s string) error {
	d, err := date.Parse(s)
	if err != nil {
		return err
	}
	v.Date = d
	return nil
}

// day returns the flag value, today when unset.
func (v *dateValue) day() date.Date {
	if v.IsZero() {
		return date.Today()
	}
	return v.Date
}
