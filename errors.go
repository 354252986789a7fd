package costbasis

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCostBasis is returned when a buy has neither a total cost nor
	// the price and rate needed to derive it.
	ErrMissingCostBasis = errors.New("missing cost basis")
	// ErrInvalidQuantity is returned for a negative buy quantity or a non positive sell quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidSplitFactor is returned for a non positive split factor.
	ErrInvalidSplitFactor = errors.New("invalid split factor")
	// ErrInsufficientShares is returned when a sale exceeds the quantity held.
	// The concrete error is a *ShortfallError.
	ErrInsufficientShares = errors.New("insufficient shares")
	// ErrInvalidCost is returned for a negative total cost.
	ErrInvalidCost = errors.New("invalid cost")
	// ErrCurrencyMismatch is returned when an amount is not in the expected currency
	// and no rate connects the two.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrInvalidRate is returned when a conversion needs a non positive rate.
	ErrInvalidRate = errors.New("invalid exchange rate")
	// ErrDuplicateLot is returned when a lot identifier is already used in the position.
	ErrDuplicateLot = errors.New("duplicate lot")
)

// ShortfallError reports a sale that could not be covered by the lots held.
// It matches ErrInsufficientShares.
type ShortfallError struct {
	Symbol    string
	Requested Quantity // quantity asked for
	Available Quantity // quantity held across all lots
	Short     Quantity // Requested - Available
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("not enough %s shares to cover sale of %s, short %s", e.Symbol, e.Requested, e.Short)
}

func (e *ShortfallError) Is(target error) bool { return target == ErrInsufficientShares }
