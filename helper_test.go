package costbasis

import (
	"testing"
	"time"

	"github.com/etnz/costbasis/date"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// day is a helper for test to create a date in 2025.
func day(month, d int) date.Date { return date.New(2025, time.Month(month), d) }

// newPosition returns an empty EUR position, failing the test on error.
func newPosition(t *testing.T, symbol string) *Position {
	t.Helper()
	p, err := NewPosition(symbol, "EUR")
	if err != nil {
		t.Fatalf("NewPosition(%q) unexpected error: %v", symbol, err)
	}
	return p
}
