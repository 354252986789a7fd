package costbasis

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestLedger_StableOrder(t *testing.T) {
	l := NewLedger("EUR")
	l.Append(
		NewSell(day(2, 1), "", "ACME", Q(5), EUR(60)),
		NewBuy(day(2, 1), "", "ACME", Q(5), EUR(50)),
		NewBuy(day(1, 1), "", "ACME", Q(5), EUR(40)),
	)
	got := slices.Collect(l.Transactions())
	want := []CommandType{CmdBuy, CmdSell, CmdBuy}
	for i, tx := range got {
		if tx.What() != want[i] {
			t.Errorf("transaction #%d is a %q, want %q", i, tx.What(), want[i])
		}
	}
	if !got[0].When().Before(got[1].When()) {
		t.Errorf("ledger is not sorted by date: %v", got)
	}
}

func TestLedger_EncodeDecode(t *testing.T) {
	jsonl := `{"command":"buy","date":"2025-01-10","symbol":"ACME","id":"A","quantity":10,"currency":"EUR","amount":100}
{"command":"buy","date":"2025-01-20","memo":"dca","symbol":"ACME","quantity":3,"price":{"currency":"USD","amount":12.5},"rate":{"base":"EUR","quote":"USD","rate":1.25}}
{"command":"split","date":"2025-02-01","symbol":"ACME","num":2,"den":1}
{"command":"sell","date":"2025-03-01","symbol":"ACME","quantity":15,"currency":"EUR","amount":300}
`
	ledger, err := DecodeLedger(strings.NewReader(jsonl), "EUR")
	if err != nil {
		t.Fatalf("DecodeLedger() unexpected error: %v", err)
	}
	if got, want := ledger.Len(), 4; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger() unexpected error: %v", err)
	}
	if got := buf.String(); got != jsonl {
		t.Errorf("EncodeLedger() =\n%s\nwant\n%s", got, jsonl)
	}

	txs := slices.Collect(ledger.Transactions())
	want := NewBuyAt(day(1, 20), "dca", "ACME", Q(3), USD(12.5), R(1.25, "EUR", "USD"))
	if !txs[1].Equal(want) {
		t.Errorf("decoded %#v, want %#v", txs[1], want)
	}
}

func TestDecodeTransaction_Errors(t *testing.T) {
	for _, line := range []string{
		`not json`,
		`{"command":"dividend","date":"2025-01-10","symbol":"ACME"}`,
		`{"command":"buy","date":"2025-13-45","symbol":"ACME"}`,
	} {
		if _, err := DecodeTransaction([]byte(line)); err == nil {
			t.Errorf("DecodeTransaction(%s) expected an error", line)
		}
	}
}

func TestLedger_Replay(t *testing.T) {
	l := NewLedger("EUR")
	l.Append(
		Buy{secCmd: secCmd{baseCmd: baseCmd{Command: CmdBuy, Date: day(1, 10)}, Security: "ACME"}, ID: "A", Quantity: Q(10), Amount: EUR(100)},
		Buy{secCmd: secCmd{baseCmd: baseCmd{Command: CmdBuy, Date: day(1, 20)}, Security: "ACME"}, ID: "B", Quantity: Q(10), Amount: EUR(140)},
		NewBuy(day(1, 15), "", "INIT", Q(1), EUR(10)),
		NewSell(day(2, 1), "", "ACME", Q(15), EUR(300)),
		NewSplit(day(2, 2), "INIT", 4, 1),
	)

	pf, err := l.Replay()
	if err != nil {
		t.Fatalf("Replay() unexpected error: %v", err)
	}
	if got, want := pf.Symbols(), []string{"ACME", "INIT"}; !slices.Equal(got, want) {
		t.Errorf("Symbols() = %v, want %v", got, want)
	}

	acme, _ := pf.Lookup("ACME")
	sales := slices.Collect(acme.Sales())
	if len(sales) != 1 {
		t.Fatalf("len(Sales()) = %d, want 1", len(sales))
	}
	if got, want := sales[0].Gain, EUR(130); !got.Equal(want) {
		t.Errorf("Gain = %v, want %v", got, want)
	}
	other, _ := pf.Lookup("INIT")
	if got, want := other.TotalQuantityRemaining(), Q(4); !got.Equal(want) {
		t.Errorf("TotalQuantityRemaining() = %v, want %v", got, want)
	}
}

func TestLedger_ReplayContinuesAfterError(t *testing.T) {
	l := NewLedger("EUR")
	l.Append(
		NewBuy(day(1, 10), "", "ACME", Q(10), EUR(100)),
		NewSell(day(2, 1), "", "ACME", Q(25), EUR(300)),
		NewSplit(day(2, 2), "ACME", 0, 1),
		NewSell(day(2, 3), "", "ACME", Q(5), EUR(80)),
	)

	pf, err := l.Replay()
	if !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("Replay() error = %v, want %v", err, ErrInsufficientShares)
	}
	if !errors.Is(err, ErrInvalidSplitFactor) {
		t.Errorf("Replay() error = %v, want %v", err, ErrInvalidSplitFactor)
	}

	acme, _ := pf.Lookup("ACME")
	if got, want := acme.TotalQuantityRemaining(), Q(5); !got.Equal(want) {
		t.Errorf("TotalQuantityRemaining() = %v, want %v", got, want)
	}
	if got, want := acme.RealizedGain(), EUR(30); !got.Equal(want) {
		t.Errorf("RealizedGain() = %v, want %v", got, want)
	}
}

func TestLedger_ReplayUntaggedAmounts(t *testing.T) {
	jsonlStream := `{"command":"buy","date":"2025-08-01","symbol":"GOOG","quantity":10,"amount":1000}
{"command":"sell","date":"2025-08-02","symbol":"GOOG","quantity":4,"amount":600}
`
	l, err := DecodeLedger(strings.NewReader(jsonlStream), "EUR")
	if err != nil {
		t.Fatalf("DecodeLedger() unexpected error: %v", err)
	}
	pf, err := l.Replay()
	if err != nil {
		t.Fatalf("Replay() unexpected error: %v", err)
	}
	goog, ok := pf.Lookup("GOOG")
	if !ok {
		t.Fatal("Lookup(GOOG) found no position")
	}
	if got, want := goog.TotalCostRemaining(), EUR(600); !got.Equal(want) {
		t.Errorf("TotalCostRemaining() = %v, want %v", got, want)
	}
	if got, want := goog.RealizedGain(), EUR(200); !got.Equal(want) {
		t.Errorf("RealizedGain() = %v, want %v", got, want)
	}
}

func TestBuy_ValidateCostBasis(t *testing.T) {
	untagged := NewBuy(day(8, 1), "", "GOOG", Q(10), M(1000, ""))
	if err := untagged.Validate(); err != nil {
		t.Errorf("Validate() of an untagged amount: unexpected error %v", err)
	}
	none := NewBuy(day(8, 1), "", "GOOG", Q(10), Money{})
	if err := none.Validate(); !errors.Is(err, ErrMissingCostBasis) {
		t.Errorf("Validate() without cost error = %v, want %v", err, ErrMissingCostBasis)
	}
}

func TestLedger_ReplayUnknownSymbol(t *testing.T) {
	l := NewLedger("EUR")
	l.Append(
		NewBuy(day(1, 10), "", "ACME", Q(10), EUR(100)),
		NewSell(day(2, 1), "", "GHOST", Q(5), EUR(50)),
		NewSplit(day(2, 2), "PHANTOM", 2, 1),
	)

	pf, err := l.Replay()
	var short *ShortfallError
	if !errors.As(err, &short) {
		t.Fatalf("Replay() error = %v, want a *ShortfallError", err)
	}
	if short.Symbol != "GHOST" || !short.Available.IsZero() {
		t.Errorf("shortfall = %+v, want GHOST with nothing available", short)
	}
	if got, want := pf.Symbols(), []string{"ACME"}; !slices.Equal(got, want) {
		t.Errorf("Symbols() = %v, want %v", got, want)
	}
}
