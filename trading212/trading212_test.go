package trading212

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/costbasis"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Action,Time,ISIN,Ticker,Name,Notes,ID,No. of shares,Price / share,Currency (Price / share),Exchange rate,Result,Currency (Result),Total,Currency (Total),Withholding tax,Currency (Withholding tax)"

func newTestReader() *Reader { return NewReader(zerolog.Nop()) }

func TestRead(t *testing.T) {
	csv := "\ufeff" + header + "\n" +
		"Market sell,2025-03-01 10:00:00,US0378331005,AAPL,Apple,,EOF2,5,200.00,USD,1.05,40.00,EUR,952.38,EUR,,\n" +
		"Deposit,2025-01-02 09:00,,,,,D1,,,,,,,\"1,000.00\",EUR,,\n" +
		"Market buy,06/01/2025 11:57,US0378331005,AAPL,Apple,first,EOF1,10,150.50,USD,1.04,,,1447.12,EUR,,\n" +
		"Currency conversion,2025-01-03 10:00:00,,,,,,,,,,,,,,,\n" +
		"Limit buy,2025/02/01 12:00:00,IE00B4L5Y983,,iShares,,,2.5,80,EUR,1,,,200,EUR,,\n"

	records, err := newTestReader().Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 4)

	// sorted by time
	assert.Equal(t, Deposit, records[0].Type)
	assert.Equal(t, Buy, records[1].Type)
	assert.Equal(t, Market, records[1].Order)
	assert.Equal(t, Buy, records[2].Type)
	assert.Equal(t, Limit, records[2].Order)
	assert.Equal(t, Sell, records[3].Type)

	deposit := records[0]
	require.True(t, deposit.Total.Valid)
	assert.Equal(t, "1000", deposit.Total.Decimal.String())
	assert.False(t, deposit.Shares.Valid)

	aapl := records[1]
	assert.Equal(t, time.Date(2025, time.January, 6, 11, 57, 0, 0, time.UTC), aapl.Time)
	assert.Equal(t, "AAPL", aapl.Symbol())
	assert.Equal(t, "EOF1", aapl.ID)
	assert.Equal(t, "first", aapl.Notes)
	assert.Equal(t, "150.5", aapl.Price.Decimal.String())
	assert.Equal(t, "USD", aapl.PriceCurrency)
	assert.Equal(t, "1.04", aapl.ExchangeRate.Decimal.String())
	assert.False(t, aapl.Result.Valid)

	// no ticker
	assert.Equal(t, "IE00B4L5Y983", records[2].Symbol())
}

func TestRead_Delimiters(t *testing.T) {
	for name, sep := range map[string]string{"semicolon": ";", "tab": "\t"} {
		t.Run(name, func(t *testing.T) {
			row := []string{"Market buy", "2025-01-06 11:57", "", "VWCE", "", "", "X", "3", "100", "EUR", "1", "", "", "300", "EUR", "", ""}
			csv := strings.ReplaceAll(header, ",", sep) + "\n" + strings.Join(row, sep) + "\n"
			records, err := newTestReader().Read(strings.NewReader(csv))
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "VWCE", records[0].Ticker)
			assert.Equal(t, "300", records[0].Total.Decimal.String())
		})
	}
}

func TestRead_Errors(t *testing.T) {
	_, err := newTestReader().Read(strings.NewReader("Action,Time,Ticker\nMarket buy,2025-01-06 11:57,AAPL\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ISIN")

	_, err = newTestReader().Read(strings.NewReader(""))
	assert.Error(t, err)

	bad := header + "\nMarket buy,yesterday,,AAPL,,,,1,1,USD,1,,,1,EUR,,\n"
	_, err = newTestReader().Read(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognised time format")
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	content := header + "\nMarket buy,2025-01-06 11:57,,AAPL,,,A1,1,100,USD,1.25,,,80,EUR,,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := newTestReader().ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = newTestReader().ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		action string
		typ    ActionType
		order  OrderType
		ok     bool
	}{
		{"Market buy", Buy, Market, true},
		{" LIMIT SELL ", Sell, Limit, true},
		{"Dividend (Dividend)", Dividend, "", true},
		{"Dividend (Dividend manufactured payment)", Dividend, Manufactured, true},
		{"Interest on cash", Interest, "", true},
		{"Withdrawal", Withdrawal, "", true},
		{"Stop sell", "", "", false},
		{"", "", "", false},
	}
	for _, c := range cases {
		typ, order, ok := Classify(c.action)
		assert.Equal(t, c.typ, typ, c.action)
		assert.Equal(t, c.order, order, c.action)
		assert.Equal(t, c.ok, ok, c.action)
	}
}

func TestTransactions(t *testing.T) {
	csv := header + "\n" +
		"Market buy,2025-01-06 11:57,,AAPL,,,B-1,10,150,USD,1.5,,,1000,EUR,,\n" +
		"Market buy,2025-01-07 11:57,,AAPL,,,,2,150,USD,1.5,,,,,,\n" +
		"Market sell,2025-02-06 11:57,,AAPL,,,S-1,4,180,USD,1.5,,,480,EUR,,\n" +
		"Market sell,2025-02-07 11:57,,AAPL,,,S-2,3,150,USD,1.5,,,,,,\n" +
		"Deposit,2025-01-01 11:57,,,,,,,,,,,,5000,EUR,,\n"
	records, err := newTestReader().Read(strings.NewReader(csv))
	require.NoError(t, err)

	txs, err := Transactions(records, "EUR")
	require.NoError(t, err)
	require.Len(t, txs, 4)

	first := txs[0].(costbasis.Buy)
	assert.Equal(t, "B-1", first.ID)
	assert.True(t, first.Amount.Equal(costbasis.M(1000, "EUR")))
	assert.True(t, first.Rate.Equal(costbasis.R(1.5, "EUR", "USD")))

	// no total in the account currency: cost derived from the price.
	second := txs[1].(costbasis.Buy)
	assert.NotEmpty(t, second.ID)
	again, err := Transactions(records, "EUR")
	require.NoError(t, err)
	assert.Equal(t, second.ID, again[1].(costbasis.Buy).ID)
	assert.False(t, second.Amount.IsSet())
	lot, err := costbasis.NewLot(second.Acquisition(), "EUR")
	require.NoError(t, err)
	assert.True(t, lot.TotalCost().Equal(costbasis.M(200, "EUR")), lot.TotalCost().String())

	sale := txs[3].(costbasis.Sell)
	assert.True(t, sale.Amount.Equal(costbasis.M(300, "EUR")), sale.Amount.String())

	// the whole flow
	ledger := costbasis.NewLedger("EUR")
	ledger.Append(txs...)
	pf, err := ledger.Replay()
	require.NoError(t, err)
	p, ok := pf.Lookup("AAPL")
	require.True(t, ok)
	assert.True(t, p.TotalQuantityRemaining().Equal(costbasis.Q(5)))
}

func TestTransactions_Errors(t *testing.T) {
	records := []Record{
		{Type: Buy, Ticker: "AAPL", Time: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Type: Sell, Ticker: "AAPL", Time: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	txs, err := Transactions(records, "EUR")
	assert.Empty(t, txs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing number of shares")
	assert.False(t, errors.Is(err, costbasis.ErrInsufficientShares))
}
