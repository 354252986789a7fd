// Package trading212 reads the CSV history exported by the Trading212 broker.
//
// Rows are normalized into Records. Only trades become core transactions:
// dividends, deposits, withdrawals and interest are recognized and kept in
// the records but have no effect on a cost basis.
package trading212

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Headers are the columns a Trading212 export must have.
var Headers = []string{
	"Action",
	"Time",
	"ISIN",
	"Ticker",
	"Name",
	"Notes",
	"ID",
	"No. of shares",
	"Price / share",
	"Currency (Price / share)",
	"Exchange rate",
	"Result",
	"Currency (Result)",
	"Total",
	"Currency (Total)",
	"Withholding tax",
	"Currency (Withholding tax)",
}

// timeLayouts are the time formats found in exports, tried in order.
var timeLayouts = []string{
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
}

// ActionType is the kind of event a row records.
type ActionType string

const (
	Buy        ActionType = "BUY"
	Sell       ActionType = "SELL"
	Dividend   ActionType = "DIVIDEND"
	Deposit    ActionType = "DEPOSIT"
	Withdrawal ActionType = "WITHDRAWAL"
	Interest   ActionType = "INTEREST"
)

// OrderType refines an ActionType.
type OrderType string

const (
	Market       OrderType = "MARKET"
	Limit        OrderType = "LIMIT"
	Manufactured OrderType = "MANUFACTURED" // dividend paid by a share lender
)

// Classify returns the type of an Action cell. ok is false for actions that
// are not recognized.
func Classify(action string) (t ActionType, o OrderType, ok bool) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "market buy":
		return Buy, Market, true
	case "limit buy":
		return Buy, Limit, true
	case "market sell":
		return Sell, Market, true
	case "limit sell":
		return Sell, Limit, true
	case "dividend (dividend)":
		return Dividend, "", true
	case "dividend (dividend manufactured payment)":
		return Dividend, Manufactured, true
	case "deposit":
		return Deposit, "", true
	case "withdrawal":
		return Withdrawal, "", true
	case "interest on cash":
		return Interest, "", true
	}
	return "", "", false
}

// Record is a normalized row of an export. Empty numeric cells are invalid
// NullDecimals, empty text cells are "".
type Record struct {
	Action string // as written in the export
	Type   ActionType
	Order  OrderType
	Time   time.Time

	ISIN   string
	Ticker string
	Name   string
	Notes  string
	ID     string

	Shares                 decimal.NullDecimal
	Price                  decimal.NullDecimal // per share
	PriceCurrency          string
	ExchangeRate           decimal.NullDecimal // price currency per account currency
	Result                 decimal.NullDecimal
	ResultCurrency         string
	Total                  decimal.NullDecimal
	TotalCurrency          string
	WithholdingTax         decimal.NullDecimal
	WithholdingTaxCurrency string

	Raw map[string]string // the row, by header
}

// Symbol returns the ticker, or the ISIN when the row has no ticker.
func (r Record) Symbol() string {
	if r.Ticker != "" {
		return r.Ticker
	}
	return r.ISIN
}

// Reader reads exports.
type Reader struct {
	log zerolog.Logger
}

// NewReader returns a Reader that logs skipped rows to log.
func NewReader(log zerolog.Logger) *Reader {
	return &Reader{log: log.With().Str("component", "trading212").Logger()}
}

// ReadFile reads the export at path.
func (rd *Reader) ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := rd.Read(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return records, nil
}

// Read reads an export, keeping recognized actions only, sorted by time.
func (rd *Reader) Read(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	// utf-8 byte order mark
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		br.Discard(3)
	}
	head, _ := br.Peek(4096)

	cr := csv.NewReader(br)
	cr.Comma = sniff(head)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty export")
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	var missing []string
	for _, h := range Headers {
		if !slices.Contains(header, h) {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing headers in CSV: %q", missing)
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		raw := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				raw[h] = strings.TrimSpace(row[i])
			}
		}

		line, _ := cr.FieldPos(0)
		t, o, ok := Classify(raw["Action"])
		if !ok {
			rd.log.Debug().Int("line", line).Str("action", raw["Action"]).Msg("skipped unsupported action")
			continue
		}
		if raw["Time"] == "" {
			rd.log.Debug().Int("line", line).Msg("skipped row without time")
			continue
		}
		at, err := parseTime(raw["Time"])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		records = append(records, Record{
			Action:                 raw["Action"],
			Type:                   t,
			Order:                  o,
			Time:                   at,
			ISIN:                   raw["ISIN"],
			Ticker:                 raw["Ticker"],
			Name:                   raw["Name"],
			Notes:                  raw["Notes"],
			ID:                     raw["ID"],
			Shares:                 rd.number(line, raw, "No. of shares"),
			Price:                  rd.number(line, raw, "Price / share"),
			PriceCurrency:          raw["Currency (Price / share)"],
			ExchangeRate:           rd.number(line, raw, "Exchange rate"),
			Result:                 rd.number(line, raw, "Result"),
			ResultCurrency:         raw["Currency (Result)"],
			Total:                  rd.number(line, raw, "Total"),
			TotalCurrency:          raw["Currency (Total)"],
			WithholdingTax:         rd.number(line, raw, "Withholding tax"),
			WithholdingTaxCurrency: raw["Currency (Withholding tax)"],
			Raw:                    raw,
		})
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Time.Before(records[j].Time) })
	return records, nil
}

// number parses a numeric cell. Thousands separators are ignored. Empty and
// unreadable cells are invalid.
func (rd *Reader) number(line int, raw map[string]string, col string) decimal.NullDecimal {
	s := strings.ReplaceAll(raw[col], ",", "")
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		rd.log.Warn().Int("line", line).Str("column", col).Str("value", raw[col]).Msg("ignored unreadable number")
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time format: %q", s)
}

// sniff returns the delimiter used in the header line of sample: the most
// frequent of comma, semicolon and tab.
func sniff(sample []byte) rune {
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}
	best, count := ',', bytes.Count(sample, []byte{','})
	for _, c := range []rune{';', '\t'} {
		if n := bytes.Count(sample, []byte(string(c))); n > count {
			best, count = c, n
		}
	}
	return best
}
