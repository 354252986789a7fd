package costbasis

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/etnz/costbasis/date"
	"github.com/shopspring/decimal"
)

// CommandType identifies the kind of a transaction.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdBuy   CommandType = "buy"
	CmdSell  CommandType = "sell"
	CmdSplit CommandType = "split"
)

// Transaction is an event recorded in a Ledger.
type Transaction interface {
	What() CommandType // What returns the command type of the transaction (e.g., "buy", "sell").
	When() date.Date   // When returns the date on which the transaction occurred.
	Symbol() string    // Symbol returns the security the transaction applies to.
	Equal(Transaction) bool
	// Validate checks the fields that can be checked without the position state.
	Validate() error
}

type baseCmd struct {
	Command CommandType `json:"command"`
	Date    date.Date   `json:"date"`
	Memo    string      `json:"memo,omitempty"`
}

func (t baseCmd) What() CommandType { return t.Command }
func (t baseCmd) When() date.Date   { return t.Date }

func (t baseCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Command)
	w.Append("date", t.Date)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

func (t baseCmd) validate() error {
	if t.Date.IsZero() {
		return errors.New("date is missing")
	}
	return nil
}

// secCmd is the part common to all transactions on a security.
type secCmd struct {
	baseCmd
	Security string `json:"symbol"`
}

func (t secCmd) Symbol() string { return t.Security }

func (t secCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("symbol", t.Security)
	return w.MarshalJSON()
}

func (t secCmd) validate() error {
	if err := t.baseCmd.validate(); err != nil {
		return err
	}
	if t.Security == "" {
		return errors.New("symbol is missing")
	}
	return nil
}

// Buy opens a lot.
//
// The cost is either the total Amount, in the reporting currency, or derived
// from the per unit Price and the Rate.
type Buy struct {
	secCmd
	ID       string   // lot identifier, optional
	Quantity Quantity // number of shares bought
	Price    Money    // price per unit in the security currency, optional
	Rate     Rate     // exchange rate for Price, optional
	Amount   Money    // total cost in the reporting currency, optional
}

// NewBuy returns a buy of quantity shares for a total cost of amount.
func NewBuy(day date.Date, memo, symbol string, quantity Quantity, amount Money) Buy {
	return Buy{
		secCmd:   secCmd{baseCmd: baseCmd{Command: CmdBuy, Date: day, Memo: memo}, Security: symbol},
		Quantity: quantity,
		Amount:   amount,
	}
}

// NewBuyAt returns a buy of quantity shares at price per unit, converted with rate.
func NewBuyAt(day date.Date, memo, symbol string, quantity Quantity, price Money, rate Rate) Buy {
	return Buy{
		secCmd:   secCmd{baseCmd: baseCmd{Command: CmdBuy, Date: day, Memo: memo}, Security: symbol},
		Quantity: quantity,
		Price:    price,
		Rate:     rate,
	}
}

// Acquisition returns the lot opening described by the buy.
func (t Buy) Acquisition() Acquisition {
	return Acquisition{
		ID:       t.ID,
		Date:     t.Date,
		Quantity: t.Quantity,
		Price:    t.Price,
		Rate:     t.Rate,
		Cost:     t.Amount,
	}
}

func (t Buy) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Optional("id", t.ID)
	w.Append("quantity", t.Quantity)
	w.Optional("price", t.Price)
	w.Optional("rate", t.Rate)
	if t.hasCost() {
		w.EmbedFrom(t.Amount)
	}
	return w.MarshalJSON()
}

func (t *Buy) UnmarshalJSON(data []byte) error {
	var temp struct {
		secCmd
		amount
		ID       string   `json:"id"`
		Quantity Quantity `json:"quantity"`
		Price    Money    `json:"price"`
		Rate     Rate     `json:"rate"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Buy{
		secCmd:   temp.secCmd,
		ID:       temp.ID,
		Quantity: temp.Quantity,
		Price:    temp.Price,
		Rate:     temp.Rate,
		Amount:   temp.Money(),
	}
	return nil
}

func (t Buy) Equal(other Transaction) bool {
	o, ok := other.(Buy)
	return ok && t.secCmd == o.secCmd && t.ID == o.ID && t.Quantity.Equal(o.Quantity) &&
		t.Price.Equal(o.Price) && t.Rate.Equal(o.Rate) && t.Amount.Equal(o.Amount)
}

// hasCost reports whether the buy carries a total cost. An untagged, non-zero
// amount is a cost in the reporting currency.
func (t Buy) hasCost() bool { return t.Amount.IsSet() || !t.Amount.IsZero() }

func (t Buy) Validate() error {
	if err := t.secCmd.validate(); err != nil {
		return err
	}
	if t.Quantity.IsNegative() {
		return fmt.Errorf("%w: buy quantity must not be negative, got %s", ErrInvalidQuantity, t.Quantity)
	}
	if !t.hasCost() && !t.Price.IsSet() {
		return fmt.Errorf("%w: buy needs an amount or a price", ErrMissingCostBasis)
	}
	return nil
}

// Sell settles Quantity shares against the lots for a total of Amount.
type Sell struct {
	secCmd
	Quantity Quantity // number of shares sold
	Amount   Money    // total proceeds in the reporting currency
}

// NewSell returns a sale of quantity shares for a total of amount.
func NewSell(day date.Date, memo, symbol string, quantity Quantity, amount Money) Sell {
	return Sell{
		secCmd:   secCmd{baseCmd: baseCmd{Command: CmdSell, Date: day, Memo: memo}, Security: symbol},
		Quantity: quantity,
		Amount:   amount,
	}
}

func (t Sell) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("quantity", t.Quantity)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

func (t *Sell) UnmarshalJSON(data []byte) error {
	var temp struct {
		secCmd
		amount
		Quantity Quantity `json:"quantity"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Sell{secCmd: temp.secCmd, Quantity: temp.Quantity, Amount: temp.Money()}
	return nil
}

func (t Sell) Equal(other Transaction) bool {
	o, ok := other.(Sell)
	return ok && t.secCmd == o.secCmd && t.Quantity.Equal(o.Quantity) && t.Amount.Equal(o.Amount)
}

func (t Sell) Validate() error {
	if err := t.secCmd.validate(); err != nil {
		return err
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%w: sell quantity must be positive, got %s", ErrInvalidQuantity, t.Quantity)
	}
	return nil
}

// Split is a stock split of Numerator new shares for Denominator old ones.
type Split struct {
	secCmd
	Numerator   int64
	Denominator int64
}

// NewSplit returns a num-for-den split of symbol effective on day.
func NewSplit(day date.Date, symbol string, num, den int64) Split {
	return Split{
		secCmd:      secCmd{baseCmd: baseCmd{Command: CmdSplit, Date: day}, Security: symbol},
		Numerator:   num,
		Denominator: den,
	}
}

// Factor returns the split multiplier.
func (t Split) Factor() Factor { return Ratio(t.Numerator, t.Denominator) }

func (t Split) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("num", t.Numerator)
	w.Append("den", t.Denominator)
	return w.MarshalJSON()
}

func (t *Split) UnmarshalJSON(data []byte) error {
	var temp struct {
		secCmd
		Numerator   int64 `json:"num"`
		Denominator int64 `json:"den"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	// "den" defaults to 1.
	if temp.Denominator == 0 {
		temp.Denominator = 1
	}
	*t = Split{secCmd: temp.secCmd, Numerator: temp.Numerator, Denominator: temp.Denominator}
	return nil
}

func (t Split) Equal(other Transaction) bool {
	o, ok := other.(Split)
	return ok && t.secCmd == o.secCmd && t.Numerator == o.Numerator && t.Denominator == o.Denominator
}

func (t Split) Validate() error {
	if err := t.secCmd.validate(); err != nil {
		return err
	}
	if t.Numerator <= 0 || t.Denominator <= 0 {
		return fmt.Errorf("%w: %d/%d", ErrInvalidSplitFactor, t.Numerator, t.Denominator)
	}
	return nil
}

// amount reads a Money written inline as two fields.
type amount struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amount) Money() Money { return M(a.Amount, a.Currency) }
