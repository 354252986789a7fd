package costbasis

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeTransaction decodes a single JSON encoded transaction.
func DecodeTransaction(data []byte) (Transaction, error) {
	var identifier struct {
		Command CommandType `json:"command"`
	}
	if err := json.Unmarshal(data, &identifier); err != nil {
		return nil, fmt.Errorf("could not identify command in %q: %w", data, err)
	}

	switch identifier.Command {
	case CmdBuy:
		var tx Buy
		err := json.Unmarshal(data, &tx)
		return tx, err
	case CmdSell:
		var tx Sell
		err := json.Unmarshal(data, &tx)
		return tx, err
	case CmdSplit:
		var tx Split
		err := json.Unmarshal(data, &tx)
		return tx, err
	default:
		return nil, fmt.Errorf("unknown command %q", identifier.Command)
	}
}

// DecodeLedger reads a JSONL stream, one transaction per line, into a Ledger
// reporting in currency cur. Empty lines are ignored.
func DecodeLedger(r io.Reader, cur string) (*Ledger, error) {
	ledger := NewLedger(cur)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		tx, err := DecodeTransaction(b)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ledger.transactions = append(ledger.transactions, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ledger: %w", err)
	}
	ledger.stableSort()
	return ledger, nil
}

// EncodeTransaction writes tx as a single JSON line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger writes the ledger in JSONL format, in chronological order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for _, tx := range ledger.transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}
