// Package store records ledger transactions in a SQLite database.
//
// Transactions are stored in the order they are appended, each one as its
// JSON encoding next to a few indexed columns. The ledger is rebuilt by
// replaying them in that order.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/costbasis"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id         TEXT PRIMARY KEY,
	seq        INTEGER NOT NULL UNIQUE,
	symbol     TEXT NOT NULL,
	command    TEXT NOT NULL,
	day        TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS transactions_symbol ON transactions(symbol);
`

// Store is a transaction store backed by a SQLite file.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens the database at path, creating it if needed.
func Open(ctx context.Context, path string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite has a single writer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	s := &Store{db: db, log: log.With().Str("store", path).Logger()}
	s.log.Debug().Msg("database opened")
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records txs after the transactions already stored. Either all of
// them are recorded or none.
func (s *Store) Append(ctx context.Context, txs ...costbasis.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin: %w", err)
	}
	defer tx.Rollback()

	var last int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM transactions`).Scan(&last); err != nil {
		return fmt.Errorf("failed to read sequence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transactions (id, seq, symbol, command, day, payload, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, t := range txs {
		payload, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s: %w", t.What(), t.Symbol(), err)
		}
		_, err = stmt.ExecContext(ctx, uuid.NewString(), last+int64(i)+1, t.Symbol(), string(t.What()), t.When().String(), string(payload), now)
		if err != nil {
			return fmt.Errorf("failed to insert %s %s: %w", t.What(), t.Symbol(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.log.Debug().Int("count", len(txs)).Msg("transactions appended")
	return nil
}

// Ledger loads every stored transaction into a ledger reporting in cur.
func (s *Store) Ledger(ctx context.Context, cur string) (*costbasis.Ledger, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seq, payload FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []costbasis.Transaction
	for rows.Next() {
		var seq int64
		var payload string
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx, err := costbasis.DecodeTransaction([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("transaction #%d: %w", seq, err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	ledger := costbasis.NewLedger(cur)
	ledger.Append(txs...)
	return ledger, nil
}

// Symbols returns the symbols having at least one transaction, sorted.
func (s *Store) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM transactions ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

// Len returns the number of stored transactions.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n)
	return n, err
}
