package adapters

import (
	"context"
	"database/sql"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
)

// SQLAdapter implements DBAdapter for sql.DB.
type SQLAdapter struct {
	db                *sql.DB
	readOnlySupported bool
}

// NewSQLAdapter creates a new SQL adapter.
// Set readOnlySupported if the driver accepts read-only transactions.
func NewSQLAdapter(db *sql.DB, readOnlySupported bool) *SQLAdapter {
	return &SQLAdapter{db: db, readOnlySupported: readOnlySupported}
}

// BeginTx starts a transaction on the sql.DB.
func (s *SQLAdapter) BeginTx(ctx context.Context, readOnly bool) (TxAdapter, error) {
	tx, err := s.db.BeginTx(ctx, txOptions(readOnly && s.readOnlySupported))
	if err != nil {
		return nil, err
	}

	return NewSQLTxAdapter(tx), nil
}

// SQLTxAdapter implements TxAdapter for sql.Tx.
type SQLTxAdapter struct {
	tx *sql.Tx
}

// NewSQLTxAdapter wraps a caller-owned sql.Tx.
func NewSQLTxAdapter(tx *sql.Tx) *SQLTxAdapter {
	return &SQLTxAdapter{tx: tx}
}

// Query executes a query that returns rows.
func (s *SQLTxAdapter) Query(ctx context.Context, query string, args ...any) (reactionstore.Rows, error) {
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows}, nil
}

// QueryRow executes a query that is expected to return at most one row.
func (s *SQLTxAdapter) QueryRow(ctx context.Context, query string, args ...any) reactionstore.Row {
	return &stdRow{row: s.tx.QueryRowContext(ctx, query, args...)}
}

// Exec executes a statement without returning rows.
func (s *SQLTxAdapter) Exec(ctx context.Context, query string, args ...any) (reactionstore.ExecResult, error) {
	result, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}

// Commit commits the transaction.
func (s *SQLTxAdapter) Commit(_ context.Context) error {
	return s.tx.Commit()
}

// Rollback aborts the transaction.
func (s *SQLTxAdapter) Rollback(_ context.Context) error {
	return s.tx.Rollback()
}
