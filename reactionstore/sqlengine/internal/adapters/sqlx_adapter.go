package adapters

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
)

// SQLXAdapter implements DBAdapter for sqlx.DB.
type SQLXAdapter struct {
	db                *sqlx.DB
	readOnlySupported bool
}

// NewSQLXAdapter creates a new SQLX adapter.
// Set readOnlySupported if the driver accepts read-only transactions.
func NewSQLXAdapter(db *sqlx.DB, readOnlySupported bool) *SQLXAdapter {
	return &SQLXAdapter{db: db, readOnlySupported: readOnlySupported}
}

// BeginTx starts a transaction on the sqlx.DB.
func (s *SQLXAdapter) BeginTx(ctx context.Context, readOnly bool) (TxAdapter, error) {
	tx, err := s.db.BeginTxx(ctx, txOptions(readOnly && s.readOnlySupported))
	if err != nil {
		return nil, err
	}

	return NewSQLXTxAdapter(tx), nil
}

// SQLXTxAdapter implements TxAdapter for sqlx.Tx.
type SQLXTxAdapter struct {
	tx *sqlx.Tx
}

// NewSQLXTxAdapter wraps a caller-owned sqlx.Tx.
func NewSQLXTxAdapter(tx *sqlx.Tx) *SQLXTxAdapter {
	return &SQLXTxAdapter{tx: tx}
}

// Query executes a query using the sqlx.Tx and returns wrapped rows.
func (s *SQLXTxAdapter) Query(ctx context.Context, query string, args ...any) (reactionstore.Rows, error) {
	rows, err := s.tx.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows.Rows}, nil
}

// QueryRow executes a query using the sqlx.Tx that is expected to return at most one row.
func (s *SQLXTxAdapter) QueryRow(ctx context.Context, query string, args ...any) reactionstore.Row {
	return &stdRow{row: s.tx.QueryRowContext(ctx, query, args...)}
}

// Exec executes a statement using the sqlx.Tx and returns wrapped result.
func (s *SQLXTxAdapter) Exec(ctx context.Context, query string, args ...any) (reactionstore.ExecResult, error) {
	result, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}

// Commit commits the transaction.
func (s *SQLXTxAdapter) Commit(_ context.Context) error {
	return s.tx.Commit()
}

// Rollback aborts the transaction.
func (s *SQLXTxAdapter) Rollback(_ context.Context) error {
	return s.tx.Rollback()
}
