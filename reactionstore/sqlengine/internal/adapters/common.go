package adapters

import (
	"database/sql"
	"errors"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
)

// stdRows wraps standard library sql.Rows to implement the reactionstore.Rows interface.
type stdRows struct {
	rows *sql.Rows
}

// Next advances to the next row.
func (s *stdRows) Next() bool {
	return s.rows.Next()
}

// Scan copies row values into provided destinations.
func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

// Err returns the error, if any, that was encountered during iteration.
func (s *stdRows) Err() error {
	return s.rows.Err()
}

// Close closes the rows iterator.
func (s *stdRows) Close() error {
	return s.rows.Close()
}

// stdRow wraps standard library sql.Row to implement the reactionstore.Row interface.
type stdRow struct {
	row *sql.Row
}

// Scan copies the row values into provided destinations, mapping sql.ErrNoRows to reactionstore.ErrNoRows.
func (s *stdRow) Scan(dest ...any) error {
	err := s.row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Join(reactionstore.ErrNoRows, err)
	}

	return err
}

// stdResult wraps standard library sql.Result to implement the reactionstore.ExecResult interface.
type stdResult struct {
	result sql.Result
}

// RowsAffected returns the number of rows affected by the command.
func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}

// txOptions builds the standard library transaction options.
func txOptions(readOnly bool) *sql.TxOptions {
	if !readOnly {
		return nil
	}

	return &sql.TxOptions{ReadOnly: true}
}
