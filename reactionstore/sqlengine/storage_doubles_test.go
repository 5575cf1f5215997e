package sqlengine_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
)

var errStorageDown = errors.New("storage is down")

// scriptedRows replays fixed rows and can fail on a given row or after the last one.
type scriptedRows struct {
	values    [][]any
	cursor    int
	failScan  int // 1-based row number whose Scan fails, 0 for none
	iterErr   error
	closeErr  error
	closed    bool
	iterating bool
}

func (r *scriptedRows) Next() bool {
	if r.cursor >= len(r.values) {
		return false
	}

	r.cursor++
	r.iterating = true

	return true
}

func (r *scriptedRows) Scan(dest ...any) error {
	if !r.iterating {
		return errors.New("scan called without next")
	}

	if r.failScan == r.cursor {
		return errStorageDown
	}

	return assign(dest, r.values[r.cursor-1])
}

func (r *scriptedRows) Err() error {
	return r.iterErr
}

func (r *scriptedRows) Close() error {
	r.closed = true
	return r.closeErr
}

// scriptedRow is the result of one QueryRow call.
type scriptedRow struct {
	values []any
	err    error
}

func (r scriptedRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}

	return assign(dest, r.values)
}

func assign(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("expected %d scan targets, got %d", len(values), len(dest))
	}

	for i, target := range dest {
		switch typed := target.(type) {
		case sql.Scanner:
			if err := typed.Scan(values[i]); err != nil {
				return err
			}
		case *string:
			*typed, _ = values[i].(string)
		case *int64:
			*typed, _ = values[i].(int64)
		case *bool:
			*typed, _ = values[i].(bool)
		default:
			return fmt.Errorf("unsupported scan target %T", target)
		}
	}

	return nil
}

// reactionValues is one raw reactions row in select column order. Empty ids are NULL.
func reactionValues(rowID, stableID, secondaryID, emoji string, sortID int64) []any {
	return []any{
		rowID,
		"message-1",
		nilIfEmpty(stableID),
		nilIfEmpty(secondaryID),
		emoji,
		sortID,
		false,
		int64(1740830400000) + sortID*1000,
	}
}

func nilIfEmpty(value string) any {
	if value == "" {
		return nil
	}

	return value
}

// txDouble is a scripted ReadTx and WriteTx.
type txDouble struct {
	mu           sync.Mutex
	queryErr     error
	rows         *scriptedRows
	rowResults   []scriptedRow
	execErr      error
	rowsAffected int64
	affectedErr  error
	queries      []string
}

func (tx *txDouble) Query(_ context.Context, query string, _ ...any) (reactionstore.Rows, error) {
	tx.record(query)

	if tx.queryErr != nil {
		return nil, tx.queryErr
	}

	if tx.rows == nil {
		return &scriptedRows{}, nil
	}

	return tx.rows, nil
}

func (tx *txDouble) QueryRow(_ context.Context, query string, _ ...any) reactionstore.Row {
	call := tx.record(query)

	if call >= len(tx.rowResults) {
		return scriptedRow{err: reactionstore.ErrNoRows}
	}

	return tx.rowResults[call]
}

func (tx *txDouble) Exec(_ context.Context, query string, _ ...any) (reactionstore.ExecResult, error) {
	tx.record(query)

	if tx.execErr != nil {
		return nil, tx.execErr
	}

	return execResult{rowsAffected: tx.rowsAffected, err: tx.affectedErr}, nil
}

func (tx *txDouble) record(query string) int {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	tx.queries = append(tx.queries, query)

	return len(tx.queries) - 1
}

func (tx *txDouble) queryCount() int {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	return len(tx.queries)
}

type execResult struct {
	rowsAffected int64
	err          error
}

func (r execResult) RowsAffected() (int64, error) {
	return r.rowsAffected, r.err
}
