package reactionstore

import (
	"context"
)

// Rows is a lazily produced sequence of result rows.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Row is a single result row.
//
// Scan returns ErrNoRows (possibly joined with the driver error) if the query matched nothing.
type Row interface {
	Scan(dest ...any) error
}

// ExecResult is the result of a statement without result rows.
type ExecResult interface {
	RowsAffected() (int64, error)
}

// ReadTx is a read-scoped transaction handle supplied by the caller.
type ReadTx interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

// WriteTx is a write-scoped transaction handle supplied by the caller.
//
// It can be used for reads as well. Read handles built by this module do not
// implement WriteTx, so they can't be passed to mutating operations.
type WriteTx interface {
	ReadTx
	Exec(ctx context.Context, query string, args ...any) (ExecResult, error)
}
