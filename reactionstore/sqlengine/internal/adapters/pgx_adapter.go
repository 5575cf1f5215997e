package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
)

// PGXAdapter implements DBAdapter for pgxpool.Pool.
type PGXAdapter struct {
	pool        *pgxpool.Pool
	replicaPool *pgxpool.Pool // optional replica for read transactions
}

// NewPGXAdapter creates a new PGX adapter with a primary pool.
func NewPGXAdapter(pool *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{pool: pool}
}

// NewPGXAdapterWithReplica creates a new PGX adapter with a primary pool and a replica pool.
func NewPGXAdapterWithReplica(pool *pgxpool.Pool, replica *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{pool: pool, replicaPool: replica}
}

// BeginTx starts a transaction on the pool chosen by UsesReplica.
func (p *PGXAdapter) BeginTx(ctx context.Context, readOnly bool) (TxAdapter, error) {
	pool := p.pool
	options := pgx.TxOptions{}

	if readOnly {
		options.AccessMode = pgx.ReadOnly
	}

	if UsesReplica(ctx, readOnly, p.replicaPool != nil) {
		pool = p.replicaPool
	}

	tx, err := pool.BeginTx(ctx, options)
	if err != nil {
		return nil, err
	}

	return NewPGXTxAdapter(tx), nil
}

// UsesReplica reports whether a transaction runs on the replica: only read transactions
// whose context asks for reactionstore.ReplicaSource, and only if a replica exists.
func UsesReplica(ctx context.Context, readOnly bool, hasReplica bool) bool {
	return readOnly && hasReplica && reactionstore.ReadSourceFrom(ctx) == reactionstore.ReplicaSource
}

// PGXTxAdapter implements TxAdapter for pgx.Tx.
type PGXTxAdapter struct {
	tx pgx.Tx
}

// NewPGXTxAdapter wraps a caller-owned pgx.Tx.
func NewPGXTxAdapter(tx pgx.Tx) *PGXTxAdapter {
	return &PGXTxAdapter{tx: tx}
}

// Query executes a query using the pgx transaction and returns wrapped rows.
func (p *PGXTxAdapter) Query(ctx context.Context, query string, args ...any) (reactionstore.Rows, error) {
	rows, err := p.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &pgxRows{rows: rows}, nil
}

// QueryRow executes a query using the pgx transaction that is expected to return at most one row.
func (p *PGXTxAdapter) QueryRow(ctx context.Context, query string, args ...any) reactionstore.Row {
	return &pgxRow{row: p.tx.QueryRow(ctx, query, args...)}
}

// Exec executes a statement using the pgx transaction and returns wrapped result.
func (p *PGXTxAdapter) Exec(ctx context.Context, query string, args ...any) (reactionstore.ExecResult, error) {
	tag, err := p.tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &pgxResult{tag: tag}, nil
}

// Commit commits the transaction.
func (p *PGXTxAdapter) Commit(ctx context.Context) error {
	return p.tx.Commit(ctx)
}

// Rollback aborts the transaction.
func (p *PGXTxAdapter) Rollback(ctx context.Context) error {
	return p.tx.Rollback(ctx)
}

// pgxRows wraps pgx.Rows to implement the reactionstore.Rows interface.
type pgxRows struct {
	rows pgx.Rows
}

// Next advances to the next row.
func (p *pgxRows) Next() bool {
	return p.rows.Next()
}

// Scan copies row values into provided destinations.
func (p *pgxRows) Scan(dest ...any) error {
	return p.rows.Scan(dest...)
}

// Err returns the error, if any, that was encountered during iteration.
func (p *pgxRows) Err() error {
	return p.rows.Err()
}

// Close closes the rows iterator.
func (p *pgxRows) Close() error {
	p.rows.Close()
	return nil
}

// pgxRow wraps pgx.Row to implement the reactionstore.Row interface.
type pgxRow struct {
	row pgx.Row
}

// Scan copies the row values into provided destinations, mapping pgx.ErrNoRows to reactionstore.ErrNoRows.
func (p *pgxRow) Scan(dest ...any) error {
	err := p.row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Join(reactionstore.ErrNoRows, err)
	}

	return err
}

// pgxResult wraps pgconn.CommandTag to implement the reactionstore.ExecResult interface.
type pgxResult struct {
	tag pgconn.CommandTag
}

// RowsAffected returns the number of rows affected by the command.
func (p *pgxResult) RowsAffected() (int64, error) {
	return p.tag.RowsAffected(), nil
}
