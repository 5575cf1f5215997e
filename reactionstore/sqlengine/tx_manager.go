package sqlengine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
	"github.com/AntonStoeckl/message-reactions-go/reactionstore/sqlengine/internal/adapters"
)

// TxManager runs functions inside database transactions and hands them the matching handle.
//
// It commits when the function returns nil, rolls back when it returns an error, and rolls back
// and re-panics when it panics.
type TxManager struct {
	db adapters.DBAdapter
}

// TxOption defines a functional option for configuring TxManager constructors.
type TxOption func(*txManagerConfig)

type txManagerConfig struct {
	readOnlyReadTx bool
}

// WithReadOnlyReadTx makes database/sql and sqlx read transactions READ ONLY.
// Only use it with drivers that support read-only transactions.
// pgx read transactions are always READ ONLY.
func WithReadOnlyReadTx() TxOption {
	return func(cfg *txManagerConfig) {
		cfg.readOnlyReadTx = true
	}
}

func buildTxManagerConfig(options []TxOption) txManagerConfig {
	cfg := txManagerConfig{}
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// NewTxManagerFromPGXPool creates a TxManager on a pgx connection pool.
func NewTxManagerFromPGXPool(pool *pgxpool.Pool) (*TxManager, error) {
	if pool == nil {
		return nil, reactionstore.ErrNilDatabaseConnection
	}

	return &TxManager{db: adapters.NewPGXAdapter(pool)}, nil
}

// NewTxManagerFromPGXPoolWithReplica creates a TxManager with a primary and a replica pool.
//
// Read transactions use the replica only if the context carries reactionstore.ReadFromReplica.
func NewTxManagerFromPGXPoolWithReplica(pool *pgxpool.Pool, replica *pgxpool.Pool) (*TxManager, error) {
	if pool == nil {
		return nil, reactionstore.ErrNilDatabaseConnection
	}

	if replica == nil {
		return &TxManager{db: adapters.NewPGXAdapter(pool)}, nil
	}

	return &TxManager{db: adapters.NewPGXAdapterWithReplica(pool, replica)}, nil
}

// NewTxManagerFromSQLDB creates a TxManager on a database/sql connection pool.
func NewTxManagerFromSQLDB(db *sql.DB, options ...TxOption) (*TxManager, error) {
	if db == nil {
		return nil, reactionstore.ErrNilDatabaseConnection
	}

	cfg := buildTxManagerConfig(options)

	return &TxManager{db: adapters.NewSQLAdapter(db, cfg.readOnlyReadTx)}, nil
}

// NewTxManagerFromSQLX creates a TxManager on a sqlx connection pool.
func NewTxManagerFromSQLX(db *sqlx.DB, options ...TxOption) (*TxManager, error) {
	if db == nil {
		return nil, reactionstore.ErrNilDatabaseConnection
	}

	cfg := buildTxManagerConfig(options)

	return &TxManager{db: adapters.NewSQLXAdapter(db, cfg.readOnlyReadTx)}, nil
}

// InReadTx runs fn inside a read transaction.
func (m *TxManager) InReadTx(ctx context.Context, fn func(tx reactionstore.ReadTx) error) error {
	return m.inTx(ctx, true, func(tx adapters.TxAdapter) error {
		return fn(readTx{tx: tx})
	})
}

// InWriteTx runs fn inside a read-write transaction.
func (m *TxManager) InWriteTx(ctx context.Context, fn func(tx reactionstore.WriteTx) error) error {
	return m.inTx(ctx, false, func(tx adapters.TxAdapter) error {
		return fn(tx)
	})
}

func (m *TxManager) inTx(ctx context.Context, readOnly bool, fn func(tx adapters.TxAdapter) error) (err error) {
	tx, beginErr := m.db.BeginTx(ctx, readOnly)
	if beginErr != nil {
		return errors.Join(reactionstore.ErrBeginTxFailed, beginErr)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}

		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = errors.Join(err, reactionstore.ErrRollbackTxFailed, rollbackErr)
			}

			return
		}

		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = errors.Join(reactionstore.ErrCommitTxFailed, commitErr)
		}
	}()

	err = fn(tx)

	return err
}

// readTx narrows a transaction to its read methods, so it can't be asserted to reactionstore.WriteTx.
type readTx struct {
	tx reactionstore.ReadTx
}

func (r readTx) Query(ctx context.Context, query string, args ...any) (reactionstore.Rows, error) {
	return r.tx.Query(ctx, query, args...)
}

func (r readTx) QueryRow(ctx context.Context, query string, args ...any) reactionstore.Row {
	return r.tx.QueryRow(ctx, query, args...)
}

// ReadTxFromPGX wraps a caller-owned pgx transaction as a read handle.
func ReadTxFromPGX(tx pgx.Tx) (reactionstore.ReadTx, error) {
	if tx == nil {
		return nil, reactionstore.ErrNilTransaction
	}

	return readTx{tx: adapters.NewPGXTxAdapter(tx)}, nil
}

// WriteTxFromPGX wraps a caller-owned pgx transaction as a write handle.
func WriteTxFromPGX(tx pgx.Tx) (reactionstore.WriteTx, error) {
	if tx == nil {
		return nil, reactionstore.ErrNilTransaction
	}

	return adapters.NewPGXTxAdapter(tx), nil
}

// ReadTxFromSQL wraps a caller-owned database/sql transaction as a read handle.
func ReadTxFromSQL(tx *sql.Tx) (reactionstore.ReadTx, error) {
	if tx == nil {
		return nil, reactionstore.ErrNilTransaction
	}

	return readTx{tx: adapters.NewSQLTxAdapter(tx)}, nil
}

// WriteTxFromSQL wraps a caller-owned database/sql transaction as a write handle.
func WriteTxFromSQL(tx *sql.Tx) (reactionstore.WriteTx, error) {
	if tx == nil {
		return nil, reactionstore.ErrNilTransaction
	}

	return adapters.NewSQLTxAdapter(tx), nil
}

// ReadTxFromSQLX wraps a caller-owned sqlx transaction as a read handle.
func ReadTxFromSQLX(tx *sqlx.Tx) (reactionstore.ReadTx, error) {
	if tx == nil {
		return nil, reactionstore.ErrNilTransaction
	}

	return readTx{tx: adapters.NewSQLXTxAdapter(tx)}, nil
}

// WriteTxFromSQLX wraps a caller-owned sqlx transaction as a write handle.
func WriteTxFromSQLX(tx *sqlx.Tx) (reactionstore.WriteTx, error) {
	if tx == nil {
		return nil, reactionstore.ErrNilTransaction
	}

	return adapters.NewSQLXTxAdapter(tx), nil
}
