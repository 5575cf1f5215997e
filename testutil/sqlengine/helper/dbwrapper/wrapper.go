package dbwrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
	"github.com/AntonStoeckl/message-reactions-go/reactionstore/sqlengine"
	"github.com/AntonStoeckl/message-reactions-go/testutil/sqlengine/config"
)

// Adapter type constants, selected with the ADAPTER_TYPE environment variable.
const (
	TypeSQLiteSQLDB = "sqlite.sql"
	TypeSQLiteSQLX  = "sqlite.sqlx"
	TypePGXPool        = "pgx.pool"
	TypePGXPoolReplica = "pgx.pool.replica"
	TypeSQLDB          = "sql.db"
	TypeSQLXDB         = "sqlx.db"
)

const (
	dialectSQLite   = "sqlite3"
	dialectPostgres = "postgres"
	reactionsTable  = "reactions"
)

// StoredReaction is one raw row to insert into the reactions table.
// Empty reactor ids are stored as NULL.
type StoredReaction struct {
	RowID       string
	MessageID   string
	StableID    string
	SecondaryID string
	Emoji       string
	SortID      int64
	Read        bool
	ReactedAtMS int64
}

// Wrapper abstracts over the supported database adapters for tests.
type Wrapper interface {
	AdapterType() string
	TxManager() *sqlengine.TxManager
	NewReactionQuery(t testing.TB, messageID string, options ...sqlengine.Option) *sqlengine.ReactionQuery
	StoreReaction(t testing.TB, reaction StoredReaction)
	InCallerOwnedTx(t testing.TB, fn func(read reactionstore.ReadTx, write reactionstore.WriteTx))
	CleanUp(t testing.TB)
	Close()
}

// base holds what all wrappers share: the dialect, the manager, and a raw exec function.
type base struct {
	adapterType string
	dialect     string
	txManager   *sqlengine.TxManager
	exec        func(ctx context.Context, query string, args ...any) error
}

func (b *base) AdapterType() string {
	return b.adapterType
}

func (b *base) TxManager() *sqlengine.TxManager {
	return b.txManager
}

func (b *base) NewReactionQuery(t testing.TB, messageID string, options ...sqlengine.Option) *sqlengine.ReactionQuery {
	allOptions := append([]sqlengine.Option{sqlengine.WithDialect(b.dialect)}, options...)

	query, err := sqlengine.NewReactionQuery(messageID, allOptions...)
	require.NoError(t, err, "error creating the reaction query in test setup")

	return query
}

func (b *base) StoreReaction(t testing.TB, reaction StoredReaction) {
	insertStmt := goqu.Dialect(b.dialect).
		Insert(reactionsTable).
		Prepared(true).
		Rows(goqu.Record{
			"unique_row_id":        reaction.RowID,
			"unique_message_id":    reaction.MessageID,
			"reactor_stable_id":    nullable(reaction.StableID),
			"reactor_secondary_id": nullable(reaction.SecondaryID),
			"emoji":                reaction.Emoji,
			"sort_id":              reaction.SortID,
			"is_read":              reaction.Read,
			"reacted_at_ms":        reaction.ReactedAtMS,
		})

	query, args, err := insertStmt.ToSQL()
	require.NoError(t, err, "error building the insert in arranging test data")

	err = b.exec(context.Background(), query, args...)
	require.NoError(t, err, "error in arranging test data")
}

func (b *base) CleanUp(t testing.TB) {
	err := b.exec(context.Background(), "DELETE FROM "+reactionsTable)
	require.NoError(t, err, "error cleaning up the reactions table")
}

func nullable(value string) any {
	if value == "" {
		return nil
	}

	return value
}

// SQLDBWrapper wraps sql.DB-based testing, both for SQLite and PostgreSQL.
type SQLDBWrapper struct {
	base
	db *sql.DB
}

func (w *SQLDBWrapper) InCallerOwnedTx(t testing.TB, fn func(read reactionstore.ReadTx, write reactionstore.WriteTx)) {
	tx, err := w.db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "error beginning the caller-owned transaction")

	read, readErr := sqlengine.ReadTxFromSQL(tx)
	require.NoError(t, readErr)
	write, writeErr := sqlengine.WriteTxFromSQL(tx)
	require.NoError(t, writeErr)

	fn(read, write)

	require.NoError(t, tx.Commit(), "error committing the caller-owned transaction")
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing, both for SQLite and PostgreSQL.
type SQLXWrapper struct {
	base
	db *sqlx.DB
}

func (w *SQLXWrapper) InCallerOwnedTx(t testing.TB, fn func(read reactionstore.ReadTx, write reactionstore.WriteTx)) {
	tx, err := w.db.BeginTxx(context.Background(), nil)
	require.NoError(t, err, "error beginning the caller-owned transaction")

	read, readErr := sqlengine.ReadTxFromSQLX(tx)
	require.NoError(t, readErr)
	write, writeErr := sqlengine.WriteTxFromSQLX(tx)
	require.NoError(t, writeErr)

	fn(read, write)

	require.NoError(t, tx.Commit(), "error committing the caller-owned transaction")
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// PGXPoolWrapper wraps pgxpool-based testing, optionally with a streaming replica for reads.
type PGXPoolWrapper struct {
	base
	pool    *pgxpool.Pool
	replica *pgxpool.Pool
}

func (w *PGXPoolWrapper) InCallerOwnedTx(t testing.TB, fn func(read reactionstore.ReadTx, write reactionstore.WriteTx)) {
	ctx := context.Background()

	tx, err := w.pool.BeginTx(ctx, pgx.TxOptions{})
	require.NoError(t, err, "error beginning the caller-owned transaction")

	read, readErr := sqlengine.ReadTxFromPGX(tx)
	require.NoError(t, readErr)
	write, writeErr := sqlengine.WriteTxFromPGX(tx)
	require.NoError(t, writeErr)

	fn(read, write)

	require.NoError(t, tx.Commit(ctx), "error committing the caller-owned transaction")
}

func (w *PGXPoolWrapper) Close() {
	if w.replica != nil {
		w.replica.Close()
	}

	w.pool.Close()
}

// CreateWrapperWithTestConfig creates the appropriate wrapper based on the ADAPTER_TYPE environment variable.
// SQLite with database/sql is the default.
func CreateWrapperWithTestConfig(t testing.TB) Wrapper {
	adapterTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	switch adapterTypeFromEnv {
	case TypeSQLiteSQLDB, "":
		db := config.SQLiteSQLDBConfig(t)

		return newSQLDBWrapper(t, TypeSQLiteSQLDB, dialectSQLite, db)

	case TypeSQLiteSQLX:
		db := config.SQLiteSQLXConfig(t)

		return newSQLXWrapper(t, TypeSQLiteSQLX, dialectSQLite, db)

	case TypePGXPool:
		return newPGXPoolWrapper(t, TypePGXPool, false)

	case TypePGXPoolReplica:
		return newPGXPoolWrapper(t, TypePGXPoolReplica, true)

	case TypeSQLDB:
		db := config.PostgresSQLDBSingleConfig()
		_, err := db.ExecContext(context.Background(), config.PostgresSchema)
		require.NoError(t, err, "error applying the postgres test schema")

		return newSQLDBWrapper(t, TypeSQLDB, dialectPostgres, db, sqlengine.WithReadOnlyReadTx())

	case TypeSQLXDB:
		db := config.PostgresSQLXSingleConfig()
		_, err := db.ExecContext(context.Background(), config.PostgresSchema)
		require.NoError(t, err, "error applying the postgres test schema")

		return newSQLXWrapper(t, TypeSQLXDB, dialectPostgres, db, sqlengine.WithReadOnlyReadTx())

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterTypeFromEnv))
	}
}

func newPGXPoolWrapper(t testing.TB, adapterType string, withReplica bool) *PGXPoolWrapper {
	ctx := context.Background()

	pool, err := pgxpool.NewWithConfig(ctx, config.PostgresPGXPoolSingleConfig())
	require.NoError(t, err, "error connecting to DB pool in test setup")

	_, err = pool.Exec(ctx, config.PostgresSchema)
	require.NoError(t, err, "error applying the postgres test schema")

	var replica *pgxpool.Pool
	if withReplica {
		replica, err = pgxpool.NewWithConfig(ctx, config.PostgresPGXPoolReplicaConfig())
		require.NoError(t, err, "error connecting to replica DB pool in test setup")
		require.NoError(t, replica.Ping(ctx), "error pinging the replica in test setup")
	}

	txManager, err := sqlengine.NewTxManagerFromPGXPoolWithReplica(pool, replica)
	require.NoError(t, err, "error creating the transaction manager in test setup")

	return &PGXPoolWrapper{
		base: base{
			adapterType: adapterType,
			dialect:     dialectPostgres,
			txManager:   txManager,
			exec: func(ctx context.Context, query string, args ...any) error {
				_, execErr := pool.Exec(ctx, query, args...)
				return execErr
			},
		},
		pool:    pool,
		replica: replica,
	}
}

func newSQLDBWrapper(t testing.TB, adapterType, dialect string, db *sql.DB, options ...sqlengine.TxOption) *SQLDBWrapper {
	txManager, err := sqlengine.NewTxManagerFromSQLDB(db, options...)
	require.NoError(t, err, "error creating the transaction manager in test setup")

	return &SQLDBWrapper{
		base: base{
			adapterType: adapterType,
			dialect:     dialect,
			txManager:   txManager,
			exec: func(ctx context.Context, query string, args ...any) error {
				_, execErr := db.ExecContext(ctx, query, args...)
				return execErr
			},
		},
		db: db,
	}
}

func newSQLXWrapper(t testing.TB, adapterType, dialect string, db *sqlx.DB, options ...sqlengine.TxOption) *SQLXWrapper {
	txManager, err := sqlengine.NewTxManagerFromSQLX(db, options...)
	require.NoError(t, err, "error creating the transaction manager in test setup")

	return &SQLXWrapper{
		base: base{
			adapterType: adapterType,
			dialect:     dialect,
			txManager:   txManager,
			exec: func(ctx context.Context, query string, args ...any) error {
				_, execErr := db.ExecContext(ctx, query, args...)
				return execErr
			},
		},
		db: db,
	}
}
