package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/AntonStoeckl/message-reactions-go/reactionstore/sqlengine"
)

// database is an open connection pool with its transaction manager and query dialect.
type database struct {
	txManager *sqlengine.TxManager
	dialect   string
	close     func()
}

// openDatabase connects with the configured driver. Only failed pings wrap errDatabaseUnreachable,
// so a malformed DSN fails without retries.
func openDatabase(ctx context.Context, cfg EnvConfig) (*database, error) {
	switch cfg.Driver {
	case driverPGX:
		pool, err := openPGXPool(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}

		var replica *pgxpool.Pool
		if cfg.ReplicaDSN != "" {
			if replica, err = openPGXPool(ctx, cfg.ReplicaDSN); err != nil {
				pool.Close()
				return nil, fmt.Errorf("replica: %w", err)
			}
		}

		closeAll := func() {
			if replica != nil {
				replica.Close()
			}
			pool.Close()
		}

		txManager, err := sqlengine.NewTxManagerFromPGXPoolWithReplica(pool, replica)
		if err != nil {
			closeAll()
			return nil, err
		}

		return &database{txManager: txManager, dialect: "postgres", close: closeAll}, nil

	case driverPostgres:
		db, err := sqlx.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}

		if pingErr := db.PingContext(ctx); pingErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: ping postgres: %w", errDatabaseUnreachable, pingErr)
		}

		txManager, err := sqlengine.NewTxManagerFromSQLX(db, sqlengine.WithReadOnlyReadTx())
		if err != nil {
			_ = db.Close()
			return nil, err
		}

		return &database{txManager: txManager, dialect: "postgres", close: func() { _ = db.Close() }}, nil

	case driverMySQL:
		return openSQLDB(ctx, "mysql", cfg.DSN, "mysql", sqlengine.WithReadOnlyReadTx())

	default:
		return openSQLDB(ctx, "sqlite", cfg.DSN, "sqlite3")
	}
}

// openPGXPool parses dsn and pings the pool. Only the ping failure counts as unreachable.
func openPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect pgx pool: %w", err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping pgx pool: %w", errDatabaseUnreachable, pingErr)
	}

	return pool, nil
}

func openSQLDB(ctx context.Context, driverName, dsn, dialect string, options ...sqlengine.TxOption) (*database, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", errDatabaseUnreachable, driverName, pingErr)
	}

	txManager, err := sqlengine.NewTxManagerFromSQLDB(db, options...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &database{txManager: txManager, dialect: dialect, close: func() { _ = db.Close() }}, nil
}
