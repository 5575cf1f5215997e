package config

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // sqlite driver
)

const sqliteDriverName = "sqlite"

// SQLiteSQLDBConfig creates a *sql.DB on a fresh SQLite file with the reactions schema applied.
func SQLiteSQLDBConfig(t testing.TB) *sql.DB {
	db, err := sql.Open(sqliteDriverName, SQLiteFileDSN(sqliteTestFile(t)))
	require.NoError(t, err, "error opening the sqlite test database")

	applySQLiteSchema(t, db)

	return db
}

// SQLiteSQLXConfig creates a *sqlx.DB on a fresh SQLite file with the reactions schema applied.
func SQLiteSQLXConfig(t testing.TB) *sqlx.DB {
	db, err := sqlx.Open(sqliteDriverName, SQLiteFileDSN(sqliteTestFile(t)))
	require.NoError(t, err, "error opening the sqlite test database")

	applySQLiteSchema(t, db.DB)

	return db
}

func sqliteTestFile(t testing.TB) string {
	return filepath.Join(t.TempDir(), "reactions.db")
}

func applySQLiteSchema(t testing.TB, db *sql.DB) {
	_, err := db.ExecContext(context.Background(), SQLiteSchema)
	require.NoError(t, err, "error applying the sqlite test schema")
}
