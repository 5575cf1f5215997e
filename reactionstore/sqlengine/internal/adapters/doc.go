// Package adapters provide database adapter implementations for the SQL reaction store.
//
// This package implements the adapter pattern to support multiple database libraries:
// pgx (pgxpool.Pool, pgx.Tx), database/sql (sql.DB, sql.Tx), and sqlx (sqlx.DB, sqlx.Tx).
// All adapters provide equivalent functionality through the common DBAdapter and
// TxAdapter interfaces, so the reaction store works with any supported connection type.
//
// The adapters normalise library specifics, e.g., the "no rows" errors of pgx and
// database/sql both map to reactionstore.ErrNoRows.
package adapters
