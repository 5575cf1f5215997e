// Package dbwrapper runs the ReactionQuery test suite against every supported database adapter.
//
// The adapter is selected with the ADAPTER_TYPE environment variable:
// "sqlite.sql" (default), "sqlite.sqlx", "pgx.pool", "sql.db", or "sqlx.db".
// The PostgreSQL adapters need a running database, see the config package for its DSNs.
package dbwrapper
