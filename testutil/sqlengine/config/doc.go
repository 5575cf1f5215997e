// Package config provides database configuration for ReactionQuery testing.
//
// This package contains factory functions for creating database connections
// for every supported adapter: SQLite files via modernc.org/sqlite (sql.DB and sqlx.DB)
// and PostgreSQL via pgx.Pool, sql.DB and sqlx.DB.
//
// SQLite databases live in a per-test temporary directory and get the reactions
// schema applied on creation. PostgreSQL DSNs default to a local test database and
// can be overridden with environment variables.
package config
