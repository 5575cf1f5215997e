package config

// SQLiteSchema creates the reactions table used by the SQLite test databases.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS reactions (
	unique_row_id        TEXT    NOT NULL PRIMARY KEY,
	unique_message_id    TEXT    NOT NULL,
	reactor_stable_id    TEXT,
	reactor_secondary_id TEXT,
	emoji                TEXT    NOT NULL,
	sort_id              INTEGER NOT NULL,
	is_read              BOOLEAN NOT NULL DEFAULT 0,
	reacted_at_ms        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reactions_message_sort ON reactions (unique_message_id, sort_id);
`

// PostgresSchema creates the reactions table used by the PostgreSQL test databases.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS reactions (
	unique_row_id        TEXT    NOT NULL PRIMARY KEY,
	unique_message_id    TEXT    NOT NULL,
	reactor_stable_id    TEXT,
	reactor_secondary_id TEXT,
	emoji                TEXT    NOT NULL,
	sort_id              BIGINT  NOT NULL,
	is_read              BOOLEAN NOT NULL DEFAULT FALSE,
	reacted_at_ms        BIGINT  NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reactions_message_sort ON reactions (unique_message_id, sort_id);
`
