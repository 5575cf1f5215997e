package sqlengine

import (
	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
)

// Option defines a functional option for configuring ReactionQuery.
type Option func(*ReactionQuery) error

// WithTableName sets the table name for the ReactionQuery.
func WithTableName(tableName string) Option {
	return func(q *ReactionQuery) error {
		if tableName == "" {
			return reactionstore.ErrEmptyTableName
		}

		q.tableName = tableName

		return nil
	}
}

// WithDialect sets the SQL dialect used to build queries: "postgres" (default), "sqlite3", or "mysql".
func WithDialect(dialect string) Option {
	return func(q *ReactionQuery) error {
		if !isSupportedDialect(dialect) {
			return reactionstore.ErrUnsupportedDialect
		}

		q.dialect = dialect

		return nil
	}
}

// WithRecordMapper replaces reactionstore.BuildReaction as the mapper from raw rows to reactions.
func WithRecordMapper(mapper reactionstore.RecordMapper) Option {
	return func(q *ReactionQuery) error {
		if mapper == nil {
			return reactionstore.ErrNilRecordMapper
		}

		q.mapper = mapper

		return nil
	}
}

// WithLogger sets the logger for the ReactionQuery.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Result counts, durations, rows affected (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Storage failures, including reads that degraded to an empty result.
func WithLogger(logger reactionstore.Logger) Option {
	return func(q *ReactionQuery) error {
		q.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the ReactionQuery.
// The collector will receive read/delete durations, result counts, degraded reads, and database errors.
func WithMetrics(collector reactionstore.MetricsCollector) Option {
	return func(q *ReactionQuery) error {
		q.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the ReactionQuery.
// The collector will receive one span per operation.
func WithTracing(collector reactionstore.TracingCollector) Option {
	return func(q *ReactionQuery) error {
		q.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the ReactionQuery.
// The contextual logger receives the same messages as the Logger, together with the
// operation's context, which enables trace correlation when tracing is enabled.
func WithContextualLogger(logger reactionstore.ContextualLogger) Option {
	return func(q *ReactionQuery) error {
		q.contextualLogger = logger
		return nil
	}
}
