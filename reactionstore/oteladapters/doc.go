// Package oteladapters provides OpenTelemetry adapters for the reactionstore observability interfaces.
//
// The adapters let a ReactionQuery report to OpenTelemetry without implementing the
// interfaces yourself:
//   - SlogBridgeLogger and OTelLogger implement reactionstore.ContextualLogger
//   - MetricsCollector implements reactionstore.ContextualMetricsCollector
//   - TracingCollector implements reactionstore.TracingCollector
//
// Usage:
//
//	query, _ := sqlengine.NewReactionQuery(messageID,
//		sqlengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("reactions")),
//		sqlengine.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("reactions"))),
//		sqlengine.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("reactions"))),
//	)
package oteladapters
