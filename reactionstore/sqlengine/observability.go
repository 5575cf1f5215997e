package sqlengine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore"
)

const (
	logMsgSQLExecuted     = "executed sql for: "
	logMsgOperation       = "reactionstore operation: "
	logMsgCompleted       = " completed"
	logMsgReadDegraded    = "reaction read degraded to empty result"
	logMsgReadTruncated   = "reaction read truncated after storage failure"
	logMsgDeleteFailed    = "deleting reactions failed"
	logMsgLookupStepFail  = "reaction lookup step failed, trying the next identifier"
	logMsgCloseRowsFailed = "failed to close database rows"
	logAttrError          = "error"
	logAttrErrorType      = "error_type"
	logAttrQuery          = "query"
	logAttrDurationMS     = "duration_ms"
	logAttrMessageID      = "message_id"
	logAttrResultCount    = "reaction_count"
	logAttrRowsAffected   = "rows_affected"
	logAttrTruncated      = "truncated"
)

const (
	operationReactionBy         = "reaction_by"
	operationReactorsFor        = "reactors_for"
	operationAllReactions       = "all_reactions"
	operationUnreadReactions    = "unread_reactions"
	operationEmojiCounts        = "emoji_counts"
	operationAnyReactionExists  = "any_reaction_exists"
	operationForEachReaction    = "for_each_reaction"
	operationAllReactionKeys    = "all_reaction_keys"
	operationDeleteAllReactions = "delete_all_reactions"
)

const (
	metricReadDuration    = "reactionstore_read_duration_seconds"
	metricDeleteDuration  = "reactionstore_delete_duration_seconds"
	metricReactionsRead   = "reactionstore_reactions_read_total"
	metricDegradedReads   = "reactionstore_degraded_reads_total"
	metricDatabaseErrors  = "reactionstore_database_errors_total"
	metricLabelOperation  = "operation"
	metricLabelStatus     = "status"
	metricLabelErrorType  = "error_type"
	spanNamePrefix        = "reactionstore."
	spanAttrOperation     = "operation"
	spanAttrMessageID     = "message_id"
	spanAttrErrorType     = "error_type"
	spanAttrDurationMS    = "duration_ms"
	spanAttrTruncated     = "truncated"
	statusSuccess         = "success"
	statusError           = "error"
	statusDegraded        = "degraded"
	errorTypeBuildQuery   = "build_query"
	errorTypeQuery        = "database_query"
	errorTypeScan         = "row_scan"
	errorTypeIteration    = "row_iteration"
	errorTypeMapping      = "record_mapping"
	errorTypeDelete       = "database_exec"
	errorTypeRowsAffected = "rows_affected"
	errorTypeUnknown      = "unknown"
)

// errorTypeOf classifies a storage error by the sentinel it wraps.
func errorTypeOf(err error) string {
	switch {
	case errors.Is(err, reactionstore.ErrBuildingQueryFailed):
		return errorTypeBuildQuery
	case errors.Is(err, reactionstore.ErrScanningDBRowFailed):
		return errorTypeScan
	case errors.Is(err, reactionstore.ErrIteratingDBRowsFailed):
		return errorTypeIteration
	case errors.Is(err, reactionstore.ErrMappingReactionFailed):
		return errorTypeMapping
	case errors.Is(err, reactionstore.ErrQueryingReactionsFailed):
		return errorTypeQuery
	case errors.Is(err, reactionstore.ErrDeletingReactionsFailed):
		return errorTypeDelete
	case errors.Is(err, reactionstore.ErrGettingRowsAffectedFailed):
		return errorTypeRowsAffected
	default:
		return errorTypeUnknown
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMilliseconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", toMilliseconds(d))
}

// logQueryWithDuration logs SQL queries with execution time at debug level if a logger is configured.
func (q *ReactionQuery) logQueryWithDuration(ctx context.Context, sqlQuery string, operation string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if q.logger != nil {
		q.logger.Debug(logMsgSQLExecuted+operation, args...)
	}

	if q.contextualLogger != nil {
		q.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+operation, args...)
	}
}

func (q *ReactionQuery) logInfo(ctx context.Context, msg string, args ...any) {
	if q.logger != nil {
		q.logger.Info(msg, args...)
	}

	if q.contextualLogger != nil {
		q.contextualLogger.InfoContext(ctx, msg, args...)
	}
}

func (q *ReactionQuery) logWarn(ctx context.Context, msg string, args ...any) {
	if q.logger != nil {
		q.logger.Warn(msg, args...)
	}

	if q.contextualLogger != nil {
		q.contextualLogger.WarnContext(ctx, msg, args...)
	}
}

func (q *ReactionQuery) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if q.logger != nil {
		q.logger.Error(msg, allArgs...)
	}

	if q.contextualLogger != nil {
		q.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

// recordDuration records a duration metric, with context if the collector supports it.
func (q *ReactionQuery) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if q.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := q.metricsCollector.(reactionstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	q.metricsCollector.RecordDuration(metric, duration, labels)
}

// recordValue records a value metric, with context if the collector supports it.
func (q *ReactionQuery) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if q.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := q.metricsCollector.(reactionstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
		return
	}

	q.metricsCollector.RecordValue(metric, value, labels)
}

// incrementCounter increments a counter metric, with context if the collector supports it.
func (q *ReactionQuery) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if q.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := q.metricsCollector.(reactionstore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	q.metricsCollector.IncrementCounter(metric, labels)
}

// === Operation Observer Pattern ===
// The observer bundles logging, metrics and the tracing span of one operation call.

// operationObserver records the outcome of a single ReactionQuery operation.
type operationObserver struct {
	q         *ReactionQuery
	ctx       context.Context
	operation string
	span      reactionstore.SpanContext
	start     time.Time
}

// startOperation starts the span for an operation and returns the observer with the span's context.
func (q *ReactionQuery) startOperation(ctx context.Context, operation string) (*operationObserver, context.Context) {
	var span reactionstore.SpanContext

	if q.tracingCollector != nil {
		ctx, span = q.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, map[string]string{
			spanAttrOperation: operation,
			spanAttrMessageID: q.messageID,
		})
	}

	return &operationObserver{
		q:         q,
		ctx:       ctx,
		operation: operation,
		span:      span,
		start:     time.Now(),
	}, ctx
}

func (o *operationObserver) durationMetric() string {
	if o.operation == operationDeleteAllReactions {
		return metricDeleteDuration
	}

	return metricReadDuration
}

func (o *operationObserver) labels(status string) map[string]string {
	return map[string]string{
		metricLabelOperation: o.operation,
		metricLabelStatus:    status,
	}
}

func (o *operationObserver) errorLabels(status string, errorType string) map[string]string {
	labels := o.labels(status)
	labels[metricLabelErrorType] = errorType

	return labels
}

// finishSuccess records a completed operation with its result count.
func (o *operationObserver) finishSuccess(countAttr string, count int64) {
	duration := time.Since(o.start)

	o.q.logInfo(o.ctx, logMsgOperation+o.operation+logMsgCompleted,
		logAttrMessageID, o.q.messageID,
		countAttr, count,
		logAttrDurationMS, toMilliseconds(duration),
	)

	o.q.recordDuration(o.ctx, o.durationMetric(), duration, o.labels(statusSuccess))

	if o.operation != operationDeleteAllReactions {
		o.q.recordValue(o.ctx, metricReactionsRead, float64(count), o.labels(statusSuccess))
	}

	o.finishSpan(statusSuccess, map[string]string{
		countAttr:          fmt.Sprintf("%d", count),
		spanAttrDurationMS: formatMilliseconds(duration),
	})
}

// finishDegradedRead records a read that failed and was mapped to its fallback or truncated prefix.
func (o *operationObserver) finishDegradedRead(cause error, truncated bool) {
	duration := time.Since(o.start)
	errorType := errorTypeOf(cause)

	msg := logMsgReadDegraded
	if truncated {
		msg = logMsgReadTruncated
	}

	o.q.logError(o.ctx, msg, cause,
		logAttrErrorType, errorType,
		logAttrMessageID, o.q.messageID,
		logAttrTruncated, truncated,
		logAttrDurationMS, toMilliseconds(duration),
	)

	o.q.recordDuration(o.ctx, metricReadDuration, duration, o.labels(statusDegraded))
	o.q.incrementCounter(o.ctx, metricDegradedReads, o.errorLabels(statusDegraded, errorType))
	o.q.incrementCounter(o.ctx, metricDatabaseErrors, o.errorLabels(statusError, errorType))

	o.finishSpan(statusError, map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrTruncated:  fmt.Sprintf("%t", truncated),
		spanAttrDurationMS: formatMilliseconds(duration),
	})
}

// recordFailedLookupStep records a lookup step that failed in storage before a later step matched.
// The operation itself still finishes as a success.
func (o *operationObserver) recordFailedLookupStep(err error) {
	errorType := errorTypeOf(err)

	o.q.logError(o.ctx, logMsgLookupStepFail, err,
		logAttrErrorType, errorType,
		logAttrMessageID, o.q.messageID,
	)

	o.q.incrementCounter(o.ctx, metricDatabaseErrors, o.errorLabels(statusError, errorType))
}

// finishFailedDelete records a delete that failed; the error itself is returned to the caller.
func (o *operationObserver) finishFailedDelete(err error) {
	duration := time.Since(o.start)
	errorType := errorTypeOf(err)

	o.q.logError(o.ctx, logMsgDeleteFailed, err,
		logAttrErrorType, errorType,
		logAttrMessageID, o.q.messageID,
		logAttrDurationMS, toMilliseconds(duration),
	)

	o.q.recordDuration(o.ctx, metricDeleteDuration, duration, o.labels(statusError))
	o.q.incrementCounter(o.ctx, metricDatabaseErrors, o.errorLabels(statusError, errorType))

	o.finishSpan(statusError, map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrDurationMS: formatMilliseconds(duration),
	})
}

func (o *operationObserver) finishSpan(status string, attrs map[string]string) {
	if o.q.tracingCollector == nil || o.span == nil {
		return
	}

	o.span.SetStatus(status)
	for key, value := range attrs {
		o.span.AddAttribute(key, value)
	}

	o.q.tracingCollector.FinishSpan(o.span, status, attrs)
}
