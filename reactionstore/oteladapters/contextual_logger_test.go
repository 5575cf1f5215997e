package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
	"go.opentelemetry.io/otel/log/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore/oteladapters"
)

// recordingLogger is a log.Logger that keeps every emitted record with the context's span.
type recordingLogger struct {
	embedded.Logger

	mu      sync.Mutex
	records []emittedRecord
}

type emittedRecord struct {
	record      log.Record
	spanContext trace.SpanContext
}

func (l *recordingLogger) Emit(ctx context.Context, record log.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, emittedRecord{record: record, spanContext: trace.SpanContextFromContext(ctx)})
}

func (l *recordingLogger) Enabled(context.Context, log.EnabledParameters) bool {
	return true
}

func (l *recordingLogger) emitted() []emittedRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]emittedRecord(nil), l.records...)
}

func attributesOf(record log.Record) map[string]log.Value {
	attrs := make(map[string]log.Value)
	record.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value
		return true
	})

	return attrs
}

func Test_NewSlogBridgeLogger_Construction(t *testing.T) {
	assert.NotNil(t, oteladapters.NewSlogBridgeLogger("test"))
	assert.NotNil(t, oteladapters.NewSlogBridgeLoggerWithProvider("test", noop.NewLoggerProvider()))
}

func Test_SlogBridgeLogger_AllLevels(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	output := buf.String()
	assert.Contains(t, output, `"level":"DEBUG","msg":"debug message"`)
	assert.Contains(t, output, `"level":"INFO","msg":"info message"`)
	assert.Contains(t, output, `"level":"WARN","msg":"warn message"`)
	assert.Contains(t, output, `"level":"ERROR","msg":"error message"`)
}

func Test_SlogBridgeLogger_WithAttributes(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)

	logger.InfoContext(context.Background(), "reactionstore operation: all_reactions completed",
		"message_id", "message-1",
		"reaction_count", int64(3),
		"duration_ms", 1.25,
		"truncated", false,
	)

	output := buf.String()
	assert.Contains(t, output, `"message_id":"message-1"`)
	assert.Contains(t, output, `"reaction_count":3`)
	assert.Contains(t, output, `"duration_ms":1.25`)
	assert.Contains(t, output, `"truncated":false`)
}

func Test_OTelLogger_AllLevels_SetSeverity(t *testing.T) {
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)
	ctx := context.Background()

	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	records := recorder.emitted()
	require.Len(t, records, 4)

	expected := []struct {
		severity log.Severity
		text     string
		body     string
	}{
		{severity: log.SeverityDebug, text: "DEBUG", body: "debug message"},
		{severity: log.SeverityInfo, text: "INFO", body: "info message"},
		{severity: log.SeverityWarn, text: "WARN", body: "warn message"},
		{severity: log.SeverityError, text: "ERROR", body: "error message"},
	}

	for i, want := range expected {
		assert.Equal(t, want.severity, records[i].record.Severity())
		assert.Equal(t, want.text, records[i].record.SeverityText())
		assert.Equal(t, want.body, records[i].record.Body().AsString())
		assert.False(t, records[i].record.Timestamp().IsZero())
	}
}

func Test_OTelLogger_KeepsAttributeTypes(t *testing.T) {
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)

	logger.ErrorContext(context.Background(), "reaction read truncated after storage failure",
		"error", "storage is down",
		"reaction_count", int64(2),
		"attempt", 1,
		"duration_ms", 0.5,
		"truncated", true,
		"cause", assert.AnError,
	)

	records := recorder.emitted()
	require.Len(t, records, 1)
	attrs := attributesOf(records[0].record)

	assert.Equal(t, "storage is down", attrs["error"].AsString())
	assert.Equal(t, int64(2), attrs["reaction_count"].AsInt64())
	assert.Equal(t, int64(1), attrs["attempt"].AsInt64())
	assert.InDelta(t, 0.5, attrs["duration_ms"].AsFloat64(), 0.0001)
	assert.True(t, attrs["truncated"].AsBool())
	assert.Equal(t, assert.AnError.Error(), attrs["cause"].AsString())
}

func Test_OTelLogger_When_ArgsAreMalformed_SkipsThem(t *testing.T) {
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "message", "key1", "value1", 42, "not a key", "dangling")
	})

	records := recorder.emitted()
	require.Len(t, records, 1)
	attrs := attributesOf(records[0].record)
	assert.Len(t, attrs, 1)
	assert.Equal(t, "value1", attrs["key1"].AsString())
}

func Test_OTelLogger_WithNoopLogger_DoesNotPanic(t *testing.T) {
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("test"))

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "message", "key", "value")
	})
}
