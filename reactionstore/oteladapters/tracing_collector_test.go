package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/message-reactions-go/reactionstore/oteladapters"
	"github.com/AntonStoeckl/message-reactions-go/testutil/observability/config"
	"github.com/AntonStoeckl/message-reactions-go/testutil/observability/testdoubles"
)

func givenTracingCollector(t *testing.T) (*oteladapters.TracingCollector, *config.InMemoryProviders) {
	providers := config.NewInMemoryObservabilityConfig()
	t.Cleanup(func() { _ = providers.Shutdown() })

	return oteladapters.NewTracingCollector(providers.TracerProvider.Tracer("test")), providers
}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, expectedValue string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			assert.Equal(t, expectedValue, attr.Value.AsString(), "attribute %s", key)
			return
		}
	}

	t.Errorf("span %s has no attribute %s", span.Name, key)
}

func Test_TracingCollector_StartSpan_And_FinishSpan(t *testing.T) {
	collector, providers := givenTracingCollector(t)

	ctx, spanCtx := collector.StartSpan(context.Background(), "reactionstore.all_reactions", map[string]string{
		"operation":  "all_reactions",
		"message_id": "message-1",
	})

	require.NotNil(t, spanCtx)
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid(), "returned context must carry the span")

	collector.FinishSpan(spanCtx, "success", map[string]string{"reaction_count": "3"})

	spans := providers.Spans()
	require.Len(t, spans, 1)
	span := spans[0]

	assert.Equal(t, "reactionstore.all_reactions", span.Name)
	assert.Equal(t, trace.SpanKindClient, span.SpanKind)
	assertSpanHasAttribute(t, span, "operation", "all_reactions")
	assertSpanHasAttribute(t, span, "message_id", "message-1")
	assertSpanHasAttribute(t, span, "reaction_count", "3")
	assert.Equal(t, codes.Ok, span.Status.Code)
}

func Test_TracingCollector_FinishSpan_MapsStatuses(t *testing.T) {
	testCases := []struct {
		status      string
		code        codes.Code
		description string
	}{
		{status: "success", code: codes.Ok},
		{status: "error", code: codes.Error, description: "Operation failed"},
		{status: "degraded", code: codes.Error, description: "Read degraded to fallback result"},
		{status: "canceled", code: codes.Error, description: "Operation cancelled"},
		{status: "timeout", code: codes.Error, description: "Operation timed out"},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			collector, providers := givenTracingCollector(t)

			_, spanCtx := collector.StartSpan(context.Background(), "reactionstore.emoji_counts", nil)
			collector.FinishSpan(spanCtx, tc.status, nil)

			spans := providers.Spans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.code, spans[0].Status.Code)
			assert.Equal(t, tc.description, spans[0].Status.Description)
		})
	}
}

func Test_TracingCollector_FinishSpan_When_StatusIsUnknown_RecordsItAsAttribute(t *testing.T) {
	collector, providers := givenTracingCollector(t)

	_, spanCtx := collector.StartSpan(context.Background(), "reactionstore.reaction_by", nil)
	collector.FinishSpan(spanCtx, "partial", nil)

	spans := providers.Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assertSpanHasAttribute(t, spans[0], "status", "partial")
}

func Test_OTelSpanContext_AddAttribute_And_SetStatus(t *testing.T) {
	collector, providers := givenTracingCollector(t)

	_, spanCtx := collector.StartSpan(context.Background(), "reactionstore.delete_all_reactions", nil)
	spanCtx.AddAttribute("rows_affected", "4")
	spanCtx.SetStatus("error")
	collector.FinishSpan(spanCtx, "error", nil)

	spans := providers.Spans()
	require.Len(t, spans, 1)
	assertSpanHasAttribute(t, spans[0], "rows_affected", "4")
	assert.Equal(t, codes.Error, spans[0].Status.Code)

	otelSpanCtx, ok := spanCtx.(*oteladapters.OTelSpanContext)
	require.True(t, ok)
	assert.Equal(t, spans[0].SpanContext.SpanID(), otelSpanCtx.Span().SpanContext().SpanID())
}

func Test_TracingCollector_FinishSpan_When_SpanContextIsForeign_IgnoresIt(t *testing.T) {
	collector, providers := givenTracingCollector(t)

	assert.NotPanics(t, func() {
		collector.FinishSpan(&testdoubles.SpySpanContext{}, "success", nil)
		collector.FinishSpan(nil, "success", nil)
	})
	assert.Empty(t, providers.Spans())
}

func Test_TracingCollector_NestsSpansUnderTheCallerSpan(t *testing.T) {
	collector, providers := givenTracingCollector(t)
	parentCtx, parent := providers.TracerProvider.Tracer("caller").Start(context.Background(), "handle_request")

	_, spanCtx := collector.StartSpan(parentCtx, "reactionstore.any_reaction_exists", nil)
	collector.FinishSpan(spanCtx, "success", nil)
	parent.End()

	spans := providers.Spans()
	require.Len(t, spans, 2)
	child := spans[0]
	assert.Equal(t, "reactionstore.any_reaction_exists", child.Name)
	assert.Equal(t, parent.SpanContext().SpanID(), child.Parent.SpanID())
	assert.Equal(t, parent.SpanContext().TraceID(), child.SpanContext.TraceID())
}
