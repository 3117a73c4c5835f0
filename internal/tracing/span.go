package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/volley/internal/outcome"
)

// StartRequestSpan starts a client span for one request against a work item.
func StartRequestSpan(ctx context.Context, tracer trace.Tracer, method, route, itemID string) (context.Context, trace.Span) {
	spanName := method + " request"
	if route != "" {
		spanName = method + " " + route
	}
	ctx, span := tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(
		attribute.String("http.request.method", method),
	)
	if itemID != "" {
		span.SetAttributes(attribute.String("volley.item_id", itemID))
	}
	return ctx, span
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// EndRequestSpan finishes a request span with the classified outcome.
func EndRequestSpan(span trace.Span, o outcome.Outcome) {
	attrs := []attribute.KeyValue{
		attribute.String("volley.outcome", o.Kind.String()),
		attribute.Float64("volley.latency_seconds", o.Latency.Seconds()),
	}
	if o.Kind != outcome.TransportError {
		attrs = append(attrs, attribute.Int("http.response.status_code", o.StatusCode))
	} else if o.Reason != "" {
		attrs = append(attrs, attribute.String("error.type", o.Reason))
	}
	EndSpan(span, o.Err(), attrs...)
}

// InjectHTTPHeaders injects W3C trace context into HTTP headers.
func InjectHTTPHeaders(ctx context.Context, headers http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
}
