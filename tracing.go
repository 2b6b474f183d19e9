package sazito

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Sazito/client-sdk"

func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

func (c *Client) startSpan(ctx context.Context, method, path string, family Family) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "sazito "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("sazito.path", path),
			attribute.String("sazito.family", string(family)),
			attribute.String("sazito.domain", c.config.Domain),
		),
	)
}

func endSpan(span trace.Span, resp *Response, attempts int) {
	span.SetAttributes(
		attribute.Int("http.response.status_code", resp.Status),
		attribute.Int("sazito.attempts", attempts),
		attribute.Bool("sazito.cached", resp.Cached),
	)
	if resp.Err != nil {
		span.SetAttributes(attribute.String("sazito.error.kind", string(resp.Err.Kind)))
		span.SetStatus(codes.Error, resp.Err.Message)
	}
	span.End()
}
