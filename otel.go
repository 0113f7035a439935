package basex

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName    = "github.com/basexdb/basex-go"
	instrumentationVersion = "1.0.0"
)

// Tracing uses the global tracer provider and is off unless one is
// registered; the noop tracer keeps the overhead negligible otherwise.
func otelTracer() trace.Tracer {
	return otel.Tracer(instrumentationName, trace.WithInstrumentationVersion(instrumentationVersion))
}

func startSpan(ctx context.Context, opt *Options, operation, statement string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", "basex"),
		attribute.String("db.operation", operation),
	}
	if opt.Addr != "" {
		attrs = append(attrs, attribute.String("db.server.address", opt.Addr))
	}
	if statement != "" {
		attrs = append(attrs, attribute.String("db.statement", statement))
	}
	return otelTracer().Start(ctx, "basex."+operation, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
