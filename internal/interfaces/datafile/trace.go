package datafile

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var fileTracer = otel.Tracer("matchform/internal/interfaces/datafile")
var noopSpan = trace.SpanFromContext(context.Background())

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		// No parent span in context: avoid creating standalone root spans
		// for internal helpers.
		return ctx, noopSpan
	}
	if !shouldCreateDatafileSpan(name) {
		return ctx, noopSpan
	}
	return fileTracer.Start(ctx, name)
}

func shouldCreateDatafileSpan(name string) bool {
	return strings.HasPrefix(name, "datafile.")
}
