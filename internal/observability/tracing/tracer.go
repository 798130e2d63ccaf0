// Package tracing provides OpenTelemetry tracing for the photo gateway.
// It exposes a shared tracer for creating spans and HTTP middleware that
// propagates trace context on incoming requests.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the photo gateway.
var tracer = otel.Tracer("family-photo-gateway")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "cache.fetch_page")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
