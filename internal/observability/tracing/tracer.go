// Package tracing exposes the OpenTelemetry tracer used across the notifier.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the media-notify application.
var tracer = otel.Tracer("media-notify")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "notify.route")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
