// Package observability groups the cross-cutting observability concerns of
// the photo gateway: structured logging, Prometheus metrics, and
// OpenTelemetry tracing. Each concern lives in its own subpackage.
package observability
