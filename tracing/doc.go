// Package tracing wires OpenTelemetry into the simulator. A run produces one
// root span and one child span per simulated process; lifecycle transitions
// are recorded as span events. Applications that do not install a provider
// get the otel no-op tracer.
package tracing
