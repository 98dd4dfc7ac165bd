// Package telemetry wires OpenTelemetry traces, logs and metrics for the
// ChefVision server.
//
// Export goes over OTLP/HTTP to OTEL_EXPORTER_OTLP_ENDPOINT. With no endpoint
// configured only the propagators are installed and the global providers stay
// no-op.
package telemetry
