// Package infrastructure wires the process-wide concerns: the global slog
// logger (JSON or text, console and/or file), trace-ID propagation through
// context, and OpenTelemetry metric/trace providers with a Prometheus
// export handler.
package infrastructure
