// Package instrumentation provides OpenTelemetry-based observability for
// the trellist MCP server.
//
// It wires up metrics (Prometheus, OTLP, or stdout exporters), optional
// distributed tracing (OTLP or stdout), and audit logging of tool
// invocations. The Provider owns the OTel meter and tracer providers;
// Metrics is the recorder handed to the server context so tool handlers
// and the Trello client can report what they did.
//
// Metric labels are cardinality-controlled: Trello resource paths embed
// opaque 24-character identifiers, so CollapsePath rewrites them to a
// placeholder before they are used as a label value.
package instrumentation
