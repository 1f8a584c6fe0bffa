// Package server provides the MCP server context and HTTP serving
// infrastructure for the trellist application.
//
// # Key Components
//
// ServerContext manages the shared Trello API client with lazy
// initialization. Credentials are resolved from the environment on every
// request, so the client can be created before TRELLO_API_KEY and
// TRELLO_API_TOKEN are known; resolution failures surface as tool errors
// at call time.
//
// HTTPServer serves the MCP protocol over the streamable HTTP transport,
// mounting the protocol endpoint at /mcp alongside Kubernetes health
// probes.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolating
// operational metrics from application traffic.
package server
