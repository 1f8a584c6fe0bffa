package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// HTTPServerConfig holds configuration for the MCP HTTP server.
type HTTPServerConfig struct {
	// Addr is the address to bind to (e.g., ":8080").
	Addr string

	// DisableStreaming disables streaming responses for compatibility with
	// certain clients.
	DisableStreaming bool
}

// HTTPServer serves the MCP protocol over the streamable HTTP transport.
// The protocol endpoint is mounted at /mcp; Kubernetes health probes are
// served from the same listener.
type HTTPServer struct {
	mcpServer        *mcpserver.MCPServer
	healthChecker    *HealthChecker
	httpServer       *http.Server
	addr             string
	disableStreaming bool
}

// NewHTTPServer creates a new HTTP server for the given MCP server.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, fmt.Errorf("MCP server is required")
	}
	if config.Addr == "" {
		config.Addr = ":8080"
	}

	return &HTTPServer{
		mcpServer:        mcpServer,
		healthChecker:    NewHealthChecker(sc),
		addr:             config.Addr,
		disableStreaming: config.DisableStreaming,
	}, nil
}

// HealthChecker returns the health checker so callers can flip readiness
// during shutdown.
func (s *HTTPServer) HealthChecker() *HealthChecker {
	return s.healthChecker
}

// Start starts the HTTP server in a blocking manner.
func (s *HTTPServer) Start() error {
	mux := http.NewServeMux()

	opts := []mcpserver.StreamableHTTPOption{
		mcpserver.WithEndpointPath("/mcp"),
	}
	if s.disableStreaming {
		opts = append(opts, mcpserver.WithDisableStreaming(true))
	}
	streamableServer := mcpserver.NewStreamableHTTPServer(s.mcpServer, opts...)

	mux.Handle("/mcp", streamableServer)
	s.healthChecker.RegisterHealthEndpoints(mux)

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("starting MCP HTTP server", "addr", s.addr, "endpoint", "/mcp")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server, marking it not ready first so
// load balancers drain traffic.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.healthChecker.SetReady(false)

	if s.httpServer != nil {
		slog.Info("shutting down MCP HTTP server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured address for the HTTP server.
func (s *HTTPServer) Addr() string {
	return s.addr
}
