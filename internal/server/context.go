package server

import (
	"context"
	"sync"

	"github.com/trellist/trellist/internal/instrumentation"
	"github.com/trellist/trellist/internal/trello"
)

// ServerContext holds the shared state for the MCP server.
type ServerContext struct {
	ctx          context.Context
	cancel       context.CancelFunc
	creds        trello.CredentialProvider
	trelloClient *trello.Client
	metrics      *instrumentation.Metrics
	auditLogger  *instrumentation.AuditLogger
	mu           sync.RWMutex
	shutdown     bool
}

// NewServerContext creates a new server context using environment
// credentials. The Trello client is created lazily on first use; missing
// credentials do not prevent startup and are reported when a tool runs.
func NewServerContext(ctx context.Context) (*ServerContext, error) {
	return NewServerContextWithProvider(ctx, trello.EnvProvider{})
}

// NewServerContextWithProvider creates a new server context with a custom
// credential provider.
func NewServerContextWithProvider(ctx context.Context, creds trello.CredentialProvider) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		creds:  creds,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// TrelloClient returns the shared Trello API client, creating and caching
// it on first use. Credentials are re-resolved per request by the client,
// so rotation does not require a new client.
func (sc *ServerContext) TrelloClient() *trello.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.trelloClient == nil {
		sc.trelloClient = trello.NewClient(sc.creds)
	}
	return sc.trelloClient
}

// SetTrelloClient sets the Trello client, replacing any cached instance.
func (sc *ServerContext) SetTrelloClient(client *trello.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.trelloClient = client
}

// BasePath returns the directory file-attachment uploads are restricted
// to, resolved from BASE_PATH on every call.
func (sc *ServerContext) BasePath() (string, error) {
	return sc.creds.Resolve(trello.EnvBasePath)
}

// CredentialsConfigured reports whether both Trello credentials resolve.
func (sc *ServerContext) CredentialsConfigured() bool {
	if _, err := sc.creds.Resolve(trello.EnvAPIKey); err != nil {
		return false
	}
	if _, err := sc.creds.Resolve(trello.EnvAPIToken); err != nil {
		return false
	}
	return true
}

// SetMetrics sets the metrics recorder for tool instrumentation.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger for tool invocations.
func (sc *ServerContext) SetAuditLogger(logger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = logger
}

// AuditLogger returns the audit logger, or nil when audit logging is
// disabled.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
