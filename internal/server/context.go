package server

import (
	"context"
	"sync"

	"github.com/seliseblocks/blocks-mcp/internal/blocks"
	"github.com/seliseblocks/blocks-mcp/internal/docs"
	"github.com/seliseblocks/blocks-mcp/internal/instrumentation"
	"github.com/seliseblocks/blocks-mcp/internal/session"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	session     *session.State
	blocks      *blocks.Client
	docs        *docs.Client
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context wired to the given Blocks
// API client and documentation client. The session starts unauthenticated;
// the login tool populates it.
func NewServerContext(ctx context.Context, blocksClient *blocks.Client, docsClient *docs.Client) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	state := session.New()
	if blocksClient != nil {
		state.SetRefresher(blocksClient)
	}

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		session:  state,
		blocks:   blocksClient,
		docs:     docsClient,
		shutdown: false,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Session returns the shared session state
func (sc *ServerContext) Session() *session.State {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.session
}

// Blocks returns the Blocks API client
func (sc *ServerContext) Blocks() *blocks.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.blocks
}

// SetBlocks sets the Blocks API client and rewires the session refresher
func (sc *ServerContext) SetBlocks(client *blocks.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.blocks = client
	if client != nil {
		sc.session.SetRefresher(client)
	}
}

// Docs returns the documentation client
func (sc *ServerContext) Docs() *docs.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.docs
}

// SetDocs sets the documentation client
func (sc *ServerContext) SetDocs(client *docs.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.docs = client
}

// Metrics returns the metrics recorder, or nil if instrumentation is not configured
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// AuditLogger returns the audit logger, or nil if audit logging is not configured
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger
func (sc *ServerContext) SetAuditLogger(logger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = logger
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
