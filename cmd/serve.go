package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/seliseblocks/blocks-mcp/internal/blocks"
	"github.com/seliseblocks/blocks-mcp/internal/docs"
	"github.com/seliseblocks/blocks-mcp/internal/instrumentation"
	"github.com/seliseblocks/blocks-mcp/internal/logging"
	"github.com/seliseblocks/blocks-mcp/internal/resources"
	"github.com/seliseblocks/blocks-mcp/internal/server"
	"github.com/seliseblocks/blocks-mcp/internal/tools/auth_tools"
	"github.com/seliseblocks/blocks-mcp/internal/tools/docs_tools"
	"github.com/seliseblocks/blocks-mcp/internal/tools/iam_tools"
	"github.com/seliseblocks/blocks-mcp/internal/tools/project_tools"
	"github.com/seliseblocks/blocks-mcp/internal/tools/repo_tools"
	"github.com/seliseblocks/blocks-mcp/internal/tools/schema_tools"
	"github.com/seliseblocks/blocks-mcp/internal/tools/security_tools"
)

// ServeConfig holds the resolved serve settings after flags and environment
// variables have been merged.
type ServeConfig struct {
	Transport   string
	HTTPAddr    string
	APIBaseURL  string
	BlocksKey   string
	DocsBaseURL string
	ReadOnly    bool

	Metrics MetricsConfig
}

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode   bool
		transport   string
		httpAddr    string
		yolo        bool
		apiBaseURL  string
		blocksKey   string
		docsBaseURL string
		// Metrics server configuration
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing the SELISE Blocks
cloud platform to AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only safe operations.
  Use --yolo to enable write operations (project creation, schema changes, IAM
  mutations, build triggers).

Configuration:
  --api-base-url or BLOCKS_MCP_API_BASE_URL: Blocks API endpoint
  --blocks-key or BLOCKS_MCP_BLOCKS_KEY: application key sent with every request
  --docs-base-url or BLOCKS_MCP_DOCS_BASE_URL: documentation repository
  Authentication happens at runtime through the login tool; no credentials are
  read from the environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := ServeConfig{
				Transport:   transport,
				HTTPAddr:    httpAddr,
				APIBaseURL:  apiBaseURL,
				BlocksKey:   blocksKey,
				DocsBaseURL: docsBaseURL,
				ReadOnly:    !yolo,
				Metrics: MetricsConfig{
					Enabled: metricsEnabled,
					Addr:    metricsAddr,
				},
			}
			loadServeEnvVars(cmd, &config)
			return runServe(config, debugMode)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http. Can also use BLOCKS_MCP_TRANSPORT env var.")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport). Can also use BLOCKS_MCP_HTTP_ADDR env var.")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (project creation, schema changes, IAM mutations, build triggers). Default is read-only mode.")
	cmd.Flags().StringVar(&apiBaseURL, "api-base-url", "", "SELISE Blocks API base URL. Defaults to the public endpoint. Can also use BLOCKS_MCP_API_BASE_URL env var.")
	cmd.Flags().StringVar(&blocksKey, "blocks-key", "", "x-blocks-key application key. Defaults to the console key. Can also use BLOCKS_MCP_BLOCKS_KEY env var.")
	cmd.Flags().StringVar(&docsBaseURL, "docs-base-url", "", "Documentation repository base URL. Defaults to the public docs repo. Can also use BLOCKS_MCP_DOCS_BASE_URL env var.")

	// Metrics server flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// loadServeEnvVars applies environment variables for flags the user did not
// set explicitly.
func loadServeEnvVars(cmd *cobra.Command, config *ServeConfig) {
	if !cmd.Flags().Changed("transport") {
		if transport := os.Getenv("BLOCKS_MCP_TRANSPORT"); transport != "" {
			config.Transport = transport
		}
	}
	if !cmd.Flags().Changed("http-addr") {
		if addr := os.Getenv("BLOCKS_MCP_HTTP_ADDR"); addr != "" {
			config.HTTPAddr = addr
		}
	}
	if config.APIBaseURL == "" {
		config.APIBaseURL = os.Getenv("BLOCKS_MCP_API_BASE_URL")
	}
	if config.BlocksKey == "" {
		config.BlocksKey = os.Getenv("BLOCKS_MCP_BLOCKS_KEY")
	}
	if config.DocsBaseURL == "" {
		config.DocsBaseURL = os.Getenv("BLOCKS_MCP_DOCS_BASE_URL")
	}
	if !cmd.Flags().Changed("metrics-enabled") {
		if os.Getenv("METRICS_ENABLED") == "false" {
			config.Metrics.Enabled = false
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			config.Metrics.Addr = addr
		}
	}
}

func runServe(config ServeConfig, debugMode bool) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if debugMode {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if config.Transport != "stdio" {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if config.Transport != "stdio" && config.Metrics.Enabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    config.Metrics.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		// Wait for metrics server to be ready or fail
		select {
		case <-metricsReady:
			log.Printf("Metrics server started on %s", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	// Create the API and documentation clients
	blocksClient := blocks.New(blocks.Config{
		BaseURL:   config.APIBaseURL,
		BlocksKey: config.BlocksKey,
	})
	docsClient := docs.NewClient(config.DocsBaseURL)

	// Create server context
	serverContext, err := server.NewServerContext(shutdownCtx, blocksClient, docsClient)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if config.Transport != "stdio" {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("blocks-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	// Log the mode for visibility (only for non-stdio transports)
	if config.Transport != "stdio" {
		if config.ReadOnly {
			log.Println("Starting server in READ-ONLY mode (use --yolo to enable write operations)")
		} else {
			log.Println("Starting server with WRITE operations enabled (--yolo flag is set)")
		}
	}

	// Register all tools and resources
	if err := registerAllTools(mcpSrv, serverContext, config.ReadOnly); err != nil {
		return err
	}

	slog.Debug("starting mcp server", logging.Transport(config.Transport))

	// Start the appropriate server based on transport type
	switch config.Transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		fmt.Printf("Starting blocks-mcp server with %s transport...\n", config.Transport)
		return runStreamableHTTPServer(mcpSrv, serverContext, config, shutdownCtx)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", config.Transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	// Define all tool registrations
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Auth",
			register: func() error {
				return auth_tools.RegisterAuthTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Projects",
			register: func() error {
				return project_tools.RegisterProjectTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Schemas",
			register: func() error {
				return schema_tools.RegisterSchemaTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "IAM",
			register: func() error {
				return iam_tools.RegisterIAMTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Security",
			register: func() error {
				return security_tools.RegisterSecurityTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Repository",
			register: func() error {
				return repo_tools.RegisterRepoTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Docs",
			register: func() error {
				return docs_tools.RegisterDocsTools(mcpSrv, ctx)
			},
		},
		{
			name: "Session Resources",
			register: func() error {
				return resources.RegisterSessionResources(mcpSrv, ctx)
			},
		},
	}

	// Register all tools
	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStreamableHTTPServer(mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, config ServeConfig, ctx context.Context) error {
	streamableServer := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath("/mcp"),
	)

	// Track MCP session IDs so HTTP request logs can carry a stable identity
	// without the bearer token itself.
	sessionManager := server.NewSessionIDManager()
	defer sessionManager.Stop()

	mux := http.NewServeMux()
	mux.Handle("/mcp", logSessionMiddleware(sessionManager, streamableServer))

	// Health check endpoints
	healthChecker := server.NewHealthChecker(serverContext)
	healthChecker.RegisterHealthEndpoints(mux)
	healthChecker.SetReady(true)

	httpServer := &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("Streamable HTTP server starting on %s\n", config.HTTPAddr)
	fmt.Printf("  MCP endpoint: /mcp\n")
	fmt.Printf("  Health endpoints: /healthz, /readyz\n")
	if config.Metrics.Enabled {
		fmt.Printf("  Metrics endpoint: %s/metrics\n", config.Metrics.Addr)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		fmt.Println("HTTP server stopped normally")
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}

// logSessionMiddleware logs each MCP request with its derived session ID.
func logSessionMiddleware(manager *server.SessionIDManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionID, err := manager.ResolveSessionID(r); err == nil {
			attrs := []any{slog.String("session_id", sessionID), slog.String("method", r.Method)}
			if projectKey := manager.GetProjectForSession(sessionID); projectKey != "" {
				attrs = append(attrs, logging.ProjectKey(projectKey))
			}
			slog.Debug("mcp request", attrs...)
		}
		next.ServeHTTP(w, r)
	})
}
