// Package server provides the MCP server context, session management,
// and supporting HTTP servers for the blocks-mcp application.
//
// # Key Components
//
// ServerContext carries the shared dependencies for tool handlers: the
// authenticated session state, the Blocks API client, the documentation
// client, and optional instrumentation (metrics recorder and audit logger).
// Tool registration functions receive a ServerContext and read everything
// they need from it.
//
// SessionIDManager handles session tracking for HTTP transport. It maps
// Bearer tokens to tenant/project keys, enabling multiple clients to share
// a single MCP server instance.
//
// HealthChecker exposes /healthz and /readyz endpoints for Kubernetes
// probes, and MetricsServer serves Prometheus metrics on a dedicated port
// so operational data stays off the main application listener.
package server
