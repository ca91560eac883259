// Package common holds the pieces every blocks-mcp tool package shares:
// argument extraction from raw MCP requests, the {status, message} JSON
// envelope that all tool responses use, and the instrumented handler
// wrappers that record metrics, spans and audit entries per invocation.
package common
