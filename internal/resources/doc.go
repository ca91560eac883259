// Package resources provides MCP resources exposing the session state.
// Resources are read-only data sources MCP clients can fetch without a tool
// call: the authentication status and the active project context.
package resources
