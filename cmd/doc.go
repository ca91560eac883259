// Package cmd implements the command-line interface for blocks-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing the SELISE Blocks platform to AI assistants
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
