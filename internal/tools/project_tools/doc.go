// Package project_tools provides MCP tools for SELISE Blocks project
// management.
//
// # Available Tools
//
//   - get_projects: List projects grouped by tenant group
//   - create_project: Create a project and resolve its tenant/domain (write mode only)
//
// Both tools update the session's tenant context so that subsequent
// tenant-scoped tools can omit project_key.
package project_tools
