// Package schema_tools provides MCP tools for SELISE Blocks GraphQL schemas.
//
// # Available Tools
//
//   - list_schemas: List the schemas of a project
//   - get_schema: Fetch one schema with its fields
//   - create_schema: Create a schema (write mode only)
//   - update_schema_fields: Replace a schema's field list (write mode only)
//   - finalize_schema: Re-fetch a schema after updates (write mode only)
//   - configure_data_gateway: Enable the GraphQL data gateway (write mode only)
//
// Tenant-scoped tools accept an optional project_key argument and fall back
// to the session's active project.
package schema_tools
