// Package iam_tools provides MCP tools for SELISE Blocks roles and
// permissions.
//
// # Available Tools
//
//   - list_roles: List the roles of a project
//   - list_permissions: List permissions, optionally scoped to roles
//   - get_resource_groups: List resource groups in use
//   - get_role_permissions: List the permissions assigned to one role
//   - create_role: Create a role (write mode only)
//   - create_permission: Create a permission (write mode only)
//   - update_permission: Update a permission (write mode only)
//   - set_role_permissions: Apply a permission diff to a role (write mode only)
//
// Mutating tools re-fetch the affected listing after success so callers see
// the resulting state in one round trip.
package iam_tools
