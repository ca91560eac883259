// Package auth_tools provides MCP tools for SELISE Blocks authentication
// and session state.
//
// # Available Tools
//
//   - login: Authenticate with username/password and store the access token
//   - logout: Clear the session state atomically
//   - get_auth_status: Report token validity and expiry
//   - get_global_state: Return the active project/tenant context
//   - set_application_domain: Override the stored application domain
//
// # Session
//
// All tools operate on the single process-wide session held by the
// ServerContext. Tenant-scoped tools in the other packages read the project
// key stored here when no explicit project_key argument is given.
package auth_tools
