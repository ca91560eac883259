// Package docs_tools provides MCP tools for retrieving SELISE Blocks
// documentation.
//
// # Available Tools
//
//   - list_sections: List documentation topics with priorities
//   - get_documentation: Fetch one or many topics by ID
//   - get_project_setup: Project setup docs plus the CLAUDE.md template
//   - get_implementation_checklist: Shortcut for the checklist topic
//   - get_dev_workflow: Shortcut for the workflow topic
//   - get_architecture_patterns: Shortcut for the patterns topic
//   - get_common_pitfalls: Shortcut for the pitfalls topic
//
// All tools are read-only and require no authentication; the documentation
// lives in a public repository.
package docs_tools
