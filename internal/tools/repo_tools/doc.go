// Package repo_tools provides MCP tools for repository scaffolding and cloud
// builds.
//
// # Available Tools
//
//   - check_blocks_cli: Command to check the Blocks CLI installation
//   - install_blocks_cli: Command to install the Blocks CLI
//   - create_local_repository: `blocks new` command wired to the active project
//   - init_git_repository: git init/remote/push command sequence
//   - list_github_repos: List GitHub repositories connected to a project
//   - run_build: Trigger a cloud build (write mode only)
//
// The scaffolding tools return shell commands for the caller to run; the
// server never executes them.
package repo_tools
