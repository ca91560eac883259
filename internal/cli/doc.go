// Package cli builds shell command strings for the Blocks CLI and git
// workflows. Nothing here executes anything: the commands are returned to the
// caller to run in their own environment.
package cli
