// Package session holds the process-wide authentication and tenant context
// for the SELISE Blocks API.
//
// A single State instance is shared by every tool handler. It stores the
// OAuth token from the password-grant login, the active tenant (project key),
// the application domain and the project name. Reads return immutable
// snapshots; writes are partial merges applied under one lock so that
// concurrent updates can never produce a torn token/expiry pair.
package session
