package session

import "errors"

// Sentinel errors returned by State. Tool handlers convert these into
// structured error envelopes; the messages are written for the agent on the
// other end of the MCP connection.
var (
	// ErrNotAuthenticated indicates no successful login has occurred yet.
	ErrNotAuthenticated = errors.New("authentication required: please login first using the login tool")

	// ErrTokenExpired indicates the access token passed its expiry and could
	// not be refreshed. A new login is required.
	ErrTokenExpired = errors.New("access token expired: please login again using the login tool")

	// ErrTenantNotSet indicates a tenant-scoped call had no explicit project
	// key and no tenant is stored in the session.
	ErrTenantNotSet = errors.New("no project key provided and no tenant ID in session: run get_projects or provide project_key")
)
