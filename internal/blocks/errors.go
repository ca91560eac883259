package blocks

import "fmt"

// APIError is returned when the Blocks API answers with a non-2xx status.
// The body is kept verbatim so tool handlers can surface the vendor's error
// details to the caller.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: blocks api returned %d", e.Op, e.StatusCode)
}
