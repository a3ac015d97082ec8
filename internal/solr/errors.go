package solr

import "fmt"

// UpdateError represents a non-200 response from a core's update
// endpoint.
type UpdateError struct {
	Core       string
	StatusCode int
	Body       string
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("solr core %s: update failed: HTTP %d: %s", e.Core, e.StatusCode, e.Body)
}
