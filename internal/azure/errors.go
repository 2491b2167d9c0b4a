package azure

import "fmt"

// maxErrorBody caps the upstream body kept for diagnostics.
const maxErrorBody = 1000

// UpstreamError reports a failed work item creation. StatusCode is 0 when no
// response was received (connection error, timeout).
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("azure devops request failed: %v", e.Err)
	}
	return fmt.Sprintf("azure devops error %d: %s", e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// trim returns at most n bytes from b.
func trim(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
