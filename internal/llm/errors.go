package llm

import "fmt"

// NetworkError indicates the completion service could not be reached or
// answered with a non-2xx status.
type NetworkError struct {
	// StatusCode is the HTTP status when the service answered; 0 for
	// transport failures.
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion service returned HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("completion service unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UpstreamError indicates the service answered but produced no completion.
type UpstreamError struct {
	Reason string
}

func (e *UpstreamError) Error() string {
	return "no completion from AI: " + e.Reason
}
