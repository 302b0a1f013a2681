package domain

import "fmt"

// APIError is the single error shape produced by the request dispatcher.
// StatusCode is zero when no HTTP status applies: transport faults, decode
// failures, and locally rejected requests all arrive without one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// NewStatusError builds the error for a non-200 response.
func NewStatusError(status int) *APIError {
	return &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("API request failed with status %d", status),
	}
}
