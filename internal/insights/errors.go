package insights

import (
	"fmt"
	"net/http"
)

// APIError is a response-level failure: the transport call succeeded but
// the service reported an error inside the response body.
type APIError struct {
	// Code is the service's numeric error code (HTTP-status shaped).
	Code int

	// Message is the service's error description.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (code %d): %s", e.Code, e.Message)
}

// Transient reports whether the error code designates a temporary
// server-side condition worth retrying.
func (e *APIError) Transient() bool {
	switch e.Code {
	case 502, 503, 504:
		return true
	}
	return false
}

// StatusError is a failing HTTP status with no error object in the body.
// These are transport-adjacent: the request never reached a handler that
// could shape a structured error.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.Code, http.StatusText(e.Code))
}

// Transient reports whether the status signals a server-side condition
// worth retrying. Client statuses (4xx) are terminal.
func (e *StatusError) Transient() bool {
	return e.Code >= 500
}

// ParseError is a structural mismatch in an otherwise successful response.
// Retrying cannot fix a malformed shape, so parse errors are always fatal.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
