package bizreport

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := runner.Run(ctx, config)
//	if errors.Is(err, bizreport.ErrMissingCredentials) {
//	    // Handle unconfigured SMTP credentials
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingCredentials indicates required SMTP credentials are not set.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrInvalidData indicates the data file is missing, empty, or malformed.
	ErrInvalidData = errors.New("invalid data")

	// ErrInvalidRecipient indicates a recipient address failed validation.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrSendFailed indicates email delivery failed after retries.
	ErrSendFailed = errors.New("send failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrMissingCredentials):
		return ExitConfigError
	case errors.Is(err, ErrInvalidData):
		return ExitDataError
	case errors.Is(err, ErrInvalidRecipient):
		return ExitConfigError
	case errors.Is(err, ErrSendFailed):
		return ExitSendFailed
	}

	// Check for common delivery error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "failed to send") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitSendFailed
	}

	return ExitGeneralError
}
