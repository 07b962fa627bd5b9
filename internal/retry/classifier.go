package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// AnyError treats every error as transient. This is the default
// classification when a caller has not narrowed the retryable set.
type AnyError struct{}

// NewAnyError creates a classifier that retries all errors.
func NewAnyError() *AnyError {
	return &AnyError{}
}

// IsTransient reports true for every non-nil error.
func (c *AnyError) IsTransient(err error) bool {
	return err != nil
}

// ClassifierFunc adapts a plain predicate to the ErrorClassifier interface.
type ClassifierFunc func(err error) bool

// IsTransient calls the wrapped predicate.
func (f ClassifierFunc) IsTransient(err error) bool {
	return f(err)
}

// TransportErrorClassifier classifies network/transport-level failures as
// transient: timeouts, refused or reset connections, DNS and dial errors.
// Application-level failures are fatal.
type TransportErrorClassifier struct{}

// NewTransportErrorClassifier creates a new transport error classifier.
func NewTransportErrorClassifier() *TransportErrorClassifier {
	return &TransportErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *TransportErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	// Cancellation is a caller decision, never retried.
	if errors.Is(err, context.Canceled) {
		return false
	}

	// Overall deadline expiry on the call is a timeout, which is transient
	// from the transport's point of view.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if c.isNetworkError(err) {
		return true
	}

	return c.matchesTransientPattern(err)
}

// isNetworkError checks for typed network-level errors.
func (c *TransportErrorClassifier) isNetworkError(err error) bool {
	// DNS errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	// Any net.Error timeout (covers http.Client timeouts)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Network operation errors
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Temporary() || opErr.Timeout() {
			return true
		}

		if opErr.Err != nil {
			// Connection refused (server not ready)
			if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
				return true
			}

			// Connection reset by peer
			if errors.Is(opErr.Err, syscall.ECONNRESET) {
				return true
			}

			// Network unreachable
			if errors.Is(opErr.Err, syscall.ENETUNREACH) {
				return true
			}

			// Host unreachable
			if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
				return true
			}
		}
	}

	return false
}

// matchesTransientPattern checks untyped errors against common transient
// connection failure messages. SMTP and HTTP client errors frequently
// surface as wrapped strings rather than typed net errors.
func (c *TransportErrorClassifier) matchesTransientPattern(err error) bool {
	errMsg := strings.ToLower(err.Error())

	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"connection timeout",
		"connection failure",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"broken pipe",
		"server closed the connection",
		"unexpected eof",
		"tls handshake timeout",
		"request timed out",
		"temporary failure",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}
