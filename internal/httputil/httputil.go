package httputil

import (
	"net/http"
	"time"
)

const DefaultTimeout = 120 * time.Second

// DefaultClient is the shared http.Client handed to provider SDKs so
// that every outbound call carries the same timeout.
var DefaultClient = NewClient(DefaultTimeout)

// NewClient returns an http.Client with the given total-request timeout.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
