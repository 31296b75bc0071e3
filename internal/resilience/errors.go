package resilience

import (
	"errors"
	"net"
	"syscall"

	"google.golang.org/api/googleapi"
)

// IsTransient reports whether err is worth retrying: Google API quota and
// server errors, network timeouts and dropped connections.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return IsTransientHTTPStatus(apiErr.Code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED)
}

// IsTransientHTTPStatus returns true for status codes the Sheets API uses for
// quota exhaustion and temporary outages.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
