package resilience

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// StatusCoder is implemented by vendor errors that carry an HTTP status.
type StatusCoder interface {
	HTTPStatusCode() int
}

// ClassifyVendorError is the shared classifier for HTTP vendor calls: transient
// statuses and network errors retry, client errors fail fast without tripping
// the breaker.
func ClassifyVendorError(err error) ErrorClassification {
	if err == nil {
		return ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassification{}
	}
	if IsCircuitOpen(err) {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	}

	var statusErr StatusCoder
	if errors.As(err, &statusErr) {
		if RetryableHTTPStatus(statusErr.HTTPStatusCode()) {
			return ErrorClassification{Retryable: true, RecordFailure: true}
		}
		return ErrorClassification{}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	}

	return ErrorClassification{Retryable: false, RecordFailure: true}
}

func RetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
