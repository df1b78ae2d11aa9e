package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/sony/gobreaker"
)

// ErrorClass tells the collector whether a failed call may be skipped
type ErrorClass int

const (
	ErrorNone    ErrorClass = iota
	ErrorWarning            // skip this call, continue the region pass
	ErrorFatal              // abort the run
)

// String returns the string representation of the error class
func (c ErrorClass) String() string {
	switch c {
	case ErrorNone:
		return "none"
	case ErrorWarning:
		return "warning"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// recoverableServiceCodes are OCI service error codes that only cost us one resource category
var recoverableServiceCodes = map[string]bool{
	"NotAuthorizedOrNotFound": true,
	"NotAuthorized":           true,
	"NotAuthenticated":        true,
	"NotFound":                true,
	"Forbidden":               true,
	"TooManyRequests":         true,
	"IncorrectState":          true,
	"Conflict":                true,
	"LimitExceeded":           true,
}

// classifyError decides how the collector treats a failed adapter call
func classifyError(err error) ErrorClass {
	if err == nil {
		return ErrorNone
	}

	if isCancelled(err) {
		return ErrorFatal
	}

	// the breaker only opens for services unavailable in the region
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrorWarning
	}

	var serviceErr common.ServiceError
	if errors.As(err, &serviceErr) {
		if recoverableServiceCodes[serviceErr.GetCode()] {
			return ErrorWarning
		}
		if serviceErr.GetHTTPStatusCode() == http.StatusTooManyRequests {
			return ErrorWarning
		}
		if isServiceUnavailable(err) {
			return ErrorWarning
		}
		return ErrorFatal
	}

	if isServiceUnavailable(err) || isRetriableError(err) {
		return ErrorWarning
	}
	return ErrorFatal
}

// isCancelled reports an interrupted or timed out run
func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// isRetriableError checks for permission and not-found failures that did not
// arrive as structured service errors
func isRetriableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "NotFound") ||
		strings.Contains(errStr, "NotAuthorized") ||
		strings.Contains(errStr, "Forbidden") ||
		strings.Contains(errStr, "does not exist") ||
		strings.Contains(strings.ToLower(errStr), "max retries exceeded")
}

// isServiceUnavailable reports whether a service endpoint does not exist in the
// current region yet. These failures trip the per-region service breaker.
func isServiceUnavailable(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "service not available") ||
		strings.Contains(errStr, "not available in this region")
}

// errorCode extracts the service error code for log messages
func errorCode(err error) string {
	var serviceErr common.ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.GetCode()
	}
	return ""
}
