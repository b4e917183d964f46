package sgdata

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRequestFailed matches every *RequestError through errors.Is.
var ErrRequestFailed = errors.New("request failed")

// FailureKind tells which stage of a request failed.
type FailureKind string

const (
	// FailureTransport covers connection errors, timeouts, DNS failures and
	// cancelled contexts.
	FailureTransport FailureKind = "transport"

	// FailureStatus is a response with a non-2xx status.
	FailureStatus FailureKind = "status"

	// FailureDecode is a response body that is not valid JSON.
	FailureDecode FailureKind = "decode"
)

// RequestError is the single error type for failed portal requests.
type RequestError struct {
	Kind       FailureKind `json:"kind"                  yaml:"kind"`
	Method     string      `json:"method"                yaml:"method"`
	URL        string      `json:"url"                   yaml:"url"`
	StatusCode int         `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Message    string      `json:"message,omitempty"     yaml:"message,omitempty"`
	Err        error       `json:"-"                     yaml:"-"`
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	switch e.Kind {
	case FailureStatus:
		if e.Message != "" {
			return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
		}

		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	case FailureDecode:
		return fmt.Sprintf("%s %s: decoding response: %v", e.Method, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrRequestFailed.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsTransportFailure checks if the request never produced a response.
func IsTransportFailure(err error) bool {
	return kindOf(err) == FailureTransport
}

// IsDecodeFailure checks if the response body could not be decoded.
func IsDecodeFailure(err error) bool {
	return kindOf(err) == FailureDecode
}

// StatusCode returns the HTTP status of a failed response, or zero.
func StatusCode(err error) int {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}

	return 0
}

func kindOf(err error) FailureKind {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}

	return ""
}
