// Package errors provides the error types shared by the faqchat client and server.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrEmptyQuery      = errors.New("query cannot be empty")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrNoProvider      = errors.New("no completion provider configured")
	ErrClientClosed    = errors.New("client is closed")
)

// Prefixes used when an outcome is rendered as a bot message.
const (
	ServerErrorPrefix    = "Error: "
	TransportErrorPrefix = "Network Error: "
)

// ServerReportedError is returned when the backend answered at the transport
// level but the body carried an "error" field.
type ServerReportedError struct {
	Message string
}

func (e *ServerReportedError) Error() string {
	return e.Message
}

// NewServerReportedError creates a new ServerReportedError
func NewServerReportedError(message string) *ServerReportedError {
	return &ServerReportedError{Message: message}
}

// TransportError represents a request that could not be completed or a
// response that could not be parsed.
type TransportError struct {
	Message  string
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "request failed"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a low-level failure. The description shown to the
// user is the cause's message.
func NewTransportError(endpoint string, err error) *TransportError {
	te := &TransportError{Endpoint: endpoint, Err: err}
	if err != nil {
		te.Message = err.Error()
	}
	return te
}

// NewTransportErrorf creates a TransportError with a formatted description.
func NewTransportErrorf(endpoint, format string, args ...any) *TransportError {
	return &TransportError{Endpoint: endpoint, Message: fmt.Sprintf(format, args...)}
}

// APIError represents a non-success HTTP exchange
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// IsServerReported reports whether err carries a server-reported error field.
func IsServerReported(err error) bool {
	var target *ServerReportedError
	return errors.As(err, &target)
}

// IsTransportError reports whether err is a transport or parse failure.
func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsTimeoutError reports whether err is, or wraps, a timeout.
func IsTimeoutError(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target)
}

// GetHTTPStatus returns the HTTP status carried by err, or 0.
func GetHTTPStatus(err error) int {
	var target *APIError
	if errors.As(err, &target) {
		return target.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint associated with err, if any.
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Endpoint
	}
	return ""
}

// BotText converts a failed query outcome into the text shown in place of
// the bot reply. Anything that is not a server-reported error is treated as
// a transport failure.
func BotText(err error) string {
	if err == nil {
		return ""
	}

	var serverErr *ServerReportedError
	if errors.As(err, &serverErr) {
		return ServerErrorPrefix + serverErr.Message
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return TransportErrorPrefix + transportErr.Error()
	}

	return TransportErrorPrefix + err.Error()
}
