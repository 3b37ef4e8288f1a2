package http

import (
	"errors"
	"fmt"
)

// ErrInvalidOption is wrapped by every option validation error.
var ErrInvalidOption = errors.New("invalid option")

// TransportError reports an exchange that could not be completed at all:
// DNS failure, refused connection, transport timeout or an aborted body.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned by JSONRPC when the response body is
// not valid JSON. Response holds the complete result for inspection.
type MalformedResponseError struct {
	Response *Response
	Err      error
}

func (e *MalformedResponseError) Error() string {
	if e.Response == nil {
		return fmt.Sprintf("malformed response: %v", e.Err)
	}
	return fmt.Sprintf("malformed response from %s (status %d): %v", e.Response.LastURL, e.Response.StatusCode, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
