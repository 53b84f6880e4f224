package jsonrpc2

import (
	"errors"
	"fmt"
)

// ErrConnectionClosed is returned when the stream ends before a full
// response line was read. The connection should not be reused.
var ErrConnectionClosed = errors.New("connection closed before a full response line was read")

// ErrEmptyMethod is returned for calls without a method name.
var ErrEmptyMethod = errors.New("method name must not be empty")

// EncodingError is returned when a request could not be serialized. Nothing
// was written to the connection.
type EncodingError struct {
	Method string
	Err    error
}

func (err *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode request for %q: %s", err.Method, err.Err)
}

func (err *EncodingError) Unwrap() error {
	return err.Err
}
