package jsonrpc2

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Request is a single call. Field order is the wire order.
type Request struct {
	ID     int64         `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// Encode returns the request line as it is sent on the wire, without the
// trailing newline.
func (req *Request) Encode() ([]byte, error) {
	b, err := marshalASCII(req)
	if err != nil {
		return nil, &EncodingError{Method: req.Method, Err: err}
	}
	return b, nil
}

func (req *Request) String() string {
	b, err := req.Encode()
	if err != nil {
		return fmt.Sprintf("<invalid request %q: %s>", req.Method, err)
	}
	return string(b)
}

// Response is a single response line. Raw holds the line verbatim, without
// its terminating newline. ID, Result and Error are only set when Raw is a
// JSON object; a null member is left empty.
type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`

	Raw []byte `json:"-"`
}

// ParseResponse wraps a response line. It never fails: lines that are not a
// JSON object are kept opaque.
func ParseResponse(line []byte) *Response {
	resp := &Response{Raw: line}
	var envelope Response
	if err := json.Unmarshal(line, &envelope); err != nil {
		return resp
	}
	resp.ID = nonNull(envelope.ID)
	resp.Result = nonNull(envelope.Result)
	resp.Error = nonNull(envelope.Error)
	return resp
}

func (resp *Response) String() string {
	return string(resp.Raw)
}

// Err returns an *ErrResponse if the response carries an error member.
func (resp *Response) Err() error {
	if len(resp.Error) == 0 {
		return nil
	}
	return newErrResponse(resp.Error)
}

// UnmarshalResult decodes the result member into result. An error member is
// returned as an *ErrResponse. A missing result or a nil target is a no-op.
func (resp *Response) UnmarshalResult(result interface{}) error {
	if err := resp.Err(); err != nil {
		return err
	}
	if result == nil || len(resp.Result) == 0 {
		return nil
	}
	return json.Unmarshal(resp.Result, result)
}

// ErrResponse is the error member of a response. SL4A sends a plain string;
// objects with a code and message are understood too.
type ErrResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func newErrResponse(raw json.RawMessage) *ErrResponse {
	err := &ErrResponse{Raw: raw}
	var msg string
	if json.Unmarshal(raw, &msg) == nil {
		err.Message = msg
		return err
	}
	if isObject(raw) && json.Unmarshal(raw, err) == nil && err.Message != "" {
		return err
	}
	err.Message = string(raw)
	return err
}

func (err *ErrResponse) Error() string {
	if err.Code != 0 {
		return fmt.Sprintf("%d: %s", err.Code, err.Message)
	}
	return err.Message
}

// ErrorCode returns the error code of an object error member, or 0.
func (err *ErrResponse) ErrorCode() int {
	return err.Code
}

func nonNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return raw
}
