package jsonrpc2

import "sync/atomic"

// NoParams sends an explicitly empty params array. Call(ctx, method) with no
// params at all sends [null] instead, which is what the SL4A server expects
// for methods without arguments.
//
//	remote.Call(ctx, "getVersion", NoParams...)
var NoParams = []interface{}{}

// Client assigns request IDs. The zero value is ready to use and hands out 0
// first.
type Client struct {
	id int64
}

// NextID returns the next request ID. Safe for concurrent use.
func (c *Client) NextID() int64 {
	return atomic.AddInt64(&c.id, 1) - 1
}

// Request builds a request with the next ID. Nil params are replaced with a
// single JSON null. Params that can't be encoded fail with *EncodingError
// before an ID is taken.
func (c *Client) Request(method string, params ...interface{}) (*Request, error) {
	if method == "" {
		return nil, ErrEmptyMethod
	}
	if params == nil {
		params = []interface{}{nil}
	}
	if _, err := marshalASCII(params); err != nil {
		return nil, &EncodingError{Method: method, Err: err}
	}
	return &Request{
		ID:     c.NextID(),
		Method: method,
		Params: params,
	}, nil
}
